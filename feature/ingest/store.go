package ingest

import (
	"context"
	"errors"
	"fmt"

	"stock-manager/feature/catalog/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefKind identifies a reference entity table.
type RefKind string

const (
	KindBrand       RefKind = "brand"
	KindColor       RefKind = "color"
	KindProductType RefKind = "product_type"
	KindTag         RefKind = "tag"
)

// RefDefaults carries the attributes a newly created reference entity gets.
type RefDefaults struct {
	// ColorCode is the display hex code used when creating a color.
	ColorCode string
}

// ProductFields holds the identity triple and the mutable product fields.
type ProductFields struct {
	ProductCode    string
	BrandID        uint
	TraderCategory string
	ProductTypeID  uint
	ProductSize    string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
}

// Store is the persistence surface the ingestion engine needs. The GORM
// implementation is the production one; tests substitute an in-memory fake.
type Store interface {
	// Transaction runs fn against a transactional view of the store.
	// Returning an error rolls the chunk back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	FindReference(ctx context.Context, kind RefKind, name string) (uint, bool, error)
	CreateReference(ctx context.Context, kind RefKind, name string, defaults RefDefaults) (uint, error)

	FindProduct(ctx context.Context, code string, brandID uint, category string) (uint, bool, error)
	CreateProduct(ctx context.Context, p ProductFields) (uint, error)
	UpdateProduct(ctx context.Context, productID uint, p ProductFields) error

	FindVariant(ctx context.Context, productID, colorID uint) (uint, bool, error)
	CreateVariant(ctx context.Context, productID, colorID uint, stock int) (uint, error)
	SetVariantStock(ctx context.Context, variantID uint, stock int) error

	ReplaceVariantImage(ctx context.Context, variantID uint, imageURL, filename string) error
	AttachTag(ctx context.Context, productID, tagID uint) error
}

// GormStore implements Store on top of the catalog schema.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a GORM connection as an ingestion store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) FindReference(ctx context.Context, kind RefKind, name string) (uint, bool, error) {
	var id uint
	var err error
	db := s.db.WithContext(ctx)

	switch kind {
	case KindBrand:
		var m models.Brand
		err = db.Select("id").Where("brand_name = ?", name).First(&m).Error
		id = m.ID
	case KindColor:
		var m models.Color
		err = db.Select("id").Where("color_name = ?", name).First(&m).Error
		id = m.ID
	case KindProductType:
		var m models.ProductType
		err = db.Select("id").Where("type_name = ?", name).First(&m).Error
		id = m.ID
	case KindTag:
		var m models.Tag
		err = db.Select("id").Where("tag_name = ?", name).First(&m).Error
		id = m.ID
	default:
		return 0, false, fmt.Errorf("unknown reference kind %q", kind)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *GormStore) CreateReference(ctx context.Context, kind RefKind, name string, defaults RefDefaults) (uint, error) {
	db := s.db.WithContext(ctx)

	switch kind {
	case KindBrand:
		m := models.Brand{BrandName: name}
		if err := db.Create(&m).Error; err != nil {
			return 0, err
		}
		return m.ID, nil
	case KindColor:
		m := models.Color{ColorName: name, ColorCode: defaults.ColorCode}
		if err := db.Create(&m).Error; err != nil {
			return 0, err
		}
		return m.ID, nil
	case KindProductType:
		m := models.ProductType{TypeName: name}
		if err := db.Create(&m).Error; err != nil {
			return 0, err
		}
		return m.ID, nil
	case KindTag:
		m := models.Tag{TagName: name}
		if err := db.Create(&m).Error; err != nil {
			return 0, err
		}
		return m.ID, nil
	default:
		return 0, fmt.Errorf("unknown reference kind %q", kind)
	}
}

func (s *GormStore) FindProduct(ctx context.Context, code string, brandID uint, category string) (uint, bool, error) {
	var m models.BaseProduct
	err := s.db.WithContext(ctx).Select("id").
		Where("product_code = ? AND brand_id = ? AND trader_category = ?", code, brandID, category).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return m.ID, true, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p ProductFields) (uint, error) {
	m := models.BaseProduct{
		ProductCode:    p.ProductCode,
		BrandID:        p.BrandID,
		ProductTypeID:  p.ProductTypeID,
		TraderCategory: p.TraderCategory,
		ProductSize:    p.ProductSize,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		SupplierID:     1,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// UpdateProduct only touches the mutable fields; the identity triple of an
// existing product is never rewritten by bulk ingestion.
func (s *GormStore) UpdateProduct(ctx context.Context, productID uint, p ProductFields) error {
	return s.db.WithContext(ctx).Model(&models.BaseProduct{}).Where("id = ?", productID).
		Updates(map[string]any{
			"product_type_id": p.ProductTypeID,
			"product_size":    p.ProductSize,
			"wholesale_price": p.WholesalePrice,
			"retail_price":    p.RetailPrice,
		}).Error
}

func (s *GormStore) FindVariant(ctx context.Context, productID, colorID uint) (uint, bool, error) {
	var m models.ProductVariant
	err := s.db.WithContext(ctx).Select("id").
		Where("base_product_id = ? AND color_id = ?", productID, colorID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return m.ID, true, nil
}

func (s *GormStore) CreateVariant(ctx context.Context, productID, colorID uint, stock int) (uint, error) {
	m := models.ProductVariant{BaseProductID: productID, ColorID: colorID, CurrentStock: stock}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (s *GormStore) SetVariantStock(ctx context.Context, variantID uint, stock int) error {
	return s.db.WithContext(ctx).Model(&models.ProductVariant{}).Where("id = ?", variantID).
		Update("current_stock", stock).Error
}

func (s *GormStore) ReplaceVariantImage(ctx context.Context, variantID uint, imageURL, filename string) error {
	image := models.ColorImage{VariantID: variantID, ImageURL: imageURL, ImageFilename: filename}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url", "image_filename"}),
	}).Create(&image).Error
}

func (s *GormStore) AttachTag(ctx context.Context, productID, tagID uint) error {
	link := models.ProductTag{ProductID: productID, TagID: tagID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}
