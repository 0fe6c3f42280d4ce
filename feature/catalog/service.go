package catalog

import (
	"context"
	"errors"
	"fmt"

	"stock-manager/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes catalog CRUD: reference entities, products and inventory.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// DB returns the underlying connection for collaborators that need
// transaction scope (ingest coordinator, snapshot engine).
func (s *Service) DB() *gorm.DB {
	return s.db
}

// --- Brands ---

func (s *Service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := s.db.WithContext(ctx).Order("brand_name").Find(&brands).Error
	return brands, err
}

func (s *Service) AddBrand(ctx context.Context, name string) (*models.Brand, error) {
	brand := models.Brand{BrandName: name}
	if err := s.db.WithContext(ctx).Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("failed to add brand: %w", err)
	}
	return &brand, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id uint, name string) error {
	res := s.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Update("brand_name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBrand removes a brand unless any product still references it.
func (s *Service) DeleteBrand(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BaseProduct{}).Where("brand_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenceInUse
	}
	return s.db.WithContext(ctx).Delete(&models.Brand{}, id).Error
}

// --- Colors ---

func (s *Service) ListColors(ctx context.Context) ([]models.Color, error) {
	var colors []models.Color
	err := s.db.WithContext(ctx).Order("color_name").Find(&colors).Error
	return colors, err
}

func (s *Service) AddColor(ctx context.Context, name, code string) (*models.Color, error) {
	if code == "" {
		code = "#FFFFFF"
	}
	color := models.Color{ColorName: name, ColorCode: code}
	if err := s.db.WithContext(ctx).Create(&color).Error; err != nil {
		return nil, fmt.Errorf("failed to add color: %w", err)
	}
	return &color, nil
}

func (s *Service) UpdateColor(ctx context.Context, id uint, name, code string) error {
	res := s.db.WithContext(ctx).Model(&models.Color{}).Where("id = ?", id).
		Updates(map[string]any{"color_name": name, "color_code": code})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteColor removes a color unless any variant still references it.
func (s *Service) DeleteColor(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ProductVariant{}).Where("color_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenceInUse
	}
	return s.db.WithContext(ctx).Delete(&models.Color{}, id).Error
}

// --- Product types ---

func (s *Service) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	var types []models.ProductType
	err := s.db.WithContext(ctx).Order("type_name").Find(&types).Error
	return types, err
}

func (s *Service) AddProductType(ctx context.Context, name string) (*models.ProductType, error) {
	pt := models.ProductType{TypeName: name}
	if err := s.db.WithContext(ctx).Create(&pt).Error; err != nil {
		return nil, fmt.Errorf("failed to add product type: %w", err)
	}
	return &pt, nil
}

func (s *Service) UpdateProductType(ctx context.Context, id uint, name string) error {
	res := s.db.WithContext(ctx).Model(&models.ProductType{}).Where("id = ?", id).Update("type_name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteProductType(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BaseProduct{}).Where("product_type_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenceInUse
	}
	return s.db.WithContext(ctx).Delete(&models.ProductType{}, id).Error
}

// --- Trader categories ---

func (s *Service) ListTraderCategories(ctx context.Context) ([]models.TraderCategory, error) {
	var categories []models.TraderCategory
	err := s.db.WithContext(ctx).Order("category_code").Find(&categories).Error
	return categories, err
}

func (s *Service) AddTraderCategory(ctx context.Context, code, name, description string) (*models.TraderCategory, error) {
	cat := models.TraderCategory{CategoryCode: code, CategoryName: name, Description: description}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to add trader category: %w", err)
	}
	return &cat, nil
}

func (s *Service) UpdateTraderCategory(ctx context.Context, id uint, code, name, description string) error {
	res := s.db.WithContext(ctx).Model(&models.TraderCategory{}).Where("id = ?", id).
		Updates(map[string]any{"category_code": code, "category_name": name, "description": description})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTraderCategory removes a category unless a product references its
// code. Products store the category code, not the id, so the check joins
// through the code column.
func (s *Service) DeleteTraderCategory(ctx context.Context, id uint) error {
	var cat models.TraderCategory
	if err := s.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BaseProduct{}).Where("trader_category = ?", cat.CategoryCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenceInUse
	}
	return s.db.WithContext(ctx).Delete(&models.TraderCategory{}, id).Error
}

// --- Suppliers ---

func (s *Service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.WithContext(ctx).Order("supplier_name").Find(&suppliers).Error
	return suppliers, err
}

func (s *Service) AddSupplier(ctx context.Context, name, phone, email, address string) (*models.Supplier, error) {
	supplier := models.Supplier{SupplierName: name, ContactPhone: phone, ContactEmail: email, Address: address}
	if err := s.db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to add supplier: %w", err)
	}
	return &supplier, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id uint, name, phone, email, address string) error {
	res := s.db.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", id).
		Updates(map[string]any{"supplier_name": name, "contact_phone": phone, "contact_email": email, "address": address})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSupplier removes a supplier unless a product references it.
func (s *Service) DeleteSupplier(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BaseProduct{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenceInUse
	}
	return s.db.WithContext(ctx).Delete(&models.Supplier{}, id).Error
}

// --- Tags ---

func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("tag_category, tag_name").Find(&tags).Error
	return tags, err
}

func (s *Service) AddTag(ctx context.Context, name, category, color, description string) (*models.Tag, error) {
	if category == "" {
		category = "general"
	}
	if color == "" {
		color = "#6c757d"
	}
	tag := models.Tag{TagName: name, TagCategory: category, TagColor: color, Description: description}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("failed to add tag: %w", err)
	}
	return &tag, nil
}

func (s *Service) UpdateTag(ctx context.Context, id uint, name, category, color, description string) error {
	res := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", id).
		Updates(map[string]any{"tag_name": name, "tag_category": category, "tag_color": color, "description": description})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteTag(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ProductTag{}).Where("tag_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenceInUse
	}
	return s.db.WithContext(ctx).Delete(&models.Tag{}, id).Error
}

// ProductTags returns the tags attached to a product.
func (s *Service) ProductTags(ctx context.Context, productID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN product_tags pt ON pt.tag_id = tags.id").
		Where("pt.product_id = ?", productID).
		Order("tags.tag_category, tags.tag_name").
		Find(&tags).Error
	return tags, err
}

// SetProductTags replaces the full tag set of a product.
func (s *Service) SetProductTags(ctx context.Context, productID uint, tagIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductTag{}).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&models.ProductTag{ProductID: productID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
