package catalog

import (
	"context"
	"errors"
	"fmt"

	"stock-manager/feature/catalog/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewProduct carries the fields of the explicit single-product add path.
type NewProduct struct {
	ProductCode    string
	BrandID        uint
	ProductTypeID  uint
	TraderCategory string
	ProductSize    string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	SupplierID     uint
	ColorIDs       []uint
	TagIDs         []uint
	InitialStock   int
}

// AddProduct creates a base product with one variant per color and the given
// tags. Unlike bulk ingestion, an existing identity triple is rejected with
// ErrDuplicateProduct instead of being updated.
func (s *Service) AddProduct(ctx context.Context, p NewProduct) (*models.BaseProduct, error) {
	if p.SupplierID == 0 {
		p.SupplierID = 1
	}

	var existing models.BaseProduct
	err := s.db.WithContext(ctx).
		Where("product_code = ? AND brand_id = ? AND trader_category = ?", p.ProductCode, p.BrandID, p.TraderCategory).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateProduct
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product := models.BaseProduct{
		ProductCode:    p.ProductCode,
		BrandID:        p.BrandID,
		ProductTypeID:  p.ProductTypeID,
		TraderCategory: p.TraderCategory,
		ProductSize:    p.ProductSize,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		SupplierID:     p.SupplierID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		for _, colorID := range p.ColorIDs {
			variant := models.ProductVariant{BaseProductID: product.ID, ColorID: colorID, CurrentStock: p.InitialStock}
			if err := tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("failed to create variant: %w", err)
			}
		}
		for _, tagID := range p.TagIDs {
			if err := tx.Create(&models.ProductTag{ProductID: product.ID, TagID: tagID}).Error; err != nil {
				return fmt.Errorf("failed to attach tag: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// DeleteProduct removes a product with its variants and tag links.
func (s *Service) DeleteProduct(ctx context.Context, productID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("base_product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BaseProduct{}, productID).Error
	})
}

// ReplaceVariantImage wholesale-replaces the image of a variant.
func (s *Service) ReplaceVariantImage(ctx context.Context, variantID uint, imageURL, filename string) error {
	image := models.ColorImage{VariantID: variantID, ImageURL: imageURL, ImageFilename: filename}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url", "image_filename"}),
	}).Create(&image).Error
}

// InventoryFilter narrows the inventory listing. InStockOnly defaults to
// true through DefaultInventoryFilter; other listing paths do not apply the
// stock filter, which mirrors how operators use the two views.
type InventoryFilter struct {
	Search      string
	Brand       string
	Category    string
	InStockOnly bool
}

// DefaultInventoryFilter returns the filter used by the inventory view.
func DefaultInventoryFilter() InventoryFilter {
	return InventoryFilter{InStockOnly: true}
}

// VariantDetail is one color line of an inventory item.
type VariantDetail struct {
	VariantID uint   `json:"variant_id"`
	ColorID   uint   `json:"color_id"`
	ColorName string `json:"color_name"`
	ColorCode string `json:"color_code"`
	Stock     int    `json:"stock"`
	ImageURL  string `json:"image_url,omitempty"`
}

// InventoryItem is one product with its variants, total stock and tags.
type InventoryItem struct {
	Product    models.BaseProduct `json:"product"`
	BrandName  string             `json:"brand_name"`
	TypeName   string             `json:"type_name"`
	Variants   []VariantDetail    `json:"variants"`
	TotalStock int                `json:"total_stock"`
	Tags       []models.Tag       `json:"tags"`
}

// Inventory lists products with their per-color stock breakdown.
func (s *Service) Inventory(ctx context.Context, filter InventoryFilter) ([]InventoryItem, error) {
	type productRow struct {
		models.BaseProduct
		BrandName string
		TypeName  string
	}

	q := s.db.WithContext(ctx).Model(&models.BaseProduct{}).
		Select("base_products.*, b.brand_name, pt.type_name").
		Joins("LEFT JOIN brands b ON base_products.brand_id = b.id").
		Joins("LEFT JOIN product_types pt ON base_products.product_type_id = pt.id")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("base_products.product_code LIKE ? OR b.brand_name LIKE ? OR base_products.product_size LIKE ?", like, like, like)
	}
	if filter.Brand != "" {
		q = q.Where("b.brand_name = ?", filter.Brand)
	}
	if filter.Category != "" {
		q = q.Where("base_products.trader_category = ?", filter.Category)
	}
	if filter.InStockOnly {
		q = q.Where("EXISTS (SELECT 1 FROM product_variants pv WHERE pv.base_product_id = base_products.id AND pv.current_stock > 0)")
	}

	var rows []productRow
	if err := q.Order("b.brand_name, base_products.product_code").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]InventoryItem, 0, len(rows))
	for _, row := range rows {
		var variants []VariantDetail
		err := s.db.WithContext(ctx).Model(&models.ProductVariant{}).
			Select("product_variants.id AS variant_id, c.id AS color_id, c.color_name, c.color_code, product_variants.current_stock AS stock, ci.image_url").
			Joins("JOIN colors c ON product_variants.color_id = c.id").
			Joins("LEFT JOIN color_images ci ON product_variants.id = ci.variant_id").
			Where("product_variants.base_product_id = ?", row.ID).
			Order("c.color_name").
			Scan(&variants).Error
		if err != nil {
			return nil, err
		}

		total := 0
		for _, v := range variants {
			total += v.Stock
		}

		tags, err := s.ProductTags(ctx, row.ID)
		if err != nil {
			return nil, err
		}

		items = append(items, InventoryItem{
			Product:    row.BaseProduct,
			BrandName:  row.BrandName,
			TypeName:   row.TypeName,
			Variants:   variants,
			TotalStock: total,
			Tags:       tags,
		})
	}

	return items, nil
}

// InventorySummary aggregates stock counts for reporting.
type InventorySummary struct {
	TotalProducts       int `json:"total_products"`
	TotalVariants       int `json:"total_variants"`
	TotalStock          int `json:"total_stock"`
	OutOfStockVariants  int `json:"out_of_stock_variants"`
	LowStockVariants    int `json:"low_stock_variants"`
}

// Summary returns the aggregate inventory counts. Low stock means a variant
// holding between 1 and 5 units.
func (s *Service) Summary(ctx context.Context) (*InventorySummary, error) {
	var summary InventorySummary
	err := s.db.WithContext(ctx).Model(&models.BaseProduct{}).
		Select(`COUNT(DISTINCT base_products.id) AS total_products,
			COUNT(pv.id) AS total_variants,
			COALESCE(SUM(pv.current_stock), 0) AS total_stock,
			COALESCE(SUM(CASE WHEN pv.current_stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_variants,
			COALESCE(SUM(CASE WHEN pv.current_stock > 0 AND pv.current_stock <= 5 THEN 1 ELSE 0 END), 0) AS low_stock_variants`).
		Joins("LEFT JOIN product_variants pv ON base_products.id = pv.base_product_id").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// StockUpdate sets a variant's stock to an absolute value.
type StockUpdate struct {
	VariantID uint `json:"variant_id"`
	NewStock  int  `json:"new_stock"`
}

// StockUpdateResult reports per-item outcomes of a bulk stock update.
type StockUpdateResult struct {
	UpdatedCount int              `json:"updated_count"`
	FailedCount  int              `json:"failed_count"`
	Failures     []StockUpdateErr `json:"failures,omitempty"`
}

// StockUpdateErr is one failed item of a bulk stock update.
type StockUpdateErr struct {
	VariantID uint   `json:"variant_id"`
	Error     string `json:"error"`
}

// BulkUpdateStock applies absolute stock values to variants, continuing past
// individual failures and committing whatever succeeded.
func (s *Service) BulkUpdateStock(ctx context.Context, updates []StockUpdate) (*StockUpdateResult, error) {
	result := &StockUpdateResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&models.ProductVariant{}).Where("id = ?", u.VariantID).Update("current_stock", u.NewStock)
			if res.Error != nil {
				result.Failures = append(result.Failures, StockUpdateErr{VariantID: u.VariantID, Error: res.Error.Error()})
				continue
			}
			if res.RowsAffected == 0 {
				result.Failures = append(result.Failures, StockUpdateErr{VariantID: u.VariantID, Error: "variant not found"})
				continue
			}
			result.UpdatedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.FailedCount = len(result.Failures)
	s.logger.Info("Bulk stock update finished",
		zap.Int("updated", result.UpdatedCount),
		zap.Int("failed", result.FailedCount),
	)
	return result, nil
}
