package catalog

import (
	"context"

	"stock-manager/feature/catalog/models"

	"gorm.io/gorm/clause"
)

// SeedDefaults inserts the baseline reference data a fresh deployment needs.
// Every insert is idempotent (unique names are skipped on conflict), so the
// call is safe to repeat on startup.
func (s *Service) SeedDefaults(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	ignore := clause.OnConflict{DoNothing: true}

	categories := []models.TraderCategory{
		{CategoryCode: "L", CategoryName: "Category L", Description: "Trader Category L"},
		{CategoryCode: "F", CategoryName: "Category F", Description: "Trader Category F"},
	}
	if err := db.Clauses(ignore).Create(&categories).Error; err != nil {
		return err
	}

	brands := []models.Brand{
		{BrandName: "Saint Laurent"}, {BrandName: "Gucci"}, {BrandName: "Louis Vuitton"},
		{BrandName: "Guess"}, {BrandName: "Tommy Hilfiger"}, {BrandName: "Karl Lagerfeld"},
	}
	if err := db.Clauses(ignore).Create(&brands).Error; err != nil {
		return err
	}

	colors := []models.Color{
		{ColorName: "Black", ColorCode: "#000000"}, {ColorName: "Brown", ColorCode: "#8B4513"},
		{ColorName: "Red", ColorCode: "#FF0000"}, {ColorName: "White", ColorCode: "#FFFFFF"},
		{ColorName: "Beige", ColorCode: "#F5F5DC"}, {ColorName: "Navy", ColorCode: "#000080"},
		{ColorName: "Gold", ColorCode: "#FFD700"}, {ColorName: "Silver", ColorCode: "#C0C0C0"},
		{ColorName: "Pink", ColorCode: "#FFC0CB"}, {ColorName: "Blue", ColorCode: "#0000FF"},
	}
	if err := db.Clauses(ignore).Create(&colors).Error; err != nil {
		return err
	}

	types := []models.ProductType{
		{TypeName: "Handbag"}, {TypeName: "Wallet"}, {TypeName: "Backpack"},
		{TypeName: "Clutch"}, {TypeName: "Shoulder Bag"}, {TypeName: "Tote Bag"},
	}
	if err := db.Clauses(ignore).Create(&types).Error; err != nil {
		return err
	}

	var supplierCount int64
	if err := db.Model(&models.Supplier{}).Count(&supplierCount).Error; err != nil {
		return err
	}
	if supplierCount == 0 {
		supplier := models.Supplier{SupplierName: "Default Supplier", ContactPhone: "01000000000"}
		if err := db.Create(&supplier).Error; err != nil {
			return err
		}
	}

	tags := []models.Tag{
		{TagName: "Small", TagCategory: "size", TagColor: "#28a745", Description: "Small size products"},
		{TagName: "Medium", TagCategory: "size", TagColor: "#ffc107", Description: "Medium size products"},
		{TagName: "Large", TagCategory: "size", TagColor: "#fd7e14", Description: "Large size products"},
		{TagName: "XL", TagCategory: "size", TagColor: "#dc3545", Description: "Extra Large size products"},
		{TagName: "Sale", TagCategory: "status", TagColor: "#dc3545", Description: "Products on sale"},
		{TagName: "New Arrival", TagCategory: "status", TagColor: "#28a745", Description: "New products"},
		{TagName: "Limited Edition", TagCategory: "status", TagColor: "#6f42c1", Description: "Limited edition products"},
		{TagName: "Valentine's", TagCategory: "occasion", TagColor: "#e83e8c", Description: "Valentine's Day collection"},
		{TagName: "Christmas", TagCategory: "occasion", TagColor: "#dc3545", Description: "Christmas collection"},
		{TagName: "Summer", TagCategory: "season", TagColor: "#fd7e14", Description: "Summer collection"},
		{TagName: "Winter", TagCategory: "season", TagColor: "#6c757d", Description: "Winter collection"},
		{TagName: "Leather", TagCategory: "material", TagColor: "#8B4513", Description: "Leather products"},
		{TagName: "Canvas", TagCategory: "material", TagColor: "#6c757d", Description: "Canvas products"},
		{TagName: "Casual", TagCategory: "style", TagColor: "#17a2b8", Description: "Casual style"},
		{TagName: "Formal", TagCategory: "style", TagColor: "#343a40", Description: "Formal style"},
	}
	if err := db.Clauses(ignore).Create(&tags).Error; err != nil {
		return err
	}

	return nil
}
