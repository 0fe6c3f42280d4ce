package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Brand is a shared reference entity attached to base products.
type Brand struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BrandName   string    `gorm:"column:brand_name;size:255;uniqueIndex;not null" json:"brand_name"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

// TableName keeps the table compatible with existing snapshots.
func (Brand) TableName() string { return "brands" }

// Color is a shared reference entity attached to product variants.
// ColorCode holds the display hex code (e.g. "#000000").
type Color struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ColorName   string    `gorm:"column:color_name;size:255;uniqueIndex;not null" json:"color_name"`
	ColorCode   string    `gorm:"column:color_code;size:16" json:"color_code"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (Color) TableName() string { return "colors" }

// ProductType classifies base products (Handbag, Wallet, ...).
type ProductType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TypeName    string    `gorm:"column:type_name;size:255;uniqueIndex;not null" json:"type_name"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (ProductType) TableName() string { return "product_types" }

// TraderCategory is referenced by base products through its code string,
// not its id. The denormalization is deliberate: products carry the code
// so category rows can be re-keyed without touching the product table.
type TraderCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryCode string    `gorm:"column:category_code;size:32;uniqueIndex;not null" json:"category_code"`
	CategoryName string    `gorm:"column:category_name;size:255;not null" json:"category_name"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (TraderCategory) TableName() string { return "trader_categories" }

// Supplier is attached to base products; a default supplier (id 1) is
// seeded so bulk ingestion always has one to reference.
type Supplier struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SupplierName string    `gorm:"column:supplier_name;size:255;not null" json:"supplier_name"`
	ContactPhone string    `gorm:"column:contact_phone;size:64" json:"contact_phone"`
	ContactEmail string    `gorm:"column:contact_email;size:255" json:"contact_email"`
	Address      string    `gorm:"column:address;type:text" json:"address"`
	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (Supplier) TableName() string { return "suppliers" }

// Tag is attached to base products through the product_tags join table.
type Tag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TagName     string    `gorm:"column:tag_name;size:255;uniqueIndex;not null" json:"tag_name"`
	TagCategory string    `gorm:"column:tag_category;size:64" json:"tag_category"`
	TagColor    string    `gorm:"column:tag_color;size:16;default:#6c757d" json:"tag_color"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (Tag) TableName() string { return "tags" }

// BaseProduct is the brand/type/category/size/price record shared by all
// its color variants. Its deduplication identity is the triple
// (product_code, brand_id, trader_category).
type BaseProduct struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ProductCode    string          `gorm:"column:product_code;size:64;not null;index:idx_identity,unique,priority:1" json:"product_code"`
	BrandID        uint            `gorm:"column:brand_id;index:idx_identity,unique,priority:2" json:"brand_id"`
	ProductTypeID  uint            `gorm:"column:product_type_id" json:"product_type_id"`
	TraderCategory string          `gorm:"column:trader_category;size:32;index:idx_identity,unique,priority:3" json:"trader_category"`
	ProductSize    string          `gorm:"column:product_size;size:64" json:"product_size"`
	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:decimal(10,2)" json:"wholesale_price"`
	RetailPrice    decimal.Decimal `gorm:"column:retail_price;type:decimal(10,2)" json:"retail_price"`
	SupplierID     uint            `gorm:"column:supplier_id;default:1" json:"supplier_id"`
	CreatedDate    time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (BaseProduct) TableName() string { return "base_products" }

// ProductVariant is one color instance of a base product carrying its own
// stock count. (base_product_id, color_id) is unique: one variant per color.
type ProductVariant struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BaseProductID uint      `gorm:"column:base_product_id;index:idx_variant,unique,priority:1" json:"base_product_id"`
	ColorID       uint      `gorm:"column:color_id;index:idx_variant,unique,priority:2" json:"color_id"`
	CurrentStock  int       `gorm:"column:current_stock;default:0" json:"current_stock"`
	CreatedDate   time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// ColorImage stores at most one image per variant; re-adding replaces it.
type ColorImage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VariantID     uint      `gorm:"column:variant_id;uniqueIndex;not null" json:"variant_id"`
	ImageURL      string    `gorm:"column:image_url;size:1024" json:"image_url"`
	ImageFilename string    `gorm:"column:image_filename;size:255" json:"image_filename"`
	CreatedDate   time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (ColorImage) TableName() string { return "color_images" }

// ProductTag joins base products to tags; the pair is unique.
type ProductTag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"column:product_id;index:idx_product_tag,unique,priority:1" json:"product_id"`
	TagID       uint      `gorm:"column:tag_id;index:idx_product_tag,unique,priority:2" json:"tag_id"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (ProductTag) TableName() string { return "product_tags" }

// SnapshotTables lists every table included in a snapshot, ordered so that
// reference tables come before the tables that hold foreign keys into them.
// Restore applies tables in this order so every key is resolvable at insert
// time; export uses the same list for a stable document layout.
var SnapshotTables = []string{
	"brands",
	"colors",
	"product_types",
	"trader_categories",
	"suppliers",
	"tags",
	"base_products",
	"product_variants",
	"color_images",
	"product_tags",
}

// Migrate creates or updates all catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Brand{},
		&Color{},
		&ProductType{},
		&TraderCategory{},
		&Supplier{},
		&Tag{},
		&BaseProduct{},
		&ProductVariant{},
		&ColorImage{},
		&ProductTag{},
	)
}
