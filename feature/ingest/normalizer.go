package ingest

import (
	"fmt"
	"strings"

	"stock-manager/core/utils"

	"github.com/shopspring/decimal"
)

// Input field names as they appear in the spreadsheet header row.
const (
	FieldProductCode    = "Product Code"
	FieldBrandName      = "Brand Name"
	FieldProductType    = "Product Type"
	FieldCategory       = "Category"
	FieldSize           = "Size"
	FieldWholesalePrice = "Wholesale Price"
	FieldRetailPrice    = "Retail Price"
	FieldColorName      = "Color Name"
	FieldStock          = "Stock"
	FieldImageURL       = "Image URL"
	FieldTags           = "Tags"
)

// RawRow is one semi-structured input row, keyed by field name. Values may
// be strings, numbers or anything else a spreadsheet cell produces.
type RawRow map[string]any

// NormalizedRow is the strongly typed intermediate record produced from a
// RawRow. Coerced numeric fields that failed to parse are reported in
// Warnings rather than failing the row.
type NormalizedRow struct {
	ProductCode    string
	BrandName      string
	ProductTypeName string
	ColorName      string
	Category       string
	Size           string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	Stock          int
	ImageURL       string
	Tags           []string
	Warnings       []string
}

// Normalize converts one raw row into a NormalizedRow. Product code, brand
// name and color name are required after trimming; anything else defaults.
func Normalize(row RawRow) (*NormalizedRow, *RowError) {
	n := &NormalizedRow{
		ProductCode:     cleanCell(row[FieldProductCode]),
		BrandName:       cleanCell(row[FieldBrandName]),
		ProductTypeName: cleanCell(row[FieldProductType]),
		ColorName:       cleanCell(row[FieldColorName]),
		Category:        cleanCell(row[FieldCategory]),
		Size:            cleanCell(row[FieldSize]),
		ImageURL:        cleanCell(row[FieldImageURL]),
	}

	if n.ProductCode == "" || n.BrandName == "" || n.ColorName == "" {
		return nil, &RowError{
			Kind:    MissingRequiredField,
			Message: "missing required data (Product Code, Brand Name, or Color Name)",
		}
	}

	n.WholesalePrice = coerceDecimal(row[FieldWholesalePrice], FieldWholesalePrice, &n.Warnings)
	n.RetailPrice = coerceDecimal(row[FieldRetailPrice], FieldRetailPrice, &n.Warnings)
	n.Stock = coerceInt(row[FieldStock], FieldStock, &n.Warnings)

	if tags := cleanCell(row[FieldTags]); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				n.Tags = append(n.Tags, tag)
			}
		}
	}

	return n, nil
}

// cleanCell trims the cell and maps the spreadsheet null tokens to absent.
func cleanCell(val any) string {
	if val == nil {
		return ""
	}
	s := strings.TrimSpace(utils.ToString(val))
	switch s {
	case "nan", "NaN", "null":
		return ""
	}
	return s
}

// coerceDecimal parses a price cell leniently: absent is zero, malformed is
// zero plus a warning naming the field.
func coerceDecimal(val any, field string, warnings *[]string) decimal.Decimal {
	s := cleanCell(val)
	if s == "" {
		return decimal.Zero
	}
	d, ok := utils.ToDecimal(s)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("%s: %q is not a number, defaulted to 0", field, s))
		return decimal.Zero
	}
	return d
}

// coerceInt parses a count cell leniently, truncating fractional values.
func coerceInt(val any, field string, warnings *[]string) int {
	s := cleanCell(val)
	if s == "" {
		return 0
	}
	d, ok := utils.ToDecimal(s)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("%s: %q is not a number, defaulted to 0", field, s))
		return 0
	}
	return int(d.IntPart())
}
