// Package models defines the GORM models for the catalog schema.
//
// Table and column names match the snapshot document format, so backups taken
// by earlier deployments restore cleanly. The schema splits products into a
// BaseProduct (brand, type, category, size, prices) and per-color
// ProductVariants carrying stock, with reference entities (Brand, Color,
// ProductType, TraderCategory, Supplier, Tag) shared across products.
package models
