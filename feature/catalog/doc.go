// Package catalog implements direct CRUD over the reference and product
// tables: brands, colors, product types, trader categories, suppliers, tags,
// base products and their color variants.
//
// Deleting a reference entity that is still referenced by a product or
// variant fails with ErrReferenceInUse; nothing cascades silently. The
// single-product add path rejects an existing identity triple
// (code, brand, category) with ErrDuplicateProduct, in contrast to bulk
// ingestion (feature/ingest) which upserts instead.
package catalog
