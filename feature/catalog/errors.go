package catalog

import "errors"

var (
	// ErrDuplicateProduct is returned by AddProduct when a product with the
	// same (code, brand, trader category) identity triple already exists.
	// Bulk ingestion never returns this; it updates the existing product.
	ErrDuplicateProduct = errors.New("product with the same code, brand and category already exists")

	// ErrReferenceInUse is returned when deleting a reference entity that is
	// still referenced by a product or variant. Deletion never cascades.
	ErrReferenceInUse = errors.New("reference entity is used by existing products")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")
)
