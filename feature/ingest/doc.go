// Package ingest implements the bulk ingestion and reconciliation engine.
//
// A batch of semi-structured rows (spreadsheet import or programmatic
// records) is processed row by row: the normalizer coerces one raw row into
// a typed record, the resolver maps reference entity names (brand, color,
// product type, tag) to ids — creating brands, colors and types on demand —
// and the coordinator upserts the product and its stock-bearing variant.
//
// Rows are partitioned into fixed-size chunks, each committed as one
// transaction, so a mid-run fault loses at most the in-flight chunk.
// Per-row failures never abort the batch; they are collected into the
// Report together with warnings and the names of auto-created reference
// entities.
//
// # Idempotence
//
// Re-running an unchanged batch reaches the same final catalog state: the
// product identity triple (code, brand, trader category) dedupes products,
// (product, color) dedupes variants, and variant stock is overwritten with
// the row's value, never accumulated.
package ingest
