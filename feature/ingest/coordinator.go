package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Attacher stores a remote image for a variant and returns the locator and
// filename to record. It is a best-effort collaborator: failures degrade the
// row to a warning, never a failure.
type Attacher interface {
	Attach(ctx context.Context, productCode, colorName, imageURL string) (locator, filename string, err error)
}

type productKey struct {
	code     string
	brandID  uint
	category string
}

// Coordinator drives bulk ingestion: it partitions rows into chunks, runs
// normalize → resolve → upsert per row inside a chunk transaction, and
// accumulates the outcome report. Chunks commit independently, so earlier
// progress survives a later fault.
type Coordinator struct {
	store     Store
	attacher  Attacher
	logger    *zap.Logger
	batchSize int
}

// NewCoordinator creates a coordinator. attacher may be nil when no image
// sink is configured; image cells are then ignored.
func NewCoordinator(store Store, attacher Attacher, logger *zap.Logger, cfg Config) *Coordinator {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Coordinator{
		store:     store,
		attacher:  attacher,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Ingest processes rows in order and returns the run report. Row indices in
// the report are 1-based. Cancellation is honored between chunks only:
// committed chunks remain applied.
func (c *Coordinator) Ingest(ctx context.Context, rows []RawRow) *Report {
	report := &Report{Success: true}
	resolver := NewResolver(c.store)

	// Products already touched in this run, keyed by identity triple, so a
	// repeated code updates the product and accumulates variants on it.
	processed := make(map[productKey]uint)

	for start := 0; start < len(rows); start += c.batchSize {
		if err := ctx.Err(); err != nil {
			report.Success = false
			report.Error = err.Error()
			report.NotAttempted = len(rows) - start
			break
		}

		end := start + c.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		successAtChunkStart := report.SuccessCount
		failuresAtChunkStart := len(report.Failures)

		err := c.store.Transaction(ctx, func(tx Store) error {
			resolver.bind(tx)
			for i, row := range chunk {
				rowIndex := start + i + 1
				c.processRow(ctx, tx, resolver, row, rowIndex, report, processed)
			}
			return nil
		})
		if err != nil {
			// The chunk rolled back: its successes are gone, later rows were
			// never attempted. Already committed chunks stay applied.
			chunkFailures := len(report.Failures) - failuresAtChunkStart
			report.SuccessCount = successAtChunkStart
			report.Success = false
			report.Error = err.Error()
			report.NotAttempted = len(rows) - start - chunkFailures
			c.logger.Error("Ingestion chunk failed, run aborted",
				zap.Int("chunk_start", start+1),
				zap.Error(err),
			)
			break
		}

		c.logger.Info("Ingestion chunk committed",
			zap.Int("from_row", start+1),
			zap.Int("to_row", end),
			zap.Int("success_so_far", report.SuccessCount),
		)
	}

	report.FailedCount = len(report.Failures)
	report.UniqueProducts = len(processed)
	report.CreatedBrands = resolver.Created(KindBrand)
	report.CreatedColors = resolver.Created(KindColor)
	report.CreatedTypes = resolver.Created(KindProductType)
	return report
}

// processRow handles one row; any error is recorded as a row failure and the
// run moves on. Only transaction-level faults abort the chunk.
func (c *Coordinator) processRow(ctx context.Context, tx Store, resolver *Resolver, row RawRow, rowIndex int, report *Report, processed map[productKey]uint) {
	norm, rowErr := Normalize(row)
	if rowErr != nil {
		report.Failures = append(report.Failures, RowFailure{
			RowIndex:    rowIndex,
			ProductCode: cleanCell(row[FieldProductCode]),
			Color:       cleanCell(row[FieldColorName]),
			Kind:        rowErr.Kind,
			Message:     rowErr.Message,
		})
		c.logger.Warn("Row rejected", zap.Int("row", rowIndex), zap.String("reason", rowErr.Message))
		return
	}

	for _, w := range norm.Warnings {
		report.Warnings = append(report.Warnings, RowWarning{RowIndex: rowIndex, Message: w})
	}

	fail := func(err error) {
		report.Failures = append(report.Failures, RowFailure{
			RowIndex:    rowIndex,
			ProductCode: norm.ProductCode,
			Color:       norm.ColorName,
			Kind:        StorageFault,
			Message:     err.Error(),
		})
		c.logger.Warn("Row failed", zap.Int("row", rowIndex), zap.Error(err))
	}

	brandID, err := resolver.Brand(ctx, norm.BrandName)
	if err != nil {
		fail(err)
		return
	}

	var typeID uint
	if norm.ProductTypeName != "" {
		if typeID, err = resolver.ProductType(ctx, norm.ProductTypeName); err != nil {
			fail(err)
			return
		}
	}

	colorID, err := resolver.Color(ctx, norm.ColorName)
	if err != nil {
		fail(err)
		return
	}

	fields := ProductFields{
		ProductCode:    norm.ProductCode,
		BrandID:        brandID,
		TraderCategory: norm.Category,
		ProductTypeID:  typeID,
		ProductSize:    norm.Size,
		WholesalePrice: norm.WholesalePrice,
		RetailPrice:    norm.RetailPrice,
	}

	key := productKey{code: norm.ProductCode, brandID: brandID, category: norm.Category}
	productID, seen := processed[key]
	if !seen {
		existingID, found, err := tx.FindProduct(ctx, norm.ProductCode, brandID, norm.Category)
		if err != nil {
			fail(err)
			return
		}
		if found {
			productID = existingID
			if err := tx.UpdateProduct(ctx, productID, fields); err != nil {
				fail(err)
				return
			}
		} else {
			if productID, err = tx.CreateProduct(ctx, fields); err != nil {
				fail(err)
				return
			}
		}
		processed[key] = productID
	}

	variantID, found, err := tx.FindVariant(ctx, productID, colorID)
	if err != nil {
		fail(err)
		return
	}
	if found {
		// Stock is overwritten with the row's value, never accumulated.
		if err := tx.SetVariantStock(ctx, variantID, norm.Stock); err != nil {
			fail(err)
			return
		}
	} else {
		if variantID, err = tx.CreateVariant(ctx, productID, colorID, norm.Stock); err != nil {
			fail(err)
			return
		}
	}

	if norm.ImageURL != "" && c.attacher != nil {
		locator, filename, attachErr := c.attacher.Attach(ctx, norm.ProductCode, norm.ColorName, norm.ImageURL)
		if attachErr != nil {
			report.Warnings = append(report.Warnings, RowWarning{
				RowIndex: rowIndex,
				Message:  fmt.Sprintf("%s: image attachment failed: %v", AttachmentFailure, attachErr),
			})
			c.logger.Warn("Image attachment failed",
				zap.Int("row", rowIndex),
				zap.String("product_code", norm.ProductCode),
				zap.Error(attachErr),
			)
		} else if err := tx.ReplaceVariantImage(ctx, variantID, locator, filename); err != nil {
			fail(err)
			return
		}
	}

	for _, tagName := range norm.Tags {
		tagID, found, err := resolver.Tag(ctx, tagName)
		if err != nil {
			fail(err)
			return
		}
		if !found {
			// Unknown tags are skipped; ingestion never creates tags.
			continue
		}
		if err := tx.AttachTag(ctx, productID, tagID); err != nil {
			fail(err)
			return
		}
	}

	report.SuccessCount++
}
