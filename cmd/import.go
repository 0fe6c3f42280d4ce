package cmd

import (
	"context"
	"fmt"

	"stock-manager/core/storage"
	"stock-manager/feature/catalog/models"
	"stock-manager/feature/ingest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importNoImages bool

// importCmd ingests a product sheet from the local filesystem.
var importCmd = &cobra.Command{
	Use:   "import <sheet.xlsx|sheet.csv>",
	Short: "Bulk-import products from a spreadsheet",
	Long: `Reads a product sheet and reconciles it against the catalog: products are
created or updated, variant stock is overwritten, and unknown brands, colors
and types are created on the fly. Failed rows are reported and skipped.

Examples:
  # Import a spreadsheet
  stock-manager import products.xlsx

  # Import without downloading product images
  stock-manager import products.csv --no-images`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importNoImages, "no-images", false, "Skip image download and attachment")
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	if err := models.Migrate(rt.db); err != nil {
		return fmt.Errorf("migrate database schema: %w", err)
	}

	rows, err := ingest.ReadSheet(args[0])
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	l.Info("Sheet loaded", zap.String("path", args[0]), zap.Int("rows", len(rows)))

	var attacher ingest.Attacher
	if !importNoImages {
		client, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			return fmt.Errorf("create storage client: %w", err)
		}
		attacher = ingest.NewImageAttacher(client, rt.cfg.Storage.Bucket,
			rt.cfg.Ingest.ImageTimeoutSeconds, l)
	}

	coordinator := ingest.NewCoordinator(ingest.NewGormStore(rt.db), attacher, l, rt.cfg.Ingest)
	report := coordinator.Ingest(context.Background(), rows)

	l.Info("Import finished",
		zap.Bool("success", report.Success),
		zap.Int("succeeded", report.SuccessCount),
		zap.Int("failed", report.FailedCount),
		zap.Int("unique_products", report.UniqueProducts),
		zap.Strings("created_brands", report.CreatedBrands),
		zap.Strings("created_colors", report.CreatedColors),
		zap.Strings("created_types", report.CreatedTypes),
	)
	for _, failure := range report.Failures {
		l.Warn("Row failed",
			zap.Int("row", failure.RowIndex),
			zap.String("product_code", failure.ProductCode),
			zap.String("kind", string(failure.Kind)),
			zap.String("error", failure.Message),
		)
	}
	for _, warning := range report.Warnings {
		l.Info("Row warning", zap.Int("row", warning.RowIndex), zap.String("message", warning.Message))
	}

	if !report.Success {
		return fmt.Errorf("import aborted after %d rows: %s (%d rows not attempted)",
			report.SuccessCount+report.FailedCount, report.Error, report.NotAttempted)
	}
	return nil
}
