package cmd

import (
	"context"
	"fmt"

	"stock-manager/feature/catalog"
	"stock-manager/feature/catalog/models"

	"github.com/spf13/cobra"
)

// seedCmd populates the reference tables with the default data set.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert default reference data",
	Long: `Inserts the default trader categories, brands, colors, product types, tags
and supplier. Existing rows are left untouched, so seeding is safe to repeat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := initRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := models.Migrate(rt.db); err != nil {
			return fmt.Errorf("migrate database schema: %w", err)
		}

		service := catalog.NewService(rt.db, rt.logger)
		if err := service.SeedDefaults(context.Background()); err != nil {
			return err
		}
		rt.logger.Info("Default reference data seeded")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}
