package cmd

import (
	"fmt"

	"stock-manager/core/config"
	"stock-manager/core/database"
	"stock-manager/core/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs: configuration, the structured
// logger and a live database connection.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// initRuntime loads configuration, builds the logger and connects to the
// database. The returned logger must be Synced by the caller.
func initRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		_ = l.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &runtime{cfg: cfg, logger: l, db: db}, nil
}
