package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-manager/core/logger"
	"stock-manager/core/middleware/auth"
	"stock-manager/core/middleware/rayid"
	"stock-manager/core/storage"
	"stock-manager/feature/backup"
	"stock-manager/feature/catalog"
	"stock-manager/feature/catalog/models"
	"stock-manager/feature/ingest"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout bounds the final backup taken on SIGTERM.
const shutdownTimeout = 30 * time.Second

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the stock manager server",
	Long:  `Starts the HTTP server, the backup scheduler and, on an empty catalog, the startup restore.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := models.Migrate(rt.db); err != nil {
			logg.Fatal("Failed to migrate database schema", zap.Error(err))
		}

		store, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// Catalog + ingestion wiring
		service := catalog.NewService(rt.db, logg)
		attacher := ingest.NewImageAttacher(store, rt.cfg.Storage.Bucket,
			rt.cfg.Ingest.ImageTimeoutSeconds, logg)
		coordinator := ingest.NewCoordinator(ingest.NewGormStore(rt.db), attacher, logg, rt.cfg.Ingest)

		// Backup wiring
		engine := backup.NewEngine(rt.db, logg)
		backend, err := backup.NewBackend(rt.cfg.Backup, rt.cfg.Storage, engine, logg)
		if err != nil {
			logg.Fatal("Failed to create backup backend", zap.Error(err))
		}

		startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := backup.RestoreOnStartup(startupCtx, rt.db, backend, service.SeedDefaults, logg); err != nil {
			cancel()
			logg.Fatal("Startup restore failed", zap.Error(err))
		}
		cancel()

		scheduler := backup.NewScheduler(rt.cfg.Backup, backend, logg)
		if rt.cfg.Backup.Enabled {
			scheduler.Start()
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// RayID must be first so every log line can be traced
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		ingest.NewHandler(coordinator, logg).RegisterRoutes(app)
		backup.NewHandler(backend, logg).RegisterRoutes(app)

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful shutdown: stop accepting requests, then take the final backup
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if err := scheduler.Stop(stopCtx); err != nil {
			logg.Error("Shutdown backup failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
