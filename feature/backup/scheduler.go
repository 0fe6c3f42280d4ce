package backup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stock-manager/feature/catalog/models"
)

// Scheduler runs periodic backups and takes one final backup on shutdown.
type Scheduler struct {
	backend  Backend
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a scheduler with the configured cadence.
func NewScheduler(cfg Config, backend Backend, logger *zap.Logger) *Scheduler {
	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{backend: backend, logger: logger, interval: interval}
}

// Start launches the periodic backup loop. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.stopCh, s.doneCh)
	s.logger.Info("Backup scheduler started", zap.Duration("interval", s.interval))
}

func (s *Scheduler) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if _, err := s.backend.CreateBackup(context.Background()); err != nil {
				s.logger.Error("Scheduled backup failed", zap.Error(err))
			}
		}
	}
}

// Stop halts the periodic loop and takes a final backup bounded by ctx. It
// returns the final backup's error, if any; a scheduler that was never
// started stops cleanly without taking one.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	select {
	case <-doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("Taking final backup before shutdown")
	if _, err := s.backend.CreateBackup(ctx); err != nil {
		return fmt.Errorf("final backup: %w", err)
	}
	return nil
}

// RestoreOnStartup restores the newest snapshot when the catalog is empty.
// A populated catalog is left untouched. When no snapshot can be restored
// the seed fallback runs instead, so a fresh install still comes up with a
// usable reference set.
func RestoreOnStartup(ctx context.Context, db *gorm.DB, backend Backend, seed func(context.Context) error, logger *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.BaseProduct{}).Count(&count).Error; err != nil {
		return fmt.Errorf("startup restore: count products: %w", err)
	}
	if count > 0 {
		logger.Debug("Catalog already populated, skipping startup restore",
			zap.Int64("products", count))
		return nil
	}

	if err := backend.RestoreBackup(ctx, ""); err != nil {
		logger.Warn("Startup restore failed, seeding defaults instead", zap.Error(err))
		if seedErr := seed(ctx); seedErr != nil {
			return fmt.Errorf("startup seed: %w", seedErr)
		}
	}
	return nil
}
