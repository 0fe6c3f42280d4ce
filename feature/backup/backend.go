package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"stock-manager/core/storage"
)

// BackupInfo describes one stored snapshot object.
type BackupInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Backend stores and retrieves catalog snapshots. The two provider modes
// ("static" and "oauth") expose the same capability set and differ only in
// how storage credentials are obtained; callers never branch on the mode.
type Backend interface {
	// CreateBackup exports the catalog and uploads it as a new snapshot
	// object, then enforces the retention cap.
	CreateBackup(ctx context.Context) (*BackupInfo, error)
	// ListBackups returns stored snapshots, newest first.
	ListBackups(ctx context.Context) ([]BackupInfo, error)
	// RestoreBackup downloads the named snapshot and restores it. An empty
	// name restores the most recent snapshot.
	RestoreBackup(ctx context.Context, name string) error
}

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(cfg Config, storageCfg storage.Config, engine *Engine, logger *zap.Logger) (Backend, error) {
	switch cfg.Provider {
	case "static":
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, fmt.Errorf("backup backend: %w", err)
		}
		return NewObjectBackend(cfg, client, engine, logger), nil
	case "oauth":
		if cfg.TokenURL == "" || cfg.RefreshToken == "" {
			return nil, fmt.Errorf("backup backend: oauth provider requires token_url and refresh_token")
		}
		creds := credentials.New(NewRefreshTokenProvider(cfg))
		client, err := storage.NewClientWithCredentials(storageCfg, creds)
		if err != nil {
			return nil, fmt.Errorf("backup backend: %w", err)
		}
		return NewObjectBackend(cfg, client, engine, logger), nil
	default:
		return nil, fmt.Errorf("backup backend: unknown provider %q", cfg.Provider)
	}
}
