package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"stock-manager/core/storage"
)

const objectTimestampLayout = "20060102_150405"

// errNoSnapshots means a restore was requested but the bucket holds none.
var errNoSnapshots = errors.New("no snapshots found")

// ObjectBackend stores snapshots as JSON objects in a bucket. It serves both
// provider modes; the credential source is baked into the storage client it
// is constructed with.
type ObjectBackend struct {
	cfg    Config
	client storage.Client
	engine *Engine
	logger *zap.Logger
}

// NewObjectBackend creates a backend on an already-configured storage client.
func NewObjectBackend(cfg Config, client storage.Client, engine *Engine, logger *zap.Logger) *ObjectBackend {
	return &ObjectBackend{cfg: cfg, client: client, engine: engine, logger: logger}
}

func (b *ObjectBackend) ensureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", b.cfg.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", b.cfg.Bucket, err)
	}
	return nil
}

// CreateBackup exports the catalog, uploads it under a timestamped name and
// prunes snapshots beyond the retention cap.
func (b *ObjectBackend) CreateBackup(ctx context.Context) (*BackupInfo, error) {
	snap, err := b.engine.Export(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := b.ensureBucket(ctx); err != nil {
		return nil, err
	}

	name := b.cfg.Prefix + time.Now().UTC().Format(objectTimestampLayout) + ".json"
	_, err = b.client.PutObject(ctx, b.cfg.Bucket, name,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("upload snapshot %q: %w", name, err)
	}
	b.logger.Info("Backup created",
		zap.String("object", name),
		zap.Int("rows", snap.RowCount()),
		zap.Int("bytes", len(payload)),
	)

	if err := b.pruneOld(ctx); err != nil {
		// Retention failure does not invalidate the backup just taken.
		b.logger.Warn("Backup retention cleanup failed", zap.Error(err))
	}

	return &BackupInfo{Name: name, Size: int64(len(payload)), Modified: time.Now().UTC()}, nil
}

// ListBackups returns stored snapshots sorted newest first. The timestamped
// naming scheme makes lexical order chronological.
func (b *ObjectBackend) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	var infos []BackupInfo
	objects := b.client.ListObjects(ctx, b.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    b.cfg.Prefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list snapshots: %w", obj.Err)
		}
		infos = append(infos, BackupInfo{
			Name:     obj.Key,
			Size:     obj.Size,
			Modified: obj.LastModified,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name > infos[j].Name })
	return infos, nil
}

// RestoreBackup downloads and restores the named snapshot; an empty name
// selects the most recent one.
func (b *ObjectBackend) RestoreBackup(ctx context.Context, name string) error {
	if name == "" {
		infos, err := b.ListBackups(ctx)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			return fmt.Errorf("restore: %w in bucket %q", errNoSnapshots, b.cfg.Bucket)
		}
		name = infos[0].Name
	}

	reader, err := b.client.GetObject(ctx, b.cfg.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("download snapshot %q: %w", name, err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read snapshot %q: %w", name, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("decode snapshot %q: %w", name, err)
	}

	if !b.engine.Restore(ctx, &snap) {
		return fmt.Errorf("restore snapshot %q: no table could be restored", name)
	}
	b.logger.Info("Backup restored", zap.String("object", name))
	return nil
}

// pruneOld deletes the oldest snapshots beyond MaxBackups.
func (b *ObjectBackend) pruneOld(ctx context.Context) error {
	if b.cfg.MaxBackups <= 0 {
		return nil
	}
	infos, err := b.ListBackups(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos[min(len(infos), b.cfg.MaxBackups):] {
		if err := b.client.RemoveObject(ctx, b.cfg.Bucket, info.Name, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove old snapshot %q: %w", info.Name, err)
		}
		b.logger.Debug("Old backup removed", zap.String("object", info.Name))
	}
	return nil
}
