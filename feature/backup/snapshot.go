package backup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-manager/feature/catalog/models"
)

// SnapshotVersion is the document format version written by Export.
const SnapshotVersion = "2.0"

const restoreBatchSize = 200

// Snapshot is a full-catalog export: every row of every catalog table,
// wrapped with metadata describing when and by what it was taken.
type Snapshot struct {
	BackupDate string                      `json:"backup_date"`
	Version    string                      `json:"version"`
	Source     string                      `json:"source"`
	AppInfo    AppInfo                     `json:"app_info"`
	Tables     map[string][]map[string]any `json:"tables"`
}

// AppInfo identifies the producer of a snapshot.
type AppInfo struct {
	Name       string `json:"name"`
	BackupType string `json:"backup_type"`
}

// RowCount returns the total number of rows across all tables.
func (s *Snapshot) RowCount() int {
	total := 0
	for _, rows := range s.Tables {
		total += len(rows)
	}
	return total
}

// Engine exports and restores full-catalog snapshots.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEngine creates a snapshot engine on the given database.
func NewEngine(db *gorm.DB, logger *zap.Logger) *Engine {
	return &Engine{db: db, logger: logger}
}

// Export reads every catalog table into a Snapshot document. A table that
// fails to read is logged and left out; the export itself only fails when
// no table could be read at all.
func (e *Engine) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		BackupDate: time.Now().UTC().Format(time.RFC3339),
		Version:    SnapshotVersion,
		Source:     "stock-manager",
		AppInfo: AppInfo{
			Name:       "stock-manager",
			BackupType: "full",
		},
		Tables: make(map[string][]map[string]any, len(models.SnapshotTables)),
	}

	exported := 0
	for _, table := range models.SnapshotTables {
		var rows []map[string]any
		if err := e.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
			e.logger.Warn("Table export failed, skipping",
				zap.String("table", table),
				zap.Error(err),
			)
			continue
		}
		for _, row := range rows {
			for key, val := range row {
				// MySQL text columns scan as []byte; keep JSON readable.
				if b, ok := val.([]byte); ok {
					row[key] = string(b)
				}
			}
		}
		snap.Tables[table] = rows
		exported++
	}

	if exported == 0 {
		return nil, fmt.Errorf("snapshot export: no table could be read")
	}
	return snap, nil
}

// Restore replaces the contents of every table present in the snapshot.
// Each table is restored in its own transaction: its current rows are
// deleted, then the snapshot rows are inserted. A table that fails is
// rolled back, logged and skipped; the remaining tables still restore.
// Restore reports whether at least one table was restored.
func (e *Engine) Restore(ctx context.Context, snap *Snapshot) bool {
	restored := 0
	for _, table := range models.SnapshotTables {
		rows, ok := snap.Tables[table]
		if !ok {
			continue
		}
		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
			for start := 0; start < len(rows); start += restoreBatchSize {
				end := start + restoreBatchSize
				if end > len(rows) {
					end = len(rows)
				}
				batch := rows[start:end]
				if err := tx.Table(table).
					Clauses(clause.OnConflict{UpdateAll: true}).
					Create(batch).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			e.logger.Warn("Table restore failed, skipping",
				zap.String("table", table),
				zap.Error(err),
			)
			continue
		}
		restored++
		e.logger.Debug("Table restored",
			zap.String("table", table),
			zap.Int("rows", len(rows)),
		)
	}

	if restored == 0 {
		return false
	}
	e.logger.Info("Snapshot restored",
		zap.Int("tables", restored),
		zap.String("backup_date", snap.BackupDate),
	)
	return true
}
