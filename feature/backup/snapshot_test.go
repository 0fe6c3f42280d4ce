package backup

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"stock-manager/feature/catalog/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestExport_ReadsEveryTable(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	for i, table := range models.SnapshotTables {
		mock.ExpectQuery("SELECT \\* FROM `" + table + "`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i + 1))
	}

	snap, err := engine.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, "stock-manager", snap.Source)
	assert.Len(t, snap.Tables, len(models.SnapshotTables))
	assert.Equal(t, len(models.SnapshotTables), snap.RowCount())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_SkipsFailingTable(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	for i, table := range models.SnapshotTables {
		query := mock.ExpectQuery("SELECT \\* FROM `" + table + "`")
		if i == 0 {
			query.WillReturnError(assert.AnError)
		} else {
			query.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i + 1))
		}
	}

	snap, err := engine.Export(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Tables, len(models.SnapshotTables)-1)
	_, hasFirst := snap.Tables[models.SnapshotTables[0]]
	assert.False(t, hasFirst)
}

func TestExport_ByteColumnsBecomeStrings(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	for i, table := range models.SnapshotTables {
		if table == "brands" {
			mock.ExpectQuery("SELECT \\* FROM `brands`").
				WillReturnRows(sqlmock.NewRows([]string{"id", "brand_name"}).
					AddRow(1, []byte("Zara")))
			continue
		}
		mock.ExpectQuery("SELECT \\* FROM `" + table + "`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i + 1))
	}

	snap, err := engine.Export(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tables["brands"], 1)
	assert.Equal(t, "Zara", snap.Tables["brands"][0]["brand_name"])
}

func TestRestore_ReplacesTableContents(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	snap := &Snapshot{
		Version: SnapshotVersion,
		Tables: map[string][]map[string]any{
			"brands": {
				{"id": float64(1), "brand_name": "Zara"},
				{"id": float64(2), "brand_name": "Mango"},
			},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM brands").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `brands`").
		WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	ok := engine.Restore(context.Background(), snap)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestore_SkipsFailingTableAndContinues(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	snap := &Snapshot{
		Tables: map[string][]map[string]any{
			"brands": {{"id": float64(1), "brand_name": "Zara"}},
			"colors": {{"id": float64(1), "color_name": "Red"}},
		},
	}

	// brands fails and rolls back; colors still restores.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM brands").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM colors").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `colors`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ok := engine.Restore(context.Background(), snap)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestore_NothingRestored(t *testing.T) {
	db, _ := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	ok := engine.Restore(context.Background(), &Snapshot{Tables: map[string][]map[string]any{}})
	assert.False(t, ok)
}

func TestSnapshotRowCount(t *testing.T) {
	snap := &Snapshot{Tables: map[string][]map[string]any{
		"brands": {{}, {}},
		"colors": {{}},
	}}
	assert.Equal(t, 3, snap.RowCount())
}
