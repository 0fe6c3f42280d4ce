package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
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

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewService(db, zap.NewNop()), mock
}

func TestListBrands_OrderedByName(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `brands` ORDER BY brand_name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "brand_name"}).
			AddRow(2, "Mango").
			AddRow(1, "Zara"))

	brands, err := svc.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Mango", brands[0].BrandName)
}

func TestAddBrand(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `brands`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	brand, err := svc.AddBrand(context.Background(), "Massimo Dutti")
	require.NoError(t, err)
	assert.Equal(t, uint(7), brand.ID)
	assert.Equal(t, "Massimo Dutti", brand.BrandName)
}

func TestUpdateBrand_NotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `brands`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.UpdateBrand(context.Background(), 999, "Renamed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBrand_InUse(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `base_products`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	err := svc.DeleteBrand(context.Background(), 3)
	assert.ErrorIs(t, err, ErrReferenceInUse)
}

func TestDeleteBrand_Unreferenced(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `base_products`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `brands`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.DeleteBrand(context.Background(), 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColor_DefaultsCode(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `colors`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	color, err := svc.AddColor(context.Background(), "Heather Mist", "")
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", color.ColorCode)
}

func TestDeleteColor_InUse(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `product_variants`").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := svc.DeleteColor(context.Background(), 2)
	assert.ErrorIs(t, err, ErrReferenceInUse)
}
