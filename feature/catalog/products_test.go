package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct_RejectsDuplicateIdentity(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `base_products`").
		WithArgs("Z-1", 3, "L", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_code"}).AddRow(12, "Z-1"))

	_, err := svc.AddProduct(context.Background(), NewProduct{
		ProductCode:    "Z-1",
		BrandID:        3,
		TraderCategory: "L",
	})
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestAddProduct_CreatesVariantsAndTags(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `base_products`").
		WithArgs("Z-1", 3, "L", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `base_products`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO `product_variants`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `product_variants`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO `product_tags`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	product, err := svc.AddProduct(context.Background(), NewProduct{
		ProductCode:    "Z-1",
		BrandID:        3,
		TraderCategory: "L",
		WholesalePrice: decimal.RequireFromString("10.00"),
		RetailPrice:    decimal.RequireFromString("25.00"),
		ColorIDs:       []uint{1, 2},
		TagIDs:         []uint{4},
		InitialStock:   6,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(5), product.ID)
	assert.Equal(t, uint(1), product.SupplierID) // defaulted
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_RemovesDependentsFirst(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `product_tags`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `product_variants`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `base_products`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.DeleteProduct(context.Background(), 12)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateStock_ContinuesPastMissingVariant(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `product_variants`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `product_variants`").
		WillReturnResult(sqlmock.NewResult(0, 0)) // unknown variant
	mock.ExpectExec("UPDATE `product_variants`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.BulkUpdateStock(context.Background(), []StockUpdate{
		{VariantID: 1, NewStock: 5},
		{VariantID: 999, NewStock: 2},
		{VariantID: 3, NewStock: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.UpdatedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, uint(999), result.Failures[0].VariantID)
}

func TestDefaultInventoryFilter_InStockOnly(t *testing.T) {
	assert.True(t, DefaultInventoryFilter().InStockOnly)
}
