package ingest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, cells := range rows {
		for c, value := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestHandleImport(t *testing.T) {
	store := newFakeStore()
	coordinator := NewCoordinator(store, nil, zap.NewNop(), Config{})
	app := fiber.New()
	NewHandler(coordinator, zap.NewNop()).RegisterRoutes(app)

	workbook := buildWorkbook(t, [][]string{
		{"Product Code", "Brand Name", "Color Name", "Stock"},
		{"Z-1", "Zara", "Red", "5"},
		{"Z-2", "Zara", "Blue", "3"},
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/admin/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.Success)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Len(t, store.products, 2)
}

func TestHandleImport_MissingFile(t *testing.T) {
	store := newFakeStore()
	coordinator := NewCoordinator(store, nil, zap.NewNop(), Config{})
	app := fiber.New()
	NewHandler(coordinator, zap.NewNop()).RegisterRoutes(app)

	req := httptest.NewRequest("POST", "/admin/import", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleImport_MalformedWorkbook(t *testing.T) {
	store := newFakeStore()
	coordinator := NewCoordinator(store, nil, zap.NewNop(), Config{})
	app := fiber.New()
	NewHandler(coordinator, zap.NewNop()).RegisterRoutes(app)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a workbook"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/admin/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}
