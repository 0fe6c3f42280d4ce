package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSheet reads an import file into ordered raw rows, dispatching on the
// file extension (.xlsx or .csv).
func ReadSheet(path string) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()
		return readWorkbook(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported sheet format %q", filepath.Ext(path))
	}
}

// ReadXLSX reads the first sheet of an xlsx stream. The first row is the
// header and names the fields of every following row.
func ReadXLSX(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) ([]RawRow, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return rowsFromCells(rows), nil
}

// ReadCSV reads comma-separated rows with a header line.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine; missing cells default

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return rowsFromCells(records), nil
}

func rowsFromCells(cells [][]string) []RawRow {
	if len(cells) == 0 {
		return nil
	}

	header := make([]string, len(cells[0]))
	for i, name := range cells[0] {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]RawRow, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := make(RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
