package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"hotel-review-scraper/models"
)

const sheetName = "reviews"

// XLSXWriter writes the consolidated dataset to a single-sheet workbook.
type XLSXWriter struct {
	path string
	book *excelize.File
}

// NewXLSXWriter prepares a workbook that is saved to path on Write.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}

	book := excelize.NewFile()
	if err := book.SetSheetName(book.GetSheetName(0), sheetName); err != nil {
		book.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	return &XLSXWriter{path: path, book: book}, nil
}

// Write streams the header and rows into the sheet and saves the workbook.
func (x *XLSXWriter) Write(ds *models.Dataset) error {
	sw, err := x.book.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(ds.Header())); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}
	for i := 0; i < ds.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := sw.SetRow(cell, toCells(ds.Row(i))); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}

	if err := x.book.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// Close releases the workbook.
func (x *XLSXWriter) Close() error {
	return x.book.Close()
}
