package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"hotel-review-scraper/models"
)

// CSVWriter writes the consolidated dataset to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// Write writes the header row followed by every dataset row.
func (c *CSVWriter) Write(ds *models.Dataset) error {
	if err := c.writer.Write(ds.Header()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i := 0; i < ds.Len(); i++ {
		if err := c.writer.Write(ds.Row(i)); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
