package storage

import "hotel-review-scraper/models"

// DatasetWriter is the interface any export backend must satisfy.
type DatasetWriter interface {
	Write(ds *models.Dataset) error
	Close() error
}

// SnapshotWriter persists one hotel's merged rows.
type SnapshotWriter interface {
	Save(entity models.EntityRef, rows []models.MergedRecord) (string, error)
}
