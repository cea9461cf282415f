package services

import (
	"sort"

	"hotel-review-scraper/models"
	"hotel-review-scraper/utils"
)

// SnapshotReader loads stored per-hotel snapshots.
type SnapshotReader interface {
	LoadAll(keys []string) ([][]models.MergedRecord, error)
}

// Consolidate concatenates snapshots in order into one dataset. Rows are not
// deduplicated or re-sorted. The dataset's category columns are the union of
// the categories seen in any row, in the fixed category order.
func Consolidate(snapshots [][]models.MergedRecord) *models.Dataset {
	total := 0
	for _, s := range snapshots {
		total += len(s)
	}

	ds := &models.Dataset{Rows: make([]models.MergedRecord, 0, total)}
	seen := make(map[models.Category]struct{})
	for _, s := range snapshots {
		for _, row := range s {
			for c := range row.CategoryRatings {
				seen[c] = struct{}{}
			}
			ds.Rows = append(ds.Rows, row)
		}
	}

	ds.Categories = categoryUnion(seen)
	return ds
}

func categoryUnion(seen map[models.Category]struct{}) []models.Category {
	var cats []models.Category
	for _, c := range models.Categories {
		if _, ok := seen[c]; ok {
			cats = append(cats, c)
			delete(seen, c)
		}
	}
	var extra []models.Category
	for c := range seen {
		extra = append(extra, c)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(cats, extra...)
}

// Consolidator builds the final dataset from the snapshot store.
type Consolidator struct {
	store  SnapshotReader
	logger *utils.Logger
}

// NewConsolidator creates a Consolidator reading from store.
func NewConsolidator(store SnapshotReader, logger *utils.Logger) *Consolidator {
	return &Consolidator{store: store, logger: logger}
}

// Build loads the snapshots named by keys, in order, and consolidates them.
func (c *Consolidator) Build(keys []string) (*models.Dataset, error) {
	snapshots, err := c.store.LoadAll(keys)
	if err != nil {
		return nil, err
	}

	ds := Consolidate(snapshots)
	c.logger.Info("[consolidator] %d snapshots -> %d rows, %d columns",
		len(snapshots), ds.Len(), len(ds.Header()))
	return ds, nil
}
