package services

import (
	"context"
	"fmt"

	"hotel-review-scraper/models"
	"hotel-review-scraper/storage"
	"hotel-review-scraper/utils"
)

// HotelSource fetches the raw data of one hotel.
type HotelSource interface {
	FetchMetadata(ctx context.Context, entity models.EntityRef) (*models.MetadataRecord, error)
	FetchAllReviews(ctx context.Context, entity models.EntityRef) ([]models.ReviewRecord, error)
}

// Stage names the step an entity failed at.
type Stage string

const (
	StageMetadata Stage = "metadata"
	StageReviews  Stage = "reviews"
	StageSnapshot Stage = "snapshot"
)

// EntityResult is the outcome of processing one hotel.
type EntityResult struct {
	Entity      models.EntityRef
	SnapshotKey string
	Rows        int
	FailedStage Stage
	Err         error
}

// Failed reports whether the hotel contributed no rows because of an error.
func (r EntityResult) Failed() bool {
	return r.Err != nil
}

// Pipeline processes hotels one at a time: metadata, then reviews, then
// merge, then snapshot.
type Pipeline struct {
	source HotelSource
	store  storage.SnapshotWriter
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(source HotelSource, store storage.SnapshotWriter, retry *utils.RetryConfig, logger *utils.Logger) *Pipeline {
	return &Pipeline{source: source, store: store, retry: retry, logger: logger}
}

// Run processes entities in order. A failing hotel is logged and skipped;
// only context cancellation stops the run early. The returned snapshot keys
// are in input order and cover every hotel whose snapshot was written.
func (p *Pipeline) Run(ctx context.Context, entities []models.EntityRef) ([]EntityResult, []string, error) {
	results := make([]EntityResult, 0, len(entities))
	keys := make([]string, 0, len(entities))

	for i, e := range entities {
		if err := ctx.Err(); err != nil {
			return results, keys, err
		}
		p.logger.Info("[pipeline] (%d/%d) Processing %s", i+1, len(entities), e)

		res := p.processEntity(ctx, e)
		if ctx.Err() != nil {
			return results, keys, ctx.Err()
		}
		results = append(results, res)
		if res.SnapshotKey != "" {
			keys = append(keys, res.SnapshotKey)
		}
	}
	return results, keys, nil
}

func (p *Pipeline) processEntity(ctx context.Context, e models.EntityRef) EntityResult {
	res := EntityResult{Entity: e}

	rows, stage, err := p.Harvest(ctx, e)
	if err != nil {
		p.logger.Error("[pipeline] Error scraping %s for %s: %v", stage, e, err)
		res.FailedStage, res.Err = stage, err
	}

	key, err := p.store.Save(e, rows)
	if err != nil {
		p.logger.Error("[pipeline] Error saving snapshot for %s: %v", e, err)
		if res.Err == nil {
			res.FailedStage, res.Err = StageSnapshot, err
		}
		return res
	}

	res.SnapshotKey = key
	res.Rows = len(rows)
	p.logger.Info("[pipeline] Snapshot %s saved (%d rows)", key, len(rows))
	return res
}

// Harvest fetches and merges one hotel with retries around each fetch.
// When a fetch exhausts its retries the stage is returned with the error
// and no rows.
func (p *Pipeline) Harvest(ctx context.Context, e models.EntityRef) ([]models.MergedRecord, Stage, error) {
	metadata, err := utils.Retry(ctx, p.retry, fmt.Sprintf("hotel info for %s", e),
		func(ctx context.Context) (*models.MetadataRecord, error) {
			return p.source.FetchMetadata(ctx, e)
		},
		(*models.MetadataRecord).IsEmpty,
	)
	if err != nil {
		return nil, StageMetadata, err
	}

	reviews, err := utils.Retry(ctx, p.retry, fmt.Sprintf("reviews for %s", e),
		func(ctx context.Context) ([]models.ReviewRecord, error) {
			return p.source.FetchAllReviews(ctx, e)
		},
		func(r []models.ReviewRecord) bool { return len(r) == 0 },
	)
	if err != nil {
		return nil, StageReviews, err
	}

	return Merge(metadata, reviews), "", nil
}
