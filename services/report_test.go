package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-review-scraper/models"
	"hotel-review-scraper/utils"
)

func sampleResults() ([]EntityResult, *models.Dataset) {
	results := []EntityResult{
		{Entity: models.EntityRef{Name: "Grand Hotel", Location: "us"}, SnapshotKey: "grand-hotel.us", Rows: 2},
		{Entity: models.EntityRef{Name: "Bad Hotel", Location: "zz"}, SnapshotKey: "bad-hotel.zz",
			FailedStage: StageMetadata, Err: utils.ErrExhausted},
		{Entity: models.EntityRef{Name: "Seaside Inn", Location: "gb"}, SnapshotKey: "seaside-inn.gb", Rows: 1},
	}
	ds := &models.Dataset{Rows: []models.MergedRecord{
		{ReviewRecord: models.ReviewRecord{HotelName: "Grand Hotel"}, OverallScore: "8.5"},
		{ReviewRecord: models.ReviewRecord{HotelName: "Grand Hotel"}, OverallScore: "8.5"},
		{ReviewRecord: models.ReviewRecord{HotelName: "Seaside Inn"}, OverallScore: "7.0"},
	}}
	return results, ds
}

func TestReportCounts(t *testing.T) {
	results, ds := sampleResults()
	r := NewReportService(utils.NewNopLogger()).Generate("run-1", results, ds)

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, 3, r.Attempted)
	assert.Equal(t, 2, r.Succeeded)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 3, r.TotalRows)
	assert.Equal(t, 7.75, r.AverageOverall)
	assert.Equal(t, "failed: metadata", r.Hotels[1].Status)
	assert.Equal(t, "8.5", r.Hotels[0].OverallScore)
}

func TestReportIgnoresPlaceholderScores(t *testing.T) {
	results := []EntityResult{{Entity: models.EntityRef{Name: "A", Location: "us"}, Rows: 1}}
	ds := &models.Dataset{Rows: []models.MergedRecord{
		{ReviewRecord: models.ReviewRecord{HotelName: "A"}, OverallScore: " "},
	}}

	r := NewReportService(utils.NewNopLogger()).Generate("run-2", results, ds)

	assert.Equal(t, 0.0, r.AverageOverall)
	assert.Equal(t, "", r.Hotels[0].OverallScore)
}

func TestReportEmptyRun(t *testing.T) {
	r := NewReportService(utils.NewNopLogger()).Generate("run-3", nil, nil)
	assert.Equal(t, 0, r.Attempted)
	assert.Equal(t, 0, r.TotalRows)
}

func TestReportPrint(t *testing.T) {
	results, ds := sampleResults()
	svc := NewReportService(utils.NewNopLogger())
	r := svc.Generate("run-1", results, ds)

	var buf bytes.Buffer
	svc.Print(&buf, r)

	out := buf.String()
	assert.Contains(t, out, "Grand Hotel")
	assert.Contains(t, out, "failed: metadata")
	assert.Contains(t, strings.ToLower(out), "2/3 ok")
	assert.Contains(t, out, "7.75")
}

func TestEntityResultFailed(t *testing.T) {
	assert.False(t, EntityResult{}.Failed())
	assert.True(t, EntityResult{Err: errors.New("x")}.Failed())
}
