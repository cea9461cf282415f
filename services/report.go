package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"hotel-review-scraper/models"
	"hotel-review-scraper/utils"
)

const statusOK = "ok"

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds the run summary from per-hotel results and the final dataset.
func (s *ReportService) Generate(runID string, results []EntityResult, ds *models.Dataset) *models.RunReport {
	report := &models.RunReport{RunID: runID, Attempted: len(results)}

	overall := make(map[string]string)
	if ds != nil {
		report.TotalRows = ds.Len()
		for _, r := range ds.Rows {
			if _, ok := overall[r.HotelName]; !ok {
				overall[r.HotelName] = strings.TrimSpace(r.OverallScore)
			}
		}
	}

	var sum float64
	var scored int
	for _, res := range results {
		h := models.HotelSummary{
			Name:     res.Entity.Name,
			Location: res.Entity.Location,
			Rows:     res.Rows,
			Status:   statusOK,
		}
		if res.Failed() {
			report.Failed++
			h.Status = "failed: " + string(res.FailedStage)
		} else {
			report.Succeeded++
			h.OverallScore = overall[res.Entity.Name]
			if v, err := strconv.ParseFloat(h.OverallScore, 64); err == nil {
				sum += v
				scored++
			}
		}
		report.Hotels = append(report.Hotels, h)
	}

	if scored > 0 {
		report.AverageOverall = round2(sum / float64(scored))
	}

	s.logger.Info("[report] %d hotels attempted, %d succeeded, %d failed, %d rows",
		report.Attempted, report.Succeeded, report.Failed, report.TotalRows)
	return report
}

// Print renders the report as a table.
func (s *ReportService) Print(w io.Writer, r *models.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Hotel review scrape " + r.RunID)
	t.AppendHeader(table.Row{"#", "Hotel", "Location", "Status", "Reviews", "Overall"})
	for i, h := range r.Hotels {
		t.AppendRow(table.Row{i + 1, h.Name, h.Location, h.Status, h.Rows, h.OverallScore})
	}

	avg := "-"
	if r.AverageOverall > 0 {
		avg = fmt.Sprintf("%.2f", r.AverageOverall)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d ok", r.Succeeded, r.Attempted), "", "", r.TotalRows, avg})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
