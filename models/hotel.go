package models

import "strings"

// EntityRef identifies one hotel to scrape. It is parsed once from the
// input list and never modified afterwards.
type EntityRef struct {
	Name     string
	Location string
}

func (e EntityRef) String() string {
	return e.Name + " (" + e.Location + ")"
}

// Category is one of the fixed per-hotel rating categories.
type Category string

const (
	CategoryStaff         Category = "Staff"
	CategoryFacilities    Category = "Facilities"
	CategoryCleanliness   Category = "Cleanliness"
	CategoryComfort       Category = "Comfort"
	CategoryValueForMoney Category = "Value for money"
	CategoryLocation      Category = "Location"
)

// Categories lists every rating category in export column order.
var Categories = []Category{
	CategoryStaff,
	CategoryFacilities,
	CategoryCleanliness,
	CategoryComfort,
	CategoryValueForMoney,
	CategoryLocation,
}

// Column returns the snake_case column name used in exported datasets,
// e.g. "Value for money" -> "value_for_money".
func (c Category) Column() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "_")
}

// MetadataRecord holds the hotel-level summary scraped from the hotel page.
// Categories whose rating could not be found are absent from CategoryRatings.
type MetadataRecord struct {
	HotelName        string
	OverallScore     string
	TotalReviewCount string
	OverallRateText  string
	CategoryRatings  map[Category]string
}

// IsEmpty reports whether none of the scalar metadata fields resolved.
// A record carrying only the hotel name counts as empty.
func (m *MetadataRecord) IsEmpty() bool {
	if m == nil {
		return true
	}
	return strings.TrimSpace(m.OverallScore) == "" &&
		strings.TrimSpace(m.TotalReviewCount) == "" &&
		strings.TrimSpace(m.OverallRateText) == ""
}

// ReviewRecord is a single guest review as scraped from the review list.
type ReviewRecord struct {
	HotelName   string
	ReviewID    string
	Score       string
	Title       string
	Date        string
	UserName    string
	UserCountry string
	RoomType    string
	StayDate    string
	TravelType  string
	StayNights  string
	Text        string
	Language    string
}

// MergedRecord is a review with its hotel's metadata attached.
type MergedRecord struct {
	ReviewRecord

	OverallScore     string
	TotalReviewCount string
	OverallRateText  string
	CategoryRatings  map[Category]string
}

// Dataset is the consolidated output of a run: every hotel's merged rows in
// input order, plus the category columns present in at least one row.
type Dataset struct {
	Categories []Category
	Rows       []MergedRecord
}

// BaseColumns are the dataset columns that are always present, in order.
var BaseColumns = []string{
	"hotel_name",
	"review_id",
	"review_score",
	"review_title",
	"review_date",
	"user_name",
	"user_country",
	"room_type",
	"stay_date",
	"travel_type",
	"stay_nights",
	"review_text",
	"lang",
	"review_score_overall",
	"total_review_count",
	"overall_rate_text",
}

// Header returns the full column list of the dataset.
func (d *Dataset) Header() []string {
	header := make([]string, 0, len(BaseColumns)+len(d.Categories))
	header = append(header, BaseColumns...)
	for _, c := range d.Categories {
		header = append(header, c.Column())
	}
	return header
}

// Row flattens the i-th record in Header order. Categories missing from the
// record are rendered as blank cells.
func (d *Dataset) Row(i int) []string {
	r := d.Rows[i]
	row := []string{
		r.HotelName,
		r.ReviewID,
		r.Score,
		r.Title,
		r.Date,
		r.UserName,
		r.UserCountry,
		r.RoomType,
		r.StayDate,
		r.TravelType,
		r.StayNights,
		r.Text,
		r.Language,
		r.OverallScore,
		r.TotalReviewCount,
		r.OverallRateText,
	}
	for _, c := range d.Categories {
		row = append(row, r.CategoryRatings[c])
	}
	return row
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HotelSummary is one hotel's line in a RunReport.
type HotelSummary struct {
	Name         string
	Location     string
	Status       string
	Rows         int
	OverallScore string
}

// RunReport summarises one pipeline run.
type RunReport struct {
	RunID          string
	Hotels         []HotelSummary
	Attempted      int
	Succeeded      int
	Failed         int
	TotalRows      int
	AverageOverall float64
}
