package booking

import (
	"context"
	"net/url"
	"strconv"

	"hotel-review-scraper/scraper"
	"hotel-review-scraper/utils"
)

const (
	reviewListPath  = "/reviewlist.html"
	defaultPageSize = 25
)

// WaitPolicy decides how long to pause between review pages.
// *utils.Pacer is the production implementation.
type WaitPolicy interface {
	Wait(ctx context.Context) error
}

// Options configures a Scraper.
type Options struct {
	BaseURL  string
	PageSize int
	// Pacer is waited on after every processed review page. Nil disables pacing.
	Pacer WaitPolicy
}

// Scraper fetches hotel metadata and reviews from the booking site.
type Scraper struct {
	fetcher  scraper.Fetcher
	logger   *utils.Logger
	baseURL  string
	pageSize int
	pacer    WaitPolicy
}

// New creates a ready-to-use booking Scraper.
func New(fetcher scraper.Fetcher, logger *utils.Logger, opts Options) *Scraper {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pacer := opts.Pacer
	if pacer == nil {
		pacer = utils.NewPacer(0)
	}
	return &Scraper{
		fetcher:  fetcher,
		logger:   logger,
		baseURL:  opts.BaseURL,
		pageSize: pageSize,
		pacer:    pacer,
	}
}

func (s *Scraper) hotelURL(location, name string) string {
	return s.baseURL + "/hotel/" + url.PathEscape(location) + "/" + url.PathEscape(name) + ".en-gb.html"
}

func (s *Scraper) reviewListURL() string {
	return s.baseURL + reviewListPath
}

// reviewParams returns the query for one review page. Results are sorted
// most recent first and cover every review type.
func (s *Scraper) reviewParams(location, name string, page int) map[string]string {
	return map[string]string{
		"cc1":          location,
		"pagename":     name,
		"type":         "total",
		"sort":         "f_recent_desc",
		"time_of_year": "",
		"dist":         "1",
		"rows":         strconv.Itoa(s.pageSize),
		"offset":       strconv.Itoa((page - 1) * s.pageSize),
	}
}
