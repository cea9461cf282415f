package booking

import (
	"context"

	"hotel-review-scraper/models"
	"hotel-review-scraper/scraper"
)

// FetchMetadata scrapes the hotel page of entity. It fails only when the page
// cannot be fetched or parsed; a page without any of the expected fields
// yields a record for which IsEmpty reports true.
func (s *Scraper) FetchMetadata(ctx context.Context, entity models.EntityRef) (*models.MetadataRecord, error) {
	target := s.hotelURL(entity.Location, entity.Name)
	s.logger.Info("[booking] Fetching metadata for %s from %s", entity, target)

	page, err := s.fetcher.Get(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	doc, err := scraper.ParseDocument(page.Body)
	if err != nil {
		return nil, err
	}

	fields := scraper.Extract(doc.Selection, metadataRules)

	record := &models.MetadataRecord{
		HotelName:        entity.Name,
		OverallScore:     fields[fieldOverallScore],
		TotalReviewCount: fields[fieldTotalReviewCount],
		OverallRateText:  fields[fieldOverallRateText],
		CategoryRatings:  make(map[models.Category]string),
	}
	for _, c := range models.Categories {
		if v := fields[c.Column()]; v != "" {
			record.CategoryRatings[c] = v
		}
	}

	s.logger.Info("[booking] %s: overall score %q, %q, %q, %d/%d category ratings",
		entity.Name, record.OverallScore, record.TotalReviewCount, record.OverallRateText,
		len(record.CategoryRatings), len(models.Categories))
	return record, nil
}
