package booking

import (
	"context"

	"hotel-review-scraper/models"
	"hotel-review-scraper/scraper"
)

// ReviewPager walks the review list of one hotel page by page. It stops at
// the first page that contains no review blocks; there is no page cap.
type ReviewPager struct {
	s      *Scraper
	entity models.EntityRef
	page   int
	done   bool
}

// Reviews returns a pager positioned at the first page of entity's reviews.
func (s *Scraper) Reviews(entity models.EntityRef) *ReviewPager {
	return &ReviewPager{s: s, entity: entity, page: 1}
}

// Page returns the number of the page the next call to Next will request.
func (p *ReviewPager) Page() int {
	return p.page
}

// Reset rewinds the pager to the first page.
func (p *ReviewPager) Reset() {
	p.page = 1
	p.done = false
}

// Next fetches the next page. It returns ok=false once a page without
// reviews has been seen. After a non-empty page it waits on the scraper's
// pacer before returning.
func (p *ReviewPager) Next(ctx context.Context) (reviews []models.ReviewRecord, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}

	s := p.s
	res, err := s.fetcher.Get(ctx, s.reviewListURL(), s.reviewParams(p.entity.Location, p.entity.Name, p.page))
	if err != nil {
		return nil, false, err
	}
	doc, err := scraper.ParseDocument(res.Body)
	if err != nil {
		return nil, false, err
	}

	blocks := doc.Find(reviewBlockSelector)
	if blocks.Length() == 0 {
		p.done = true
		return nil, false, nil
	}

	reviews = make([]models.ReviewRecord, 0, blocks.Length())
	for i := range blocks.Nodes {
		f := scraper.Extract(blocks.Eq(i), reviewRules)
		reviews = append(reviews, models.ReviewRecord{
			HotelName:   p.entity.Name,
			ReviewID:    f[fieldReviewID],
			Score:       f[fieldScore],
			Title:       f[fieldTitle],
			Date:        f[fieldDate],
			UserName:    f[fieldUserName],
			UserCountry: f[fieldUserCountry],
			RoomType:    f[fieldRoomType],
			StayDate:    f[fieldStayDate],
			TravelType:  f[fieldTravelType],
			StayNights:  f[fieldStayNights],
			Text:        f[fieldText],
			Language:    f[fieldLanguage],
		})
	}

	s.logger.Info("[booking] %s: page %d processed, %d reviews", p.entity.Name, p.page, len(reviews))
	p.page++

	if err := s.pacer.Wait(ctx); err != nil {
		return nil, false, err
	}
	return reviews, true, nil
}

// FetchAllReviews drains the pager for entity. Any fetch or parse error
// aborts the whole walk and no reviews are returned.
func (s *Scraper) FetchAllReviews(ctx context.Context, entity models.EntityRef) ([]models.ReviewRecord, error) {
	s.logger.Info("[booking] Fetching reviews for %s", entity)

	pager := s.Reviews(entity)
	var all []models.ReviewRecord
	for {
		page, ok, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, page...)
	}

	s.logger.Info("[booking] %s: %d reviews across %d pages", entity.Name, len(all), pager.Page()-1)
	return all, nil
}
