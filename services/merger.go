package services

import "hotel-review-scraper/models"

// blankPlaceholder replaces blank values so exported cells are never empty
// for fields that were present but had no text.
const blankPlaceholder = " "

// Placeholder returns s, or a single space when s is empty.
func Placeholder(s string) string {
	if s == "" {
		return blankPlaceholder
	}
	return s
}

// NormaliseMetadata rewrites blank fields of m to the placeholder.
func NormaliseMetadata(m models.MetadataRecord) models.MetadataRecord {
	out := m
	out.HotelName = Placeholder(m.HotelName)
	out.OverallScore = Placeholder(m.OverallScore)
	out.TotalReviewCount = Placeholder(m.TotalReviewCount)
	out.OverallRateText = Placeholder(m.OverallRateText)
	out.CategoryRatings = make(map[models.Category]string, len(m.CategoryRatings))
	for c, v := range m.CategoryRatings {
		out.CategoryRatings[c] = Placeholder(v)
	}
	return out
}

// NormaliseReview rewrites blank fields of r to the placeholder.
func NormaliseReview(r models.ReviewRecord) models.ReviewRecord {
	return models.ReviewRecord{
		HotelName:   Placeholder(r.HotelName),
		ReviewID:    Placeholder(r.ReviewID),
		Score:       Placeholder(r.Score),
		Title:       Placeholder(r.Title),
		Date:        Placeholder(r.Date),
		UserName:    Placeholder(r.UserName),
		UserCountry: Placeholder(r.UserCountry),
		RoomType:    Placeholder(r.RoomType),
		StayDate:    Placeholder(r.StayDate),
		TravelType:  Placeholder(r.TravelType),
		StayNights:  Placeholder(r.StayNights),
		Text:        Placeholder(r.Text),
		Language:    Placeholder(r.Language),
	}
}

// Merge attaches metadata to every review of the same hotel. Reviews whose
// hotel does not match metadata keep blank metadata fields. Metadata whose
// fields are all blank still yields one row per review, carrying placeholders.
// A nil metadata record or no reviews produces no rows.
func Merge(metadata *models.MetadataRecord, reviews []models.ReviewRecord) []models.MergedRecord {
	if metadata == nil || len(reviews) == 0 {
		return nil
	}

	meta := NormaliseMetadata(*metadata)
	merged := make([]models.MergedRecord, 0, len(reviews))
	for _, r := range reviews {
		row := models.MergedRecord{ReviewRecord: NormaliseReview(r)}
		if r.HotelName == metadata.HotelName {
			row.OverallScore = meta.OverallScore
			row.TotalReviewCount = meta.TotalReviewCount
			row.OverallRateText = meta.OverallRateText
			row.CategoryRatings = copyRatings(meta.CategoryRatings)
		}
		merged = append(merged, row)
	}
	return merged
}

func copyRatings(in map[models.Category]string) map[models.Category]string {
	out := make(map[models.Category]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
