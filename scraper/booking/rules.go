package booking

import (
	"hotel-review-scraper/models"
	"hotel-review-scraper/scraper"
)

// Metadata field names.
const (
	fieldOverallScore     = "review_score_overall"
	fieldTotalReviewCount = "total_review_count"
	fieldOverallRateText  = "overall_rate_text"
)

// Review field names.
const (
	fieldReviewID    = "review_id"
	fieldScore       = "review_score"
	fieldTitle       = "review_title"
	fieldDate        = "review_date"
	fieldUserName    = "user_name"
	fieldUserCountry = "user_country"
	fieldRoomType    = "room_type"
	fieldStayDate    = "stay_date"
	fieldTravelType  = "travel_type"
	fieldStayNights  = "stay_nights"
	fieldText        = "review_text"
	fieldLanguage    = "lang"
)

const (
	reviewBlockSelector = ".review_list_new_item_block"
	scoreBarTitle       = "span.c-score-bar__title"
	scoreBarScore       = "span.c-score-bar__score"
	// placeholderClass marks a score bar rendered without a real rating.
	placeholderClass = "fcd9eec8fb"
)

var metadataRules = buildMetadataRules()

func buildMetadataRules() []scraper.Rule {
	rules := []scraper.Rule{
		{Field: fieldOverallScore, Selector: ".d86cee9b25", Mode: scraper.ModeText},
		{Field: fieldTotalReviewCount, Selector: ".d935416c47", Mode: scraper.ModeText},
		{Field: fieldOverallRateText, Selector: ".cb2cbb3ccb", Mode: scraper.ModeText},
	}
	for _, c := range models.Categories {
		rules = append(rules, scraper.Rule{
			Field:    c.Column(),
			Selector: scoreBarTitle,
			Label:    string(c),
			Value:    scoreBarScore,
			Exclude:  placeholderClass,
			Mode:     scraper.ModeText,
		})
	}
	return rules
}

var reviewRules = []scraper.Rule{
	{Field: fieldReviewID, Mode: scraper.ModeAttr("data-review-url")},
	{Field: fieldScore, Selector: ".bui-review-score__badge", Mode: scraper.ModeText},
	{Field: fieldTitle, Selector: ".c-review-block__title", Mode: scraper.ModeText},
	{Field: fieldDate, Selector: ".c-review-block__date", Mode: scraper.ModeText},
	{Field: fieldUserName, Selector: ".bui-avatar-block__title", Mode: scraper.ModeText},
	{Field: fieldUserCountry, Selector: ".bui-avatar-block__subtitle", Mode: scraper.ModeText},
	{Field: fieldRoomType, Selector: ".c-review-block__room-link .bui-list__body", Mode: scraper.ModeText},
	{Field: fieldStayDate, Selector: ".c-review-block__stay-date .c-review-block__date", Mode: scraper.ModeText},
	{Field: fieldTravelType, Selector: ".review-panel-wide__traveller_type .bui-list__body", Mode: scraper.ModeText},
	{Field: fieldStayNights, Selector: ".c-review-block__stay-date .bui-list__body", Mode: scraper.ModeText},
	{Field: fieldText, Selector: ".c-review__body", Mode: scraper.ModeJoinedText},
	{Field: fieldLanguage, Selector: ".c-review__body", Mode: scraper.ModeAttr("lang")},
}
