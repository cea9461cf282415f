package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extractFixture = `<html><body>
<div class="summary">
  <div class="score"> 8.5 </div>
  <div class="count">1,234 reviews</div>
</div>
<div class="review" data-review-url="abc123">
  <div class="body" lang="en-gb">
    <p> Great   stay. </p>
    <p>
      Lovely staff!
    </p>
  </div>
</div>
<div class="bars">
  <div class="bar"><span class="title">Staff</span><span class="value">9.1</span></div>
  <div class="bar"><span class="title">Comfort</span><span class="value fcd9eec8fb">-</span></div>
  <div class="bar"><div><span class="title">Location</span></div><span class="value">9.6</span></div>
  <div class="bar"><span class="value">5.0</span><span class="title">Facilities</span></div>
</div>
</body></html>`

func TestExtractModes(t *testing.T) {
	doc, err := ParseDocument([]byte(extractFixture))
	require.NoError(t, err)

	got := Extract(doc.Selection, []Rule{
		{Field: "score", Selector: ".score", Mode: ModeText},
		{Field: "count", Selector: ".count", Mode: ModeText},
		{Field: "id", Selector: ".review", Mode: ModeAttr("data-review-url")},
		{Field: "text", Selector: ".review .body", Mode: ModeJoinedText},
		{Field: "lang", Selector: ".review .body", Mode: ModeAttr("lang")},
	})

	assert.Equal(t, map[string]string{
		"score": "8.5",
		"count": "1,234 reviews",
		"id":    "abc123",
		"text":  "Great   stay.Lovely staff!",
		"lang":  "en-gb",
	}, got)
}

func TestExtractMissingNodesYieldEmptyStrings(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body><p>nothing here</p></body></html>`))
	require.NoError(t, err)

	got := Extract(doc.Selection, []Rule{
		{Field: "score", Selector: ".score", Mode: ModeText},
		{Field: "id", Selector: ".review", Mode: ModeAttr("data-review-url")},
		{Field: "text", Selector: ".body", Mode: ModeJoinedText},
		{Field: "staff", Selector: ".title", Label: "Staff", Value: ".value", Mode: ModeText},
	})

	assert.Len(t, got, 4)
	for field, v := range got {
		assert.Empty(t, v, field)
	}
}

func TestExtractMissingAttributeIsEmpty(t *testing.T) {
	doc, err := ParseDocument([]byte(extractFixture))
	require.NoError(t, err)

	got := Extract(doc.Selection, []Rule{
		{Field: "x", Selector: ".score", Mode: ModeAttr("data-missing")},
	})

	assert.Equal(t, "", got["x"])
}

func TestExtractRelativeToSelection(t *testing.T) {
	doc, err := ParseDocument([]byte(extractFixture))
	require.NoError(t, err)

	block := doc.Find(".review").First()
	got := Extract(block, []Rule{
		{Field: "id", Mode: ModeAttr("data-review-url")},
		{Field: "score", Selector: ".score", Mode: ModeText},
	})

	assert.Equal(t, "abc123", got["id"])
	assert.Equal(t, "", got["score"], "selectors must not escape the block")
}

func TestExtractLabelledValues(t *testing.T) {
	doc, err := ParseDocument([]byte(extractFixture))
	require.NoError(t, err)

	rule := func(label string) Rule {
		return Rule{Field: label, Selector: ".title", Label: label, Value: ".value", Exclude: "fcd9eec8fb", Mode: ModeText}
	}
	got := Extract(doc.Selection, []Rule{rule("Staff"), rule("Comfort"), rule("Location"), rule("Cleanliness"), rule("Facilities")})

	assert.Equal(t, "9.1", got["Staff"])
	assert.Equal(t, "", got["Comfort"], "placeholder-marked value is treated as missing")
	assert.Equal(t, "", got["Cleanliness"])
	assert.Equal(t, "9.6", got["Location"], "value outside the label's parent is still found")
	assert.Equal(t, "", got["Facilities"], "a value before the label is never used")
}

func TestExtractLabelledValueTakesNextInDocumentOrder(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body>
<div><span class="score">1.0</span><span class="title">Staff</span></div>
<div><span class="title">Comfort</span></div>
<div><span class="score">7.5</span><span class="score">2.0</span></div>
</body></html>`))
	require.NoError(t, err)

	got := Extract(doc.Selection, []Rule{
		{Field: "staff", Selector: ".title", Label: "Staff", Value: ".score", Mode: ModeText},
		{Field: "comfort", Selector: ".title", Label: "Comfort", Value: ".score", Mode: ModeText},
	})

	assert.Equal(t, "7.5", got["staff"])
	assert.Equal(t, "7.5", got["comfort"])
}

func TestParseDocumentToleratesGarbage(t *testing.T) {
	doc, err := ParseDocument([]byte("not really <html"))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find(".review").Length())
}
