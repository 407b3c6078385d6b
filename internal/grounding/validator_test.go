package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteman-notes/minuteman/internal/model"
)

func testTranscript() *model.Transcript {
	return &model.Transcript{
		Segments: []model.Segment{
			{Start: 0, End: 10, Text: "Good morning everyone, let's get started.", Speaker: "Alice"},
			{Start: 10, End: 25, Text: "We decided to ship on Tuesday after the fix lands.", Speaker: "Bob"},
			{Start: 25, End: 40, Text: "Carol will update the release checklist today.", Speaker: "Alice"},
		},
	}
}

func grounded(text string, start, end float64, excerpt string) model.GroundedItem {
	return model.GroundedItem{
		Text:   text,
		Status: model.StatusConfirmed,
		References: []model.TranscriptReference{
			{Start: start, End: end, Excerpt: excerpt},
		},
	}
}

func TestValidateItemsKeepsGroundedItems(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryDecision, []model.GroundedItem{
		grounded("Ship on Tuesday", 10, 25, "decided to ship on Tuesday"),
	})

	require.Len(t, items, 1)
	assert.Equal(t, model.StatusConfirmed, items[0].Status)
	assert.Equal(t, model.CategoryDecision, items[0].Category)
	assert.Empty(t, items[0].Reason)
}

func TestValidateItemsExcerptMatchIgnoresCaseAndWhitespace(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryActionItem, []model.GroundedItem{
		grounded("Update checklist", 25, 40, "  CAROL   will update\tthe release checklist "),
	})

	require.Len(t, items, 1)
	assert.Equal(t, model.StatusConfirmed, items[0].Status)
}

func TestValidateItemsTimestampOutsideDurationGoesUnclear(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryDecision, []model.GroundedItem{
		grounded("Phantom decision", 100, 120, "decided something"),
	})

	require.Len(t, items, 1)
	assert.Equal(t, model.StatusUnclear, items[0].Status)
	assert.Contains(t, items[0].Reason, "outside transcript duration")
}

func TestValidateItemsMissingReferencesGoesUnclearWithAnchor(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryActionItem, []model.GroundedItem{
		{Text: "Someone will do something", Status: model.StatusConfirmed},
	})

	require.Len(t, items, 1)
	assert.Equal(t, model.StatusUnclear, items[0].Status)
	assert.Equal(t, "no transcript references", items[0].Reason)
	require.Len(t, items[0].References, 1)

	// The anchor must be a real transcript span, not a synthesized one.
	anchor := items[0].References[0]
	first := testTranscript().Segments[0]
	assert.Equal(t, first.Start, anchor.Start)
	assert.Equal(t, first.End, anchor.End)
	assert.Equal(t, first.Speaker, anchor.Speaker)
	assert.Equal(t, first.Text, anchor.Excerpt)
	require.NoError(t, items[0].Validate())
}

func TestValidateItemsExcerptNotInSpanGoesUnclear(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryDecision, []model.GroundedItem{
		grounded("Fabricated", 0, 10, "we agreed to cancel the project"),
	})

	require.Len(t, items, 1)
	assert.Equal(t, model.StatusUnclear, items[0].Status)
	assert.Contains(t, items[0].Reason, "excerpt not found")
}

func TestValidateItemsDropsUngroundedMentions(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryMention, []model.GroundedItem{
		grounded("Tuesday", 10, 25, "ship on tuesday"),
		grounded("made up", 100, 200, "nowhere"),
		{Text: "no refs", Status: model.StatusConfirmed},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Tuesday", items[0].Text)
}

func TestValidateItemsReversedTimestampsGoUnclear(t *testing.T) {
	v := NewValidator(testTranscript())

	items := v.ValidateItems(model.CategoryDecision, []model.GroundedItem{
		grounded("Backwards", 25, 10, "decided"),
	})

	require.Len(t, items, 1)
	assert.Equal(t, model.StatusUnclear, items[0].Status)
	assert.Contains(t, items[0].Reason, "ends before it starts")
}

func TestValidateItemsCheckOrderReportsFirstFailure(t *testing.T) {
	v := NewValidator(testTranscript())

	// Both the timestamps and the excerpt are wrong; the timestamp check
	// runs first and names the failure.
	items := v.ValidateItems(model.CategoryDecision, []model.GroundedItem{
		grounded("Doubly wrong", 500, 600, "nothing like this was said"),
	})

	require.Len(t, items, 1)
	assert.Contains(t, items[0].Reason, "outside transcript duration")
}
