// Package notes turns a classified transcript into grounded meeting
// notes: decisions, action items, and mentions, every one backed by
// transcript references.
package notes

import (
	"context"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Extraction is the raw output of one extractor pass, before grounding
// validation.
type Extraction struct {
	Decisions []model.GroundedItem
	Actions   []model.GroundedItem
	Mentions  []model.GroundedItem
	// Engine names the extractor that produced this pass.
	Engine string
}

// Extractor pulls candidate claims out of a transcript.
type Extractor interface {
	Extract(ctx context.Context, t *model.Transcript, meetingType model.MeetingTypeID, focus []string) (Extraction, error)
}
