// Package grounding checks extracted claims against the transcript they
// cite. A claim survives only when its references point at real spans
// whose text actually supports the quoted excerpt.
package grounding

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Validator verifies grounded items against one transcript.
type Validator struct {
	transcript *model.Transcript
	duration   float64
}

// NewValidator builds a validator for the given transcript.
func NewValidator(t *model.Transcript) *Validator {
	return &Validator{transcript: t, duration: t.Duration()}
}

// ValidateItems checks every item and returns the surviving set. Checks
// run in a fixed order per reference: reference presence, timestamp
// bounds, then excerpt support. A mention that fails any check is
// dropped. A decision or action item that fails is kept with status
// unclear and a reason naming the first failed check.
func (v *Validator) ValidateItems(category string, items []model.GroundedItem) []model.GroundedItem {
	out := make([]model.GroundedItem, 0, len(items))
	for _, item := range items {
		item.Category = category
		reason := v.check(&item)
		if reason == "" {
			out = append(out, item)
			continue
		}

		if category == model.CategoryMention {
			slog.Debug("Dropping ungrounded mention",
				"text", item.Text,
				"reason", reason)
			continue
		}

		slog.Debug("Marking item unclear",
			"category", category,
			"text", item.Text,
			"reason", reason)
		item.Status = model.StatusUnclear
		item.Reason = reason
		if len(item.References) == 0 {
			// An unclear item still needs a location for the reader to
			// inspect. Anchor it at the opening segment so the reference
			// is a real span, never an invented one.
			item.References = []model.TranscriptReference{v.openingAnchor()}
		}
		out = append(out, item)
	}
	return out
}

// openingAnchor builds a reference to the first transcript segment.
func (v *Validator) openingAnchor() model.TranscriptReference {
	if len(v.transcript.Segments) == 0 {
		return model.TranscriptReference{}
	}
	seg := v.transcript.Segments[0]
	return model.TranscriptReference{
		Start:   seg.Start,
		End:     seg.End,
		Speaker: seg.Speaker,
		Excerpt: seg.Text,
	}
}

// check returns an empty string when the item is fully grounded, or the
// first failure in check order.
func (v *Validator) check(item *model.GroundedItem) string {
	if len(item.References) == 0 {
		return "no transcript references"
	}
	for i, ref := range item.References {
		if ref.End < ref.Start {
			return fmt.Sprintf("reference %d ends before it starts", i)
		}
		if ref.Start < 0 || ref.End > v.duration {
			return fmt.Sprintf("reference %d outside transcript duration (%.1fs)", i, v.duration)
		}
		if ref.Excerpt != "" && !v.spanSupports(ref) {
			return fmt.Sprintf("reference %d excerpt not found in cited span", i)
		}
	}
	return ""
}

// spanSupports reports whether the excerpt appears in the transcript text
// covering the reference window. Comparison is case-insensitive with
// collapsed whitespace.
func (v *Validator) spanSupports(ref model.TranscriptReference) bool {
	span := normalize(v.spanText(ref.Start, ref.End))
	if span == "" {
		return false
	}
	return strings.Contains(span, normalize(ref.Excerpt))
}

// spanText joins the text of every segment overlapping [start, end].
func (v *Validator) spanText(start, end float64) string {
	var b strings.Builder
	for _, seg := range v.transcript.Segments {
		if seg.End < start || seg.Start > end {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
