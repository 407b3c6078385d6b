package notes

import (
	"context"
	"regexp"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Keyword triggers for the offline extractor. A segment containing one
// becomes a candidate claim with the segment itself as the reference.
var (
	decisionKeywords = []string{
		"decided", "decision", "agreed", "approved", "will go with", "consensus",
	}
	actionKeywords = []string{
		"will ", "going to", "need to", "should ", "must ", "task",
		"follow up", "next step", "action item",
	}
)

// Mention patterns, tried in order. The first match wins so a URL is
// never double-reported as a number.
var mentionPatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"url", regexp.MustCompile(`https?://[^\s]+`)},
	{"date", regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|january|february|march|april|may|june|july|august|september|october|november|december|\d{4}-\d{2}-\d{2})\b`)},
	{"number", regexp.MustCompile(`\$?\d+(?:\.\d+)?%?`)},
}

// BasicExtractor is the deterministic offline extractor. Every claim it
// emits quotes a transcript segment verbatim, so its output is grounded
// by construction.
type BasicExtractor struct{}

// NewBasicExtractor returns the offline extractor.
func NewBasicExtractor() *BasicExtractor { return &BasicExtractor{} }

// Extract scans segments for decision language, commitment language, and
// notable mentions. It never fails.
func (e *BasicExtractor) Extract(_ context.Context, t *model.Transcript, _ model.MeetingTypeID, _ []string) (Extraction, error) {
	ext := Extraction{Engine: model.EngineHeuristic}

	for _, seg := range t.Segments {
		lower := strings.ToLower(seg.Text)

		if containsAny(lower, decisionKeywords) {
			ext.Decisions = append(ext.Decisions, segmentItem(seg, model.CategoryDecision, nil))
		}
		if containsAny(lower, actionKeywords) {
			meta := map[string]string{}
			if seg.Speaker != "" {
				meta["owner"] = seg.Speaker
			}
			ext.Actions = append(ext.Actions, segmentItem(seg, model.CategoryActionItem, meta))
		}

		for _, p := range mentionPatterns {
			match := p.re.FindString(seg.Text)
			if match == "" {
				continue
			}
			item := segmentItem(seg, model.CategoryMention, map[string]string{"kind": p.kind})
			item.Text = match
			ext.Mentions = append(ext.Mentions, item)
			break
		}
	}

	return ext, nil
}

// segmentItem builds a confirmed claim referencing exactly the segment it
// was found in.
func segmentItem(seg model.Segment, category string, metadata map[string]string) model.GroundedItem {
	return model.GroundedItem{
		Text:     strings.TrimSpace(seg.Text),
		Status:   model.StatusConfirmed,
		Category: category,
		Metadata: metadata,
		References: []model.TranscriptReference{{
			Start:   seg.Start,
			End:     seg.End,
			Speaker: seg.Speaker,
			Excerpt: strings.TrimSpace(seg.Text),
		}},
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
