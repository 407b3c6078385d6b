// Package window selects a bounded transcript subset for remote-model calls.
package window

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Marker patterns flag segments worth including beyond the initial window:
// decision language, action commitments, and direct questions.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(decided|decision|agreed|approved|consensus)\b`),
	regexp.MustCompile(`(?i)\b(action item|follow up|next step|will|must|need to)\b`),
	regexp.MustCompile(`\?`),
}

// Options configures a Builder. Zero values select the defaults.
type Options struct {
	// InitialDuration is the opening stretch of the meeting always kept.
	InitialDuration time.Duration
	// MaxMarkerSegments bounds how many marker-matching segments outside
	// the initial window are added.
	MaxMarkerSegments int
	// ContextWords is the word radius each marker segment is expanded by.
	ContextWords int
}

// Builder produces bounded transcript windows. It holds no mutable state
// and is safe for concurrent use.
type Builder struct {
	initial    time.Duration
	maxMarkers int
	radius     int
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts Options) *Builder {
	if opts.InitialDuration <= 0 {
		opts.InitialDuration = 12 * time.Minute
	}
	if opts.MaxMarkerSegments <= 0 {
		opts.MaxMarkerSegments = 10
	}
	if opts.ContextWords <= 0 {
		opts.ContextWords = 50
	}
	return &Builder{
		initial:    opts.InitialDuration,
		maxMarkers: opts.MaxMarkerSegments,
		radius:     opts.ContextWords,
	}
}

// Build returns a new transcript containing the initial window plus
// marker-matching segments expanded by the word radius, merged and in
// chronological order. The input is never modified.
func (b *Builder) Build(t *model.Transcript) *model.Transcript {
	if len(t.Segments) == 0 {
		return &model.Transcript{Language: t.Language}
	}

	cutoff := b.initial.Seconds()
	include := make([]bool, len(t.Segments))

	lastInitial := -1
	for i, seg := range t.Segments {
		if seg.Start < cutoff {
			include[i] = true
			lastInitial = i
		}
	}

	// Marker segments past the initial window, each expanded to cover the
	// configured word radius on both sides. Expansion spans are merged by
	// the shared include mask.
	markers := 0
	for i := lastInitial + 1; i < len(t.Segments) && markers < b.maxMarkers; i++ {
		if !matchesMarker(t.Segments[i].Text) {
			continue
		}
		markers++
		lo, hi := b.expand(t.Segments, i)
		for j := lo; j <= hi; j++ {
			include[j] = true
		}
	}

	out := &model.Transcript{Language: t.Language}
	for i, keep := range include {
		if keep {
			out.Segments = append(out.Segments, t.Segments[i])
		}
	}
	sort.SliceStable(out.Segments, func(i, j int) bool {
		return out.Segments[i].Start < out.Segments[j].Start
	})
	return out
}

// expand widens segment index i until roughly radius words are covered on
// each side.
func (b *Builder) expand(segments []model.Segment, i int) (lo, hi int) {
	lo, hi = i, i
	words := 0
	for lo > 0 && words < b.radius {
		lo--
		words += len(strings.Fields(segments[lo].Text))
	}
	words = 0
	for hi < len(segments)-1 && words < b.radius {
		hi++
		words += len(strings.Fields(segments[hi].Text))
	}
	return lo, hi
}

func matchesMarker(text string) bool {
	for _, p := range markerPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
