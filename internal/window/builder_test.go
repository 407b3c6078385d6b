package window

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// longTranscript builds an hour of one-sentence segments, 15s each.
func longTranscript() *model.Transcript {
	t := &model.Transcript{}
	for i := 0; i < 240; i++ {
		start := float64(i * 15)
		t.Segments = append(t.Segments, model.Segment{
			Start: start,
			End:   start + 15,
			Text:  fmt.Sprintf("Segment %d with some ordinary filler talk.", i),
		})
	}
	return t
}

func TestBuildKeepsShortTranscriptWhole(t *testing.T) {
	b := NewBuilder(Options{})
	in := &model.Transcript{Segments: []model.Segment{
		{Start: 0, End: 30, Text: "Short meeting."},
		{Start: 30, End: 60, Text: "Already over."},
	}}

	out := b.Build(in)
	assert.Len(t, out.Segments, 2)
}

func TestBuildTruncatesPastInitialWindow(t *testing.T) {
	b := NewBuilder(Options{})
	out := b.Build(longTranscript())

	// 12 minutes of 15s segments is 48 segments; nothing later matches a
	// marker so nothing else is included.
	require.NotEmpty(t, out.Segments)
	assert.Len(t, out.Segments, 48)
	assert.Less(t, out.Segments[len(out.Segments)-1].Start, (12 * time.Minute).Seconds())
}

func TestBuildIncludesMarkerSegmentsWithContext(t *testing.T) {
	in := longTranscript()
	// Plant a decision far outside the initial window.
	in.Segments[200].Text = "After the debate we decided to go with option B."

	b := NewBuilder(Options{})
	out := b.Build(in)

	var markerIncluded bool
	var contextCount int
	for _, seg := range out.Segments {
		if seg.Start == in.Segments[200].Start {
			markerIncluded = true
		}
		if seg.Start > (12*time.Minute).Seconds() {
			contextCount++
		}
	}
	assert.True(t, markerIncluded, "decision segment should be in the window")
	// The word radius pulls surrounding segments along with the marker.
	assert.Greater(t, contextCount, 1)
}

func TestBuildCapsMarkerSegments(t *testing.T) {
	in := longTranscript()
	// More marker segments than the cap allows.
	for i := 60; i < 80; i++ {
		in.Segments[i].Text = "We decided something important here."
	}

	b := NewBuilder(Options{MaxMarkerSegments: 3, ContextWords: 1})
	out := b.Build(in)

	decisions := 0
	for _, seg := range out.Segments {
		if seg.Start >= 900 && seg.Text == "We decided something important here." {
			decisions++
		}
	}
	// Context expansion may pull in neighboring marker segments, but the
	// scan itself stops after the cap.
	assert.LessOrEqual(t, decisions, 5)
}

func TestBuildOutputIsChronologicalAndInputUntouched(t *testing.T) {
	in := longTranscript()
	in.Segments[150].Text = "Action item: follow up with the vendor."
	before := len(in.Segments)

	out := NewBuilder(Options{}).Build(in)

	assert.Len(t, in.Segments, before)
	for i := 1; i < len(out.Segments); i++ {
		assert.GreaterOrEqual(t, out.Segments[i].Start, out.Segments[i-1].Start)
	}
}

func TestBuildEmptyTranscript(t *testing.T) {
	out := NewBuilder(Options{}).Build(&model.Transcript{Language: "en"})
	assert.Empty(t, out.Segments)
	assert.Equal(t, "en", out.Language)
}

func TestBuildIsDeterministic(t *testing.T) {
	in := longTranscript()
	in.Segments[100].Text = "We agreed on the rollout plan?"

	b := NewBuilder(Options{})
	assert.Equal(t, b.Build(in), b.Build(in))
}
