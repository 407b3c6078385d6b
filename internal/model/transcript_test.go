package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptValidate(t *testing.T) {
	tests := []struct {
		name    string
		t       Transcript
		wantErr error
	}{
		{
			name:    "empty transcript",
			t:       Transcript{},
			wantErr: ErrEmptyTranscript,
		},
		{
			name: "valid transcript",
			t: Transcript{Segments: []Segment{
				{Start: 0, End: 5, Text: "a"},
				{Start: 5, End: 10, Text: "b"},
			}},
		},
		{
			name: "segment ends before start",
			t: Transcript{Segments: []Segment{
				{Start: 10, End: 5, Text: "a"},
			}},
			wantErr: ErrMalformedTranscript,
		},
		{
			name: "out of order",
			t: Transcript{Segments: []Segment{
				{Start: 20, End: 25, Text: "a"},
				{Start: 5, End: 10, Text: "b"},
			}},
			wantErr: ErrMalformedTranscript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.t.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTranscriptAccessors(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{Start: 0, End: 5, Text: " hello there "},
		{Start: 5, End: 12.5, Text: "general update"},
	}}

	assert.InDelta(t, 12.5, tr.Duration(), 1e-9)
	assert.Equal(t, "hello there general update", tr.Text())
	assert.Equal(t, 4, tr.WordCount())
	assert.Zero(t, (&Transcript{}).Duration())
}

func TestParseTranscriptObjectForm(t *testing.T) {
	tr, err := ParseTranscript([]byte(`{
		"language": "en",
		"segments": [
			{"start": 0, "end": 4.5, "text": "hello", "speaker": "Alice"},
			{"start": 4.5, "end": 9, "text": "world"}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "en", tr.Language)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, "Alice", tr.Segments[0].Speaker)
}

func TestParseTranscriptBareArrayForm(t *testing.T) {
	tr, err := ParseTranscript([]byte(`[
		{"start": 0, "end": 4.5, "text": "hello"}
	]`))
	require.NoError(t, err)
	require.Len(t, tr.Segments, 1)
}

func TestParseTranscriptRejectsGarbage(t *testing.T) {
	_, err := ParseTranscript([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedTranscript)
}

func TestParseTranscriptRejectsEmptySegments(t *testing.T) {
	_, err := ParseTranscript([]byte(`{"segments": []}`))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestLoadTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"segments":[{"start":0,"end":3,"text":"hi"}]}`), 0o644))

	tr, err := LoadTranscript(path)
	require.NoError(t, err)
	assert.Len(t, tr.Segments, 1)

	_, err = LoadTranscript(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
