// Package model defines the core domain types shared across the application.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Transcript validation errors.
var (
	ErrEmptyTranscript     = errors.New("transcript has no segments")
	ErrMalformedTranscript = errors.New("malformed transcript")
)

// Segment is a single timestamped utterance from the transcription engine.
// Times are seconds from the start of the recording.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is an ordered sequence of segments.
type Transcript struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// Duration returns the end timestamp of the final segment.
func (t *Transcript) Duration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}

// Text joins all segment texts into a single string.
func (t *Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}

// WordCount returns the number of whitespace-separated words.
func (t *Transcript) WordCount() int {
	return len(strings.Fields(t.Text()))
}

// Validate checks the transcript input contract: non-empty, start<end per
// segment, chronological order.
func (t *Transcript) Validate() error {
	if len(t.Segments) == 0 {
		return ErrEmptyTranscript
	}
	prev := -1.0
	for i, s := range t.Segments {
		if s.End < s.Start {
			return fmt.Errorf("%w: segment %d ends before it starts (%.2f < %.2f)", ErrMalformedTranscript, i, s.End, s.Start)
		}
		if s.Start < prev {
			return fmt.Errorf("%w: segment %d out of chronological order", ErrMalformedTranscript, i)
		}
		prev = s.Start
	}
	return nil
}

// ParseTranscript decodes a whisper-style transcript JSON document. Both a
// bare segment array and an object with a "segments" key are accepted.
func ParseTranscript(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		var segs []Segment
		if err2 := json.Unmarshal(data, &segs); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTranscript, err)
		}
		t = Transcript{Segments: segs}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTranscript reads and parses a transcript JSON file.
func LoadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return ParseTranscript(data)
}
