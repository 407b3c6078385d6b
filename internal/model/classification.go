package model

import (
	"fmt"
	"time"
)

// Engine names recorded in classification and extraction provenance.
const (
	EngineHeuristic = "heuristic"
	EngineRemote    = "remote"
	EngineManual    = "manual"
)

// Candidate is an alternative archetype with its normalized score.
type Candidate struct {
	Type  MeetingTypeID `json:"type"`
	Score float64       `json:"score"`
}

// ClassificationResult is the outcome of one classification pass. It is
// immutable once created; a manual override is recorded separately and
// never rewrites the original result.
type ClassificationResult struct {
	Timestamp  time.Time     `json:"timestamp"`
	Type       MeetingTypeID `json:"detected_type"`
	Engine     string        `json:"engine"`
	Evidence   []string      `json:"evidence"`
	Candidates []Candidate   `json:"secondary_types"`
	Confidence float64       `json:"confidence"`
}

// Validate enforces the result invariants: confidence in range, non-empty
// evidence, candidates sorted descending below the primary score, and at
// least three candidates when confidence is low.
func (r *ClassificationResult) Validate() error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %.3f out of range [0,1]", r.Confidence)
	}
	if len(r.Evidence) == 0 {
		return fmt.Errorf("classification result must carry evidence")
	}
	prev := r.Confidence
	for i, c := range r.Candidates {
		if c.Score > prev {
			return fmt.Errorf("candidate %d score %.3f exceeds preceding score %.3f", i, c.Score, prev)
		}
		prev = c.Score
	}
	if r.Confidence < 0.5 && len(r.Candidates) < 3 {
		return fmt.Errorf("low-confidence result requires at least 3 candidates, got %d", len(r.Candidates))
	}
	return nil
}
