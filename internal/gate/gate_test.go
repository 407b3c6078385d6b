package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteman-notes/minuteman/internal/model"
)

func result(confidence float64, candidates ...model.Candidate) model.ClassificationResult {
	return model.ClassificationResult{
		Type:       model.TypeStatus,
		Confidence: confidence,
		Evidence:   []string{"standup (2x)"},
		Candidates: candidates,
		Engine:     model.EngineHeuristic,
		Timestamp:  time.Unix(0, 0),
	}
}

func TestRouteThresholds(t *testing.T) {
	lowCandidates := []model.Candidate{
		{Type: model.TypePlanning, Score: 0.3},
		{Type: model.TypeDesign, Score: 0.2},
		{Type: model.TypeDiscovery, Score: 0.1},
	}

	tests := []struct {
		name       string
		confidence float64
		candidates []model.Candidate
		expected   Mode
	}{
		{"well above auto-accept", 0.95, nil, ModeAutoAccept},
		{"exactly at auto-accept boundary", 0.6, nil, ModeAutoAccept},
		{"just below auto-accept", 0.599, nil, ModeConfirm},
		{"exactly at confirm boundary", 0.5, nil, ModeConfirm},
		{"just below confirm", 0.499, lowCandidates, ModeMustReview},
		{"zero confidence", 0.0, lowCandidates, ModeMustReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Route(result(tt.confidence, tt.candidates...))
			assert.Equal(t, tt.expected, d.Mode)
			assert.Equal(t, model.TypeStatus, d.Default)
		})
	}
}

func TestRouteChoicesLeadWithClassifiedType(t *testing.T) {
	d := Route(result(0.55,
		model.Candidate{Type: model.TypePlanning, Score: 0.4},
		model.Candidate{Type: model.TypeDesign, Score: 0.3},
	))

	require.Len(t, d.Choices, 3)
	assert.Equal(t, model.TypeStatus, d.Choices[0].Type)
	assert.InDelta(t, 0.55, d.Choices[0].Score, 1e-9)
	assert.Equal(t, model.TypePlanning, d.Choices[1].Type)
}

func TestRouteMustReviewCarriesAlternatives(t *testing.T) {
	d := Route(result(0.2,
		model.Candidate{Type: model.TypePlanning, Score: 0.15},
		model.Candidate{Type: model.TypeDesign, Score: 0.1},
		model.Candidate{Type: model.TypeDiscovery, Score: 0.05},
	))

	assert.Equal(t, ModeMustReview, d.Mode)
	// The primary plus at least three ranked alternatives.
	assert.GreaterOrEqual(t, len(d.Choices), 4)
}

func TestRouteIsDeterministic(t *testing.T) {
	r := result(0.55, model.Candidate{Type: model.TypePlanning, Score: 0.4})
	assert.Equal(t, Route(r), Route(r))
}
