package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult() ClassificationResult {
	return ClassificationResult{
		Timestamp:  time.Unix(0, 0),
		Type:       TypeStatus,
		Engine:     EngineHeuristic,
		Evidence:   []string{"standup (1x)"},
		Confidence: 0.7,
		Candidates: []Candidate{
			{Type: TypePlanning, Score: 0.4},
			{Type: TypeDesign, Score: 0.2},
		},
	}
}

func TestClassificationResultValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := validResult()
		assert.NoError(t, r.Validate())
	})

	t.Run("confidence out of range", func(t *testing.T) {
		r := validResult()
		r.Confidence = 1.2
		assert.Error(t, r.Validate())
	})

	t.Run("missing evidence", func(t *testing.T) {
		r := validResult()
		r.Evidence = nil
		assert.Error(t, r.Validate())
	})

	t.Run("candidate above primary", func(t *testing.T) {
		r := validResult()
		r.Candidates[0].Score = 0.9
		assert.Error(t, r.Validate())
	})

	t.Run("candidates out of order", func(t *testing.T) {
		r := validResult()
		r.Candidates = []Candidate{
			{Type: TypePlanning, Score: 0.2},
			{Type: TypeDesign, Score: 0.4},
		}
		assert.Error(t, r.Validate())
	})

	t.Run("low confidence needs three candidates", func(t *testing.T) {
		r := validResult()
		r.Confidence = 0.3
		assert.Error(t, r.Validate())

		r.Candidates = append(r.Candidates, Candidate{Type: TypeDemo, Score: 0.1})
		for i := range r.Candidates {
			if r.Candidates[i].Score > r.Confidence {
				r.Candidates[i].Score = r.Confidence
			}
		}
		assert.NoError(t, r.Validate())
	})
}

func TestArchetypesDictionary(t *testing.T) {
	a := DefaultArchetypes()

	assert.Equal(t, 9, a.Len())

	status, ok := a.Get(TypeStatus)
	require.True(t, ok)
	assert.Equal(t, "Status / Standup", status.DisplayName)
	assert.NotEmpty(t, status.Keywords)

	_, ok = a.Get(TypeUnclassifiable)
	assert.False(t, ok, "the unclassifiable sentinel is not an archetype")

	ids := a.IDs()
	require.Len(t, ids, 9)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, string(ids[i-1]), string(ids[i]), "ids must be lexicographically ordered")
	}

	all := a.All()
	require.Len(t, all, 9)
	assert.Equal(t, ids[0], all[0].ID)
}
