// Package heuristic implements the deterministic offline meeting-type
// classifier. Same input always yields the same output; this is the
// default engine and the fallback when the remote backend degrades.
package heuristic

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// expectedMaxScore normalizes raw keyword scores into [0,1].
const expectedMaxScore = 20.0

var timelineWords = []string{"yesterday", "today", "tomorrow", "last week", "next week", "this week"}

var commitmentMarkers = []string{"will", "should", "must", "need to", "have to"}

type scored struct {
	id       model.MeetingTypeID
	score    float64
	evidence []string
}

// Classifier scores a transcript against every archetype using weighted
// keyword matches plus structural markers.
type Classifier struct {
	archetypes *model.Archetypes
	now        func() time.Time
}

// NewClassifier creates a classifier over the given archetype dictionary.
func NewClassifier(archetypes *model.Archetypes) *Classifier {
	return &Classifier{archetypes: archetypes, now: time.Now}
}

// WithClock overrides the timestamp source. Used by tests.
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	c.now = now
	return c
}

// Classify scores the transcript and returns the best archetype with its
// confidence, evidence, and ranked alternatives. An empty transcript
// yields the unclassifiable result with confidence 0, never an error.
func (c *Classifier) Classify(t *model.Transcript) model.ClassificationResult {
	text := strings.ToLower(t.Text())
	if strings.TrimSpace(text) == "" {
		return c.unclassifiable("empty transcript")
	}

	scores := make(map[model.MeetingTypeID]*scored, c.archetypes.Len())
	for _, mt := range c.archetypes.All() {
		s := &scored{id: mt.ID}
		// Sum keywords in sorted order: float addition is not associative,
		// so map iteration order would make the score wobble across runs.
		keywords := make([]string, 0, len(mt.Keywords))
		for keyword := range mt.Keywords {
			keywords = append(keywords, keyword)
		}
		sort.Strings(keywords)
		for _, keyword := range keywords {
			weight := mt.Keywords[keyword]
			count := strings.Count(text, strings.ToLower(keyword))
			if count == 0 {
				continue
			}
			// Dampen repetition so one chatty keyword cannot dominate.
			s.score += weight * math.Log(1+float64(count))
			s.evidence = append(s.evidence, fmt.Sprintf("%s (%dx)", keyword, count))
		}
		sort.Strings(s.evidence)
		scores[mt.ID] = s
	}

	c.applyStructuralMarkers(scores, text)

	ranked := make([]*scored, 0, len(scores))
	for _, s := range scores {
		ranked = append(ranked, s)
	}
	// Ties break on archetype id so repeated runs stay identical.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	top := ranked[0]
	if top.score == 0 {
		return c.unclassifiable("no strong indicators found")
	}

	margin := 0.0
	if len(ranked) > 1 && top.score > 0 {
		margin = (top.score - ranked[1].score) / top.score
	}
	factor := 0.5 + 0.5*margin
	confidence := clamp01(top.score/expectedMaxScore) * factor

	// Candidates share the primary's margin factor so the primary always
	// scores at least as high as every alternative.
	candidates := make([]model.Candidate, 0, 5)
	for _, s := range ranked[1:] {
		if len(candidates) == 5 {
			break
		}
		candidates = append(candidates, model.Candidate{
			Type:  s.id,
			Score: clamp01(s.score/expectedMaxScore) * factor,
		})
	}

	evidence := top.evidence
	if len(evidence) > 5 {
		evidence = evidence[:5]
	}

	return model.ClassificationResult{
		Type:       top.id,
		Confidence: confidence,
		Evidence:   evidence,
		Candidates: candidates,
		Engine:     model.EngineHeuristic,
		Timestamp:  c.now(),
	}
}

// applyStructuralMarkers adds bonuses derived from transcript structure
// rather than vocabulary: question density, timeline talk, and commitment
// language.
func (c *Classifier) applyStructuralMarkers(scores map[model.MeetingTypeID]*scored, text string) {
	bump := func(id model.MeetingTypeID, delta float64) {
		if s, ok := scores[id]; ok {
			s.score += delta
		}
	}

	sentences := strings.Split(text, ".")
	questions := 0
	for _, s := range sentences {
		if strings.Contains(s, "?") {
			questions++
		}
	}
	if len(sentences) > 0 && float64(questions)/float64(len(sentences)) > 0.3 {
		bump(model.TypeDiscovery, 2.0)
		bump(model.TypeBrainstorm, 1.5)
		bump(model.TypeStatus, 1.0)
	}

	timeline := 0
	for _, w := range timelineWords {
		timeline += strings.Count(text, w)
	}
	if timeline > 3 {
		bump(model.TypeStatus, 2.0)
		bump(model.TypePlanning, 1.5)
	}

	commitments := 0
	for _, m := range commitmentMarkers {
		commitments += strings.Count(text, m)
	}
	if commitments > 5 {
		bump(model.TypePlanning, 1.5)
		bump(model.TypeIncident, 1.0)
	}
}

func (c *Classifier) unclassifiable(reason string) model.ClassificationResult {
	ids := c.archetypes.IDs()
	candidates := make([]model.Candidate, 0, 5)
	for _, id := range ids {
		if len(candidates) == 5 {
			break
		}
		candidates = append(candidates, model.Candidate{Type: id, Score: 0})
	}
	return model.ClassificationResult{
		Type:       model.TypeUnclassifiable,
		Confidence: 0,
		Evidence:   []string{reason},
		Candidates: candidates,
		Engine:     model.EngineHeuristic,
		Timestamp:  c.now(),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
