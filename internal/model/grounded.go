package model

import (
	"fmt"
	"sort"
)

// GroundedItem categories.
const (
	CategoryDecision   = "decision"
	CategoryActionItem = "action_item"
	CategoryMention    = "mention"
)

// GroundedItem statuses.
const (
	StatusConfirmed = "confirmed"
	StatusUnclear   = "unclear"
)

// TranscriptReference points at a span of the transcript that backs a
// claim. It is always derived from existing transcript segments, never
// synthesized from model output.
type TranscriptReference struct {
	ID      string  `json:"id,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
	Excerpt string  `json:"excerpt"`
}

// GroundedItem is one extracted claim with its supporting references.
type GroundedItem struct {
	Text       string                `json:"text"`
	Status     string                `json:"status"`
	Reason     string                `json:"reason,omitempty"`
	Category   string                `json:"category"`
	References []TranscriptReference `json:"references"`
	Metadata   map[string]string     `json:"metadata,omitempty"`
}

// Validate enforces the grounded-item invariants.
func (g *GroundedItem) Validate() error {
	if len(g.References) == 0 {
		return fmt.Errorf("grounded item %q has no references", g.Text)
	}
	if g.Status == StatusUnclear && g.Reason == "" {
		return fmt.Errorf("unclear item %q has no reason", g.Text)
	}
	for i, ref := range g.References {
		if ref.End < ref.Start {
			return fmt.Errorf("item %q reference %d ends before it starts", g.Text, i)
		}
	}
	return nil
}

// EngineInfo records which engines produced the classification and the
// extraction, plus any degradation reasons along the way.
type EngineInfo struct {
	Classifier     string   `json:"classifier"`
	Extractor      string   `json:"extractor"`
	DegradeReasons []string `json:"degrade_reasons,omitempty"`
}

// MeetingNotes is the final structured output handed to rendering. The
// three claim collections are always present, possibly empty. Built once
// and immutable thereafter.
type MeetingNotes struct {
	MeetingType    MeetingType           `json:"meeting_type"`
	Classification ClassificationResult  `json:"classification"`
	Overridden     bool                  `json:"overridden,omitempty"`
	EngineInfo     EngineInfo            `json:"engine_info"`
	Decisions      []GroundedItem        `json:"decisions"`
	ActionItems    []GroundedItem        `json:"action_items"`
	Mentions       []GroundedItem        `json:"mentions"`
	TypeSpecific   map[string][]string   `json:"type_specific"`
	References     []TranscriptReference `json:"references"`
}

// CollectReferences returns the de-duplicated union of all item
// references, ordered by start time.
func CollectReferences(groups ...[]GroundedItem) []TranscriptReference {
	seen := make(map[string]bool)
	var out []TranscriptReference
	for _, items := range groups {
		for _, item := range items {
			for _, ref := range item.References {
				key := fmt.Sprintf("%.3f|%.3f|%s", ref.Start, ref.End, ref.Excerpt)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, ref)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}
