package model

import "sort"

// MeetingTypeID identifies one archetype in the closed set.
type MeetingTypeID string

// The closed set of meeting archetypes.
const (
	TypeStatus     MeetingTypeID = "status"
	TypePlanning   MeetingTypeID = "planning"
	TypeDesign     MeetingTypeID = "design"
	TypeDemo       MeetingTypeID = "demo"
	TypeTalk       MeetingTypeID = "talk"
	TypeIncident   MeetingTypeID = "incident"
	TypeDiscovery  MeetingTypeID = "discovery"
	TypeOneOnOne   MeetingTypeID = "oneonone"
	TypeBrainstorm MeetingTypeID = "brainstorm"

	// TypeUnclassifiable is the designated result for transcripts with no
	// usable signal. It is not part of the archetype dictionary.
	TypeUnclassifiable MeetingTypeID = "unclassifiable"
)

// MeetingType describes one archetype: its lexical signals, the structural
// markers that boost it, and the notes layout it selects. Instances are
// immutable after construction.
type MeetingType struct {
	ID            MeetingTypeID
	DisplayName   string
	Keywords      map[string]float64
	SectionLayout string
}

// Archetypes is the process-wide read-only archetype dictionary. It is
// loaded once at startup and injected; concurrent readers are safe because
// nothing mutates it after construction.
type Archetypes struct {
	types map[MeetingTypeID]MeetingType
	order []MeetingTypeID
}

// Get returns the archetype for id.
func (a *Archetypes) Get(id MeetingTypeID) (MeetingType, bool) {
	mt, ok := a.types[id]
	return mt, ok
}

// IDs returns all archetype ids in stable lexicographic order.
func (a *Archetypes) IDs() []MeetingTypeID {
	out := make([]MeetingTypeID, len(a.order))
	copy(out, a.order)
	return out
}

// All returns the archetypes in stable lexicographic order.
func (a *Archetypes) All() []MeetingType {
	out := make([]MeetingType, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.types[id])
	}
	return out
}

// Len returns the number of archetypes.
func (a *Archetypes) Len() int { return len(a.order) }

// NewArchetypes builds a dictionary from the given meeting types.
func NewArchetypes(types []MeetingType) *Archetypes {
	m := make(map[MeetingTypeID]MeetingType, len(types))
	order := make([]MeetingTypeID, 0, len(types))
	for _, t := range types {
		m[t.ID] = t
		order = append(order, t.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return &Archetypes{types: m, order: order}
}

// DefaultArchetypes returns the built-in archetype dictionary. Multi-word
// keys act as phrase bonuses during heuristic scoring.
func DefaultArchetypes() *Archetypes {
	return NewArchetypes([]MeetingType{
		{
			ID:          TypeStatus,
			DisplayName: "Status / Standup",
			Keywords: map[string]float64{
				"status": 2.5, "update": 2.5, "progress": 2.0, "blockers": 2.5,
				"blocked": 2.0, "impediments": 2.0, "stand-up": 3.0, "standup": 3.0,
				"scrum": 2.5, "sprint": 2.0,
				"yesterday": 2.0, "today": 1.5, "tomorrow": 1.5,
				"this week": 1.0, "last week": 1.0, "next week": 1.0,
				"working on": 1.5, "finished": 1.0, "completed": 1.0,
				"in progress": 1.5, "waiting for": 1.5,
			},
			SectionLayout: "status",
		},
		{
			ID:          TypePlanning,
			DisplayName: "Planning",
			Keywords: map[string]float64{
				"roadmap": 2.5, "milestone": 2.0, "sprint planning": 3.0,
				"backlog": 2.5, "prioritize": 2.0, "priority": 1.5, "estimate": 2.0,
				"timeline": 2.0, "deadline": 1.5, "dependencies": 1.5,
				"next quarter": 2.0, "next sprint": 2.0, "upcoming": 1.5,
				"plan": 1.5, "schedule": 1.5, "allocate": 1.5, "resource": 1.0,
				"story points": 2.5, "velocity": 2.0, "capacity": 1.5, "commitment": 1.5,
			},
			SectionLayout: "planning",
		},
		{
			ID:          TypeDesign,
			DisplayName: "Design Review",
			Keywords: map[string]float64{
				"architecture": 2.5, "design": 2.0, "technical": 1.5, "approach": 1.5,
				"pattern": 2.0, "trade-offs": 2.5, "tradeoffs": 2.5,
				"component": 1.5, "module": 1.5, "interface": 2.0, "api": 2.0,
				"schema": 2.0, "data model": 2.5,
				"diagram": 2.0, "whiteboard": 2.0, "mockup": 1.5, "prototype": 2.0,
				"proposal": 1.5, "scalability": 2.0, "performance": 1.5,
			},
			SectionLayout: "design",
		},
		{
			ID:          TypeDemo,
			DisplayName: "Demo",
			Keywords: map[string]float64{
				"demo": 3.0, "demonstrate": 2.5, "show": 1.5, "presentation": 2.0,
				"showcase": 2.5, "walkthrough": 2.0,
				"let me show": 2.5, "you can see": 2.0, "as you can see": 2.0,
				"here's how": 2.0, "click": 1.5, "screen": 1.5, "feature": 1.5,
				"feedback": 1.5, "questions": 1.0, "thoughts": 1.0,
			},
			SectionLayout: "demo",
		},
		{
			ID:          TypeTalk,
			DisplayName: "Talk / Presentation",
			Keywords: map[string]float64{
				"presentation": 2.0, "talk": 1.5, "lecture": 2.5, "today i'll": 2.0,
				"agenda": 2.0, "introducing": 2.0, "overview": 2.0,
				"thank you for": 1.5, "questions": 1.0, "slides": 2.5, "next slide": 2.5,
				"explain": 1.5, "learn": 1.5, "understand": 1.0,
			},
			SectionLayout: "talk",
		},
		{
			ID:          TypeIncident,
			DisplayName: "Incident Review",
			Keywords: map[string]float64{
				"incident": 3.0, "outage": 3.0, "down": 2.0, "critical": 2.5,
				"urgent": 2.0, "emergency": 2.5, "broken": 2.0,
				"root cause": 2.5, "rca": 2.5, "investigate": 2.0, "debug": 2.0,
				"troubleshoot": 2.0, "logs": 1.5, "error": 1.5, "failure": 1.5,
				"mitigate": 2.0, "rollback": 2.0, "hotfix": 2.5, "restore": 2.0,
				"recovering": 2.0,
			},
			SectionLayout: "incident",
		},
		{
			ID:          TypeDiscovery,
			DisplayName: "Discovery / Research",
			Keywords: map[string]float64{
				"discovery": 2.5, "research": 2.0, "explore": 2.0, "investigate": 1.5,
				"understand": 1.5, "requirements": 2.0, "user needs": 2.5,
				"pain points": 2.5,
				"tell me about": 2.0, "how do you": 1.5, "why do you": 1.5,
				"workflow": 1.5, "process": 1.0, "challenges": 1.5,
				"insights": 2.0, "findings": 2.0, "learned": 1.5,
			},
			SectionLayout: "discovery",
		},
		{
			ID:          TypeOneOnOne,
			DisplayName: "One-on-One",
			Keywords: map[string]float64{
				"1:1": 3.0, "one-on-one": 3.0, "check-in": 2.5, "check in": 2.5,
				"how are you": 2.0, "how's it going": 2.0,
				"career": 2.5, "growth": 2.0, "feedback": 1.5, "performance": 1.5,
				"goals": 1.5, "development": 1.5,
				"feeling": 1.5, "comfortable": 1.0, "support": 1.0, "concerns": 1.5,
			},
			SectionLayout: "oneonone",
		},
		{
			ID:          TypeBrainstorm,
			DisplayName: "Brainstorm",
			Keywords: map[string]float64{
				"brainstorm": 3.0, "ideas": 2.5, "creative": 2.0, "think": 1.5,
				"what if": 2.5, "could we": 2.0, "maybe": 1.5,
				"possibilities": 2.0, "options": 1.5, "alternatives": 1.5,
				"crazy idea": 2.5, "wild idea": 2.5,
				"no bad ideas": 2.5, "throw out": 2.0, "building on": 1.5,
			},
			SectionLayout: "brainstorm",
		},
	})
}
