// Package llm wraps pluggable remote text-generation backends behind one
// strict contract used for both classification and notes extraction.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Client defines the interface for remote model backends. Concrete
// backends are selected at construction by configuration, never by
// runtime type inspection.
type Client interface {
	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error)
	Extract(ctx context.Context, req ExtractRequest) (ExtractResponse, error)
	HealthCheck(ctx context.Context) error
	ModelName() string
}

// ClassifyRequest carries the archetype set and transcript window, plus
// optional heuristic hints.
type ClassifyRequest struct {
	Archetypes []model.MeetingType
	Window     *model.Transcript
	Hints      []model.Candidate
}

// ClassifyResponse is the strict classification response shape.
type ClassifyResponse struct {
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
	FocusHints []string `json:"focus_hints,omitempty"`
}

// ExtractRequest carries the transcript window and the archetype context
// for notes extraction.
type ExtractRequest struct {
	Window      *model.Transcript
	MeetingType model.MeetingTypeID
	FocusAreas  []string
}

// ExtractedItem is one claim as returned by the backend. Timestamps refer
// to the transcript; the grounding validator decides whether they hold.
type ExtractedItem struct {
	Text   string  `json:"text"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Owner  string  `json:"owner,omitempty"`
	Kind   string  `json:"kind,omitempty"`
	Status string  `json:"status,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// ExtractResponse is the strict extraction response shape.
type ExtractResponse struct {
	Decisions []ExtractedItem `json:"decisions"`
	Actions   []ExtractedItem `json:"actions"`
	Mentions  []ExtractedItem `json:"mentions"`
}

// Config holds remote backend configuration. API keys come from the
// environment; this value must never carry secret material into logs or
// persisted artifacts.
type Config struct {
	Backend     string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	Temperature float64
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	return c
}

// NewClient creates the backend selected by cfg.Backend.
func NewClient(cfg Config) (Client, error) {
	cfg = cfg.withDefaults()
	switch strings.ToLower(cfg.Backend) {
	case "openai":
		return newOpenAIClient(cfg)
	case "ollama":
		return newOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", cfg.Backend)
	}
}
