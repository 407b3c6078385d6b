// Package engine coordinates classification across the offline heuristic
// and the optional remote backend, degrading gracefully when the remote
// side misbehaves.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/minuteman-notes/minuteman/internal/common"
	"github.com/minuteman-notes/minuteman/internal/heuristic"
	"github.com/minuteman-notes/minuteman/internal/llm"
	"github.com/minuteman-notes/minuteman/internal/model"
	"github.com/minuteman-notes/minuteman/internal/window"
)

// Mode selects which engines participate in classification.
type Mode string

const (
	// ModeHeuristic uses only the offline classifier.
	ModeHeuristic Mode = "heuristic"
	// ModeRemote requires the remote backend and fails without it.
	ModeRemote Mode = "remote"
	// ModeAuto prefers the remote backend and falls back to the
	// heuristic when it is unavailable or returns garbage.
	ModeAuto Mode = "auto"
)

// Outcome is a classification plus its provenance trail.
type Outcome struct {
	Result model.ClassificationResult
	// DegradeReasons records why the remote engine was bypassed, one
	// entry per degradation.
	DegradeReasons []string
	// FocusHints are extraction hints the remote classifier offered.
	FocusHints []string
}

// Orchestrator runs the classification pipeline: window construction,
// heuristic pass, optional remote pass, and fallback bookkeeping.
type Orchestrator struct {
	archetypes *model.Archetypes
	builder    *window.Builder
	offline    *heuristic.Classifier
	remote     llm.Client
	mode       Mode
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRemote attaches a remote backend. Without one, ModeRemote fails
// and ModeAuto silently behaves like ModeHeuristic.
func WithRemote(client llm.Client) Option {
	return func(o *Orchestrator) { o.remote = client }
}

// WithMode selects the engine mode. Defaults to ModeHeuristic.
func WithMode(mode Mode) Option {
	return func(o *Orchestrator) { o.mode = mode }
}

// WithWindowOptions overrides the transcript window parameters.
func WithWindowOptions(opts window.Options) Option {
	return func(o *Orchestrator) { o.builder = window.NewBuilder(opts) }
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
		o.offline = o.offline.WithClock(now)
	}
}

// NewOrchestrator builds an orchestrator over the given archetypes.
func NewOrchestrator(archetypes *model.Archetypes, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		archetypes: archetypes,
		builder:    window.NewBuilder(window.Options{}),
		offline:    heuristic.NewClassifier(archetypes),
		mode:       ModeHeuristic,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Classify validates the transcript, builds the classification window,
// and runs the configured engines. The returned result always names the
// engine that actually produced it.
func (o *Orchestrator) Classify(ctx context.Context, t *model.Transcript) (Outcome, error) {
	if err := t.Validate(); err != nil {
		return Outcome{}, err
	}

	win := o.builder.Build(t)
	offline := o.offline.Classify(win)

	switch o.mode {
	case ModeHeuristic:
		return Outcome{Result: offline}, nil

	case ModeRemote:
		if o.remote == nil {
			return Outcome{}, fmt.Errorf("%w: remote mode requires a backend", common.ErrMissingConfig)
		}
		outcome, err := o.classifyRemote(ctx, win, offline)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
		}
		return outcome, nil

	case ModeAuto:
		if o.remote == nil {
			return Outcome{Result: offline}, nil
		}
		outcome, err := o.classifyRemote(ctx, win, offline)
		if err != nil {
			reason := fmt.Sprintf("remote classification failed: %v", err)
			slog.Warn("Falling back to heuristic classifier", "reason", reason)
			return Outcome{Result: offline, DegradeReasons: []string{reason}}, nil
		}
		return outcome, nil

	default:
		return Outcome{}, fmt.Errorf("%w: unknown engine mode %q", common.ErrInvalidConfig, o.mode)
	}
}

// classifyRemote runs the remote pass, allowing one fresh attempt when
// the backend answers cleanly but breaks the response contract. Transport
// failures are already retried inside the client and are not retried
// again here.
func (o *Orchestrator) classifyRemote(ctx context.Context, win *model.Transcript, offline model.ClassificationResult) (Outcome, error) {
	outcome, err := o.attemptRemote(ctx, win, offline)
	if err != nil && isContractError(err) {
		slog.Warn("Backend broke the classification contract, retrying once", "error", err)
		outcome, err = o.attemptRemote(ctx, win, offline)
	}
	return outcome, err
}

// isContractError reports whether the backend answered but the answer
// violated the response contract.
func isContractError(err error) bool {
	return errors.Is(err, common.ErrUnknownMeetingType) ||
		errors.Is(err, common.ErrMalformedResponse)
}

// attemptRemote asks the backend to classify the window, seeded with the
// heuristic ranking as hints, and validates the answer against the closed
// archetype set.
func (o *Orchestrator) attemptRemote(ctx context.Context, win *model.Transcript, offline model.ClassificationResult) (Outcome, error) {
	hints := append([]model.Candidate{{Type: offline.Type, Score: offline.Confidence}}, offline.Candidates...)

	resp, err := o.remote.Classify(ctx, llm.ClassifyRequest{
		Archetypes: o.archetypes.All(),
		Window:     win,
		Hints:      hints,
	})
	if err != nil {
		return Outcome{}, err
	}

	typeID := model.MeetingTypeID(resp.Type)
	if _, ok := o.archetypes.Get(typeID); !ok && typeID != model.TypeUnclassifiable {
		return Outcome{}, fmt.Errorf("%w: %q", common.ErrUnknownMeetingType, resp.Type)
	}

	result := model.ClassificationResult{
		Timestamp:  o.now(),
		Type:       typeID,
		Engine:     model.EngineRemote,
		Evidence:   resp.Evidence,
		Confidence: resp.Confidence,
		Candidates: remoteCandidates(resp, offline),
	}
	if err := result.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return Outcome{Result: result, FocusHints: resp.FocusHints}, nil
}

// remoteCandidates fills the alternatives list from the heuristic ranking
// since the backend only names its single best type. Scores are capped at
// the remote confidence so the primary stays on top.
func remoteCandidates(resp llm.ClassifyResponse, offline model.ClassificationResult) []model.Candidate {
	seen := map[model.MeetingTypeID]bool{model.MeetingTypeID(resp.Type): true}
	ranked := append([]model.Candidate{{Type: offline.Type, Score: offline.Confidence}}, offline.Candidates...)

	out := make([]model.Candidate, 0, len(ranked))
	for _, c := range ranked {
		if seen[c.Type] {
			continue
		}
		seen[c.Type] = true
		score := c.Score
		if score > resp.Confidence {
			score = resp.Confidence
		}
		out = append(out, model.Candidate{Type: c.Type, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
