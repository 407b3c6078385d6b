package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minuteman-notes/minuteman/internal/engine"
	"github.com/minuteman-notes/minuteman/internal/grounding"
	"github.com/minuteman-notes/minuteman/internal/model"
	"github.com/minuteman-notes/minuteman/internal/window"
)

// Pipeline runs the full flow: classification, extraction, grounding
// validation, and notes assembly. Remote trouble downgrades the run to
// the offline engines; it never sinks it.
type Pipeline struct {
	archetypes   *model.Archetypes
	orchestrator *engine.Orchestrator
	builder      *window.Builder
	basic        Extractor
	remote       Extractor
	now          func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithRemoteExtractor attaches the backend extractor. Without one the
// offline extractor handles every run.
func WithRemoteExtractor(e Extractor) PipelineOption {
	return func(p *Pipeline) { p.remote = e }
}

// WithWindowOptions overrides the transcript window parameters used for
// remote extraction.
func WithWindowOptions(opts window.Options) PipelineOption {
	return func(p *Pipeline) { p.builder = window.NewBuilder(opts) }
}

// WithPipelineClock overrides the timestamp source. Used by tests.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline assembles a pipeline around a classification orchestrator.
func NewPipeline(archetypes *model.Archetypes, orchestrator *engine.Orchestrator, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		archetypes:   archetypes,
		orchestrator: orchestrator,
		builder:      window.NewBuilder(window.Options{}),
		basic:        NewBasicExtractor(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateOptions tunes one pipeline run.
type GenerateOptions struct {
	// ManualType skips classification and pins the meeting type. The
	// provenance records the manual engine.
	ManualType model.MeetingTypeID
}

// Generate produces grounded meeting notes for the transcript. The
// provenance in the result always names the engines that actually ran.
func (p *Pipeline) Generate(ctx context.Context, t *model.Transcript, opts GenerateOptions) (model.MeetingNotes, error) {
	if err := t.Validate(); err != nil {
		return model.MeetingNotes{}, err
	}

	var (
		result     model.ClassificationResult
		degrade    []string
		focusHints []string
		overridden bool
	)

	if opts.ManualType != "" {
		if _, ok := p.archetypes.Get(opts.ManualType); !ok && opts.ManualType != model.TypeUnclassifiable {
			return model.MeetingNotes{}, fmt.Errorf("unknown meeting type %q", opts.ManualType)
		}
		overridden = true
		result = model.ClassificationResult{
			Timestamp:  p.now(),
			Type:       opts.ManualType,
			Engine:     model.EngineManual,
			Evidence:   []string{"manually selected"},
			Confidence: 1.0,
		}
	} else {
		outcome, err := p.orchestrator.Classify(ctx, t)
		if err != nil {
			return model.MeetingNotes{}, err
		}
		result = outcome.Result
		degrade = outcome.DegradeReasons
		focusHints = outcome.FocusHints
	}

	extraction := p.extract(ctx, t, result.Type, focusHints, &degrade)

	validator := grounding.NewValidator(t)
	decisions := validator.ValidateItems(model.CategoryDecision, extraction.Decisions)
	actions := validator.ValidateItems(model.CategoryActionItem, extraction.Actions)
	mentions := validator.ValidateItems(model.CategoryMention, extraction.Mentions)

	meetingType, ok := p.archetypes.Get(result.Type)
	if !ok {
		meetingType = model.MeetingType{ID: result.Type, DisplayName: "Unclassified"}
	}

	return model.MeetingNotes{
		MeetingType:    meetingType,
		Classification: result,
		Overridden:     overridden,
		EngineInfo: model.EngineInfo{
			Classifier:     result.Engine,
			Extractor:      extraction.Engine,
			DegradeReasons: degrade,
		},
		Decisions:    emptyNotNil(decisions),
		ActionItems:  emptyNotNil(actions),
		Mentions:     emptyNotNil(mentions),
		TypeSpecific: buildTypeSpecific(meetingType.SectionLayout, t),
		References:   model.CollectReferences(decisions, actions, mentions),
	}, nil
}

// extract runs the remote extractor when attached, downgrading to the
// offline one on any failure. The backend only ever sees the bounded
// window; the offline extractor works on the whole transcript.
func (p *Pipeline) extract(ctx context.Context, t *model.Transcript, meetingType model.MeetingTypeID, focus []string, degrade *[]string) Extraction {
	if p.remote != nil {
		ext, err := p.remote.Extract(ctx, p.builder.Build(t), meetingType, focus)
		if err == nil {
			return ext
		}
		reason := fmt.Sprintf("remote extraction failed: %v", err)
		slog.Warn("Falling back to offline extractor", "reason", reason)
		*degrade = append(*degrade, reason)
	}

	ext, err := p.basic.Extract(ctx, t, meetingType, focus)
	if err != nil {
		// The offline extractor has no failure modes today; guard anyway.
		slog.Error("Offline extraction failed", "error", err)
		return Extraction{Engine: model.EngineHeuristic}
	}
	return ext
}

func emptyNotNil(items []model.GroundedItem) []model.GroundedItem {
	if items == nil {
		return []model.GroundedItem{}
	}
	return items
}
