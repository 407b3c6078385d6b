package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteman-notes/minuteman/internal/common"
	"github.com/minuteman-notes/minuteman/internal/llm"
	"github.com/minuteman-notes/minuteman/internal/model"
)

// stubClient is a deterministic backend for orchestrator tests. When a
// scripted response queue is set it is consumed call by call, with the
// final entry repeating once the queue runs out.
type stubClient struct {
	classifyResp llm.ClassifyResponse
	responses    []llm.ClassifyResponse
	classifyErr  error
	calls        int
}

func (s *stubClient) Classify(ctx context.Context, req llm.ClassifyRequest) (llm.ClassifyResponse, error) {
	s.calls++
	if s.classifyErr != nil {
		return llm.ClassifyResponse{}, s.classifyErr
	}
	if len(s.responses) > 0 {
		resp := s.responses[0]
		if len(s.responses) > 1 {
			s.responses = s.responses[1:]
		}
		return resp, nil
	}
	return s.classifyResp, nil
}

func (s *stubClient) Extract(ctx context.Context, req llm.ExtractRequest) (llm.ExtractResponse, error) {
	return llm.ExtractResponse{}, nil
}

func (s *stubClient) HealthCheck(ctx context.Context) error { return nil }
func (s *stubClient) ModelName() string                     { return "stub" }

func standupTranscript() *model.Transcript {
	return &model.Transcript{
		Segments: []model.Segment{
			{Start: 0, End: 15, Text: "Morning standup, let's go around with status updates.", Speaker: "Alice"},
			{Start: 15, End: 40, Text: "Yesterday I finished the migration, today I'm working on the API, no blockers.", Speaker: "Bob"},
			{Start: 40, End: 60, Text: "I'm blocked on the review, otherwise sprint progress is fine.", Speaker: "Carol"},
		},
	}
}

func fixedClock() func() time.Time {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestClassifyHeuristicMode(t *testing.T) {
	o := NewOrchestrator(model.DefaultArchetypes(), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.TypeStatus, outcome.Result.Type)
	assert.Equal(t, model.EngineHeuristic, outcome.Result.Engine)
	assert.Empty(t, outcome.DegradeReasons)
	require.NoError(t, outcome.Result.Validate())
}

func TestClassifyIsDeterministic(t *testing.T) {
	clock := fixedClock()
	first := NewOrchestrator(model.DefaultArchetypes(), WithClock(clock))
	second := NewOrchestrator(model.DefaultArchetypes(), WithClock(clock))

	a, err := first.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	b, err := second.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClassifyRejectsEmptyTranscript(t *testing.T) {
	o := NewOrchestrator(model.DefaultArchetypes())

	_, err := o.Classify(context.Background(), &model.Transcript{})
	assert.ErrorIs(t, err, model.ErrEmptyTranscript)
}

func TestClassifyAutoPrefersRemote(t *testing.T) {
	stub := &stubClient{classifyResp: llm.ClassifyResponse{
		Type:       "planning",
		Confidence: 0.85,
		Evidence:   []string{"sprint planning", "estimate"},
		FocusHints: []string{"committed scope"},
	}}
	o := NewOrchestrator(model.DefaultArchetypes(),
		WithMode(ModeAuto), WithRemote(stub), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.TypePlanning, outcome.Result.Type)
	assert.Equal(t, model.EngineRemote, outcome.Result.Engine)
	assert.Equal(t, []string{"committed scope"}, outcome.FocusHints)
	assert.Empty(t, outcome.DegradeReasons)
	require.NoError(t, outcome.Result.Validate())
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyAutoFallsBackWhenBackendDown(t *testing.T) {
	stub := &stubClient{classifyErr: fmt.Errorf("%w: connection refused", common.ErrBackendUnavailable)}
	o := NewOrchestrator(model.DefaultArchetypes(),
		WithMode(ModeAuto), WithRemote(stub), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.EngineHeuristic, outcome.Result.Engine)
	assert.Equal(t, model.TypeStatus, outcome.Result.Type)
	require.Len(t, outcome.DegradeReasons, 1)
	assert.Contains(t, outcome.DegradeReasons[0], "remote classification failed")
	// Transport failures are retried inside the client, not here.
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyAutoFallsBackOnUnknownType(t *testing.T) {
	stub := &stubClient{classifyResp: llm.ClassifyResponse{
		Type:       "retrospective",
		Confidence: 0.9,
		Evidence:   []string{"went well"},
	}}
	o := NewOrchestrator(model.DefaultArchetypes(),
		WithMode(ModeAuto), WithRemote(stub), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.EngineHeuristic, outcome.Result.Engine)
	require.Len(t, outcome.DegradeReasons, 1)
	assert.Contains(t, outcome.DegradeReasons[0], "unknown meeting type")
	// A contract violation earns exactly one fresh attempt.
	assert.Equal(t, 2, stub.calls)
}

func TestClassifyRecoversOnSecondAttemptAfterContractViolation(t *testing.T) {
	stub := &stubClient{responses: []llm.ClassifyResponse{
		{Type: "retrospective", Confidence: 0.9, Evidence: []string{"went well"}},
		{Type: "planning", Confidence: 0.85, Evidence: []string{"sprint planning"}},
	}}
	o := NewOrchestrator(model.DefaultArchetypes(),
		WithMode(ModeAuto), WithRemote(stub), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.TypePlanning, outcome.Result.Type)
	assert.Equal(t, model.EngineRemote, outcome.Result.Engine)
	assert.Empty(t, outcome.DegradeReasons)
	assert.Equal(t, 2, stub.calls)
}

func TestClassifyAutoWithoutBackendActsHeuristic(t *testing.T) {
	o := NewOrchestrator(model.DefaultArchetypes(), WithMode(ModeAuto), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.EngineHeuristic, outcome.Result.Engine)
	assert.Empty(t, outcome.DegradeReasons)
}

func TestClassifyRemoteModeFailsWithoutBackend(t *testing.T) {
	o := NewOrchestrator(model.DefaultArchetypes(), WithMode(ModeRemote))

	_, err := o.Classify(context.Background(), standupTranscript())
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestClassifyRemoteModeSurfacesBackendFailure(t *testing.T) {
	stub := &stubClient{classifyErr: errors.New("boom")}
	o := NewOrchestrator(model.DefaultArchetypes(), WithMode(ModeRemote), WithRemote(stub))

	_, err := o.Classify(context.Background(), standupTranscript())
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
}

func TestRemoteCandidatesStayBelowPrimary(t *testing.T) {
	stub := &stubClient{classifyResp: llm.ClassifyResponse{
		Type:       "status",
		Confidence: 0.3,
		Evidence:   []string{"standup"},
	}}
	o := NewOrchestrator(model.DefaultArchetypes(),
		WithMode(ModeAuto), WithRemote(stub), WithClock(fixedClock()))

	outcome, err := o.Classify(context.Background(), standupTranscript())
	require.NoError(t, err)
	assert.Equal(t, model.EngineRemote, outcome.Result.Engine)
	require.NoError(t, outcome.Result.Validate())
	for _, c := range outcome.Result.Candidates {
		assert.LessOrEqual(t, c.Score, outcome.Result.Confidence)
		assert.NotEqual(t, outcome.Result.Type, c.Type)
	}
	// Low confidence always carries enough alternatives to review.
	assert.GreaterOrEqual(t, len(outcome.Result.Candidates), 3)
}
