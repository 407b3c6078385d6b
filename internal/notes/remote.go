package notes

import (
	"context"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/llm"
	"github.com/minuteman-notes/minuteman/internal/model"
)

// RemoteExtractor asks the backend for claims. Its output is untrusted
// until the grounding validator has seen it.
type RemoteExtractor struct {
	client llm.Client
}

// NewRemoteExtractor wraps a backend client.
func NewRemoteExtractor(client llm.Client) *RemoteExtractor {
	return &RemoteExtractor{client: client}
}

// Extract requests structured claims for the window and converts them to
// grounded items carrying the timestamps the backend cited.
func (e *RemoteExtractor) Extract(ctx context.Context, t *model.Transcript, meetingType model.MeetingTypeID, focus []string) (Extraction, error) {
	resp, err := e.client.Extract(ctx, llm.ExtractRequest{
		Window:      t,
		MeetingType: meetingType,
		FocusAreas:  focus,
	})
	if err != nil {
		return Extraction{}, err
	}

	return Extraction{
		Engine:    model.EngineRemote,
		Decisions: convertItems(resp.Decisions, model.CategoryDecision),
		Actions:   convertItems(resp.Actions, model.CategoryActionItem),
		Mentions:  convertItems(resp.Mentions, model.CategoryMention),
	}, nil
}

func convertItems(items []llm.ExtractedItem, category string) []model.GroundedItem {
	out := make([]model.GroundedItem, 0, len(items))
	for _, item := range items {
		status := item.Status
		if status != model.StatusUnclear {
			status = model.StatusConfirmed
		}
		var meta map[string]string
		if item.Owner != "" || item.Kind != "" {
			meta = map[string]string{}
			if item.Owner != "" {
				meta["owner"] = item.Owner
			}
			if item.Kind != "" {
				meta["kind"] = item.Kind
			}
		}
		out = append(out, model.GroundedItem{
			Text:     strings.TrimSpace(item.Text),
			Status:   status,
			Reason:   item.Reason,
			Category: category,
			Metadata: meta,
			References: []model.TranscriptReference{{
				Start:   item.Start,
				End:     item.End,
				Excerpt: strings.TrimSpace(item.Text),
			}},
		})
	}
	return out
}
