package llm

import (
	"fmt"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/model"
)

const classifySystemPrompt = "You are a meeting analysis expert. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

const extractSystemPrompt = "You extract grounded information from meeting transcripts. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

// buildClassifyPrompt renders the archetype set and transcript window into
// the classification prompt.
func buildClassifyPrompt(req ClassifyRequest) string {
	var types strings.Builder
	for _, mt := range req.Archetypes {
		fmt.Fprintf(&types, "- %s: %s\n", mt.ID, mt.DisplayName)
	}

	hints := ""
	if len(req.Hints) > 0 {
		var b strings.Builder
		b.WriteString("An offline classifier ranked these as most likely:\n")
		for _, h := range req.Hints {
			fmt.Fprintf(&b, "- %s (%.2f)\n", h.Type, h.Score)
		}
		hints = b.String()
	}

	return fmt.Sprintf(`Analyze this meeting transcript excerpt and classify its type.

Meeting Types:
%s
%s
Transcript:
%s

Respond in this exact JSON format:
{
  "type": "one of the meeting type ids above",
  "confidence": 0.0-1.0,
  "evidence": ["phrase1", "phrase2", "phrase3"],
  "focus_hints": ["what to emphasize in notes"]
}`, types.String(), hints, formatWindow(req.Window))
}

// buildExtractPrompt renders the timestamped window into the extraction
// prompt. The grounding rules are stated up front so the backend cites
// transcript timestamps for every claim.
func buildExtractPrompt(req ExtractRequest) string {
	focus := "decisions, action items, key mentions"
	if len(req.FocusAreas) > 0 {
		focus = strings.Join(req.FocusAreas, ", ")
	}

	return fmt.Sprintf(`Extract structured information from this %s meeting transcript.

CRITICAL REQUIREMENTS:
1. Use ONLY information from the transcript
2. Include start and end timestamps (seconds) for ALL extracted items
3. If you cannot find evidence in the transcript, mark the item "unclear" with a reason
4. Quote the supporting transcript text verbatim in "text"

Extract: %s

Transcript:
%s

Respond in this exact JSON format:
{
  "decisions": [
    {"text": "verbatim decision text", "start": 123, "end": 128, "status": "confirmed|unclear", "reason": "only if unclear"}
  ],
  "actions": [
    {"text": "verbatim action text", "start": 456, "end": 461, "owner": "person", "status": "confirmed|unclear"}
  ],
  "mentions": [
    {"text": "key mention", "start": 789, "end": 794, "kind": "name|url|date|number"}
  ]
}`, req.MeetingType, focus, formatWindow(req.Window))
}

// formatWindow renders segments as "[12s] Speaker: text" lines.
func formatWindow(t *model.Transcript) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, seg := range t.Segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Speaker"
		}
		fmt.Fprintf(&b, "[%ds] %s: %s\n", int(seg.Start), speaker, strings.TrimSpace(seg.Text))
	}
	return b.String()
}
