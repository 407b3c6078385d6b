package notes

import (
	"fmt"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// sectionSpec describes one archetype-specific notes section: its title
// and the lexical triggers that pull a segment into it.
type sectionSpec struct {
	title    string
	keywords []string
}

// sectionLayouts maps each archetype layout to its extra sections. The
// four base sections (summary, decisions, actions, references) are not
// listed here; they are always present.
var sectionLayouts = map[string][]sectionSpec{
	"status": {
		{"Blockers", []string{"blocked", "blocker", "impediment", "waiting for", "stuck"}},
	},
	"planning": {
		{"Milestones", []string{"milestone", "deadline", "timeline", "due", "target date"}},
		{"Commitments", []string{"commit", "capacity", "velocity", "story points"}},
	},
	"design": {
		{"Trade-offs", []string{"trade-off", "tradeoff", "versus", "downside", "alternative"}},
		{"Open Questions", []string{"open question", "not sure", "unclear", "to be decided", "tbd"}},
	},
	"demo": {
		{"Feedback", []string{"feedback", "suggestion", "what if", "could you", "would be nice"}},
	},
	"talk": {
		{"Key Topics", []string{"agenda", "topic", "introducing", "overview", "takeaway"}},
		{"Questions", []string{"?"}},
	},
	"incident": {
		{"Timeline", []string{"at ", "started", "noticed", "detected", "alerted", "resolved"}},
		{"Root Cause", []string{"root cause", "caused by", "because", "due to", "turned out"}},
		{"Mitigations", []string{"mitigate", "rollback", "hotfix", "restore", "prevent", "follow up"}},
	},
	"discovery": {
		{"Findings", []string{"learned", "found", "insight", "finding", "turns out"}},
		{"Pain Points", []string{"pain point", "frustrating", "annoying", "problem", "struggle"}},
	},
	"oneonone": {
		{"Growth & Goals", []string{"career", "growth", "goal", "development", "learn"}},
		{"Concerns", []string{"concern", "worried", "frustrated", "uncomfortable", "stress"}},
	},
	"brainstorm": {
		{"Ideas", []string{"idea", "what if", "could we", "maybe we", "how about"}},
	},
}

// buildTypeSpecific scans the transcript for each section of the
// archetype's layout and returns timestamped lines per section title.
// Sections with no matching segments are omitted.
func buildTypeSpecific(layout string, t *model.Transcript) map[string][]string {
	specs, ok := sectionLayouts[layout]
	if !ok {
		return nil
	}

	out := make(map[string][]string)
	for _, spec := range specs {
		for _, seg := range t.Segments {
			if !containsAny(strings.ToLower(seg.Text), spec.keywords) {
				continue
			}
			out[spec.title] = append(out[spec.title], formatSectionLine(seg))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// formatSectionLine renders a segment as "[MM:SS] Speaker: text".
func formatSectionLine(seg model.Segment) string {
	line := fmt.Sprintf("[%s] ", FormatTimestamp(seg.Start))
	if seg.Speaker != "" {
		line += seg.Speaker + ": "
	}
	return line + strings.TrimSpace(seg.Text)
}

// FormatTimestamp renders seconds as MM:SS, or H:MM:SS past an hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
