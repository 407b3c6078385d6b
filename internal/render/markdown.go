// Package render turns meeting notes into their output documents.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/model"
	"github.com/minuteman-notes/minuteman/internal/notes"
)

const nonePlaceholder = "_None found._"

// Markdown renders notes as a markdown document. The section order is
// fixed: header, decisions, action items, archetype sections, mentions,
// references. Empty sections render a placeholder instead of vanishing
// so readers can tell "nothing found" from "not looked for".
func Markdown(n model.MeetingNotes) string {
	var b strings.Builder

	title := n.MeetingType.DisplayName
	if title == "" {
		title = string(n.MeetingType.ID)
	}
	fmt.Fprintf(&b, "# Meeting Notes: %s\n\n", title)

	writeProvenance(&b, n)

	b.WriteString("## Decisions\n\n")
	writeItems(&b, n.Decisions)

	b.WriteString("## Action Items\n\n")
	writeItems(&b, n.ActionItems)

	writeTypeSpecific(&b, n.TypeSpecific)

	b.WriteString("## Mentions\n\n")
	writeItems(&b, n.Mentions)

	b.WriteString("## References\n\n")
	if len(n.References) == 0 {
		b.WriteString(nonePlaceholder + "\n")
	}
	for _, ref := range n.References {
		fmt.Fprintf(&b, "- `%s-%s`", notes.FormatTimestamp(ref.Start), notes.FormatTimestamp(ref.End))
		if ref.Speaker != "" {
			fmt.Fprintf(&b, " %s:", ref.Speaker)
		}
		if ref.Excerpt != "" {
			fmt.Fprintf(&b, " %q", ref.Excerpt)
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func writeProvenance(b *strings.Builder, n model.MeetingNotes) {
	fmt.Fprintf(b, "- **Type:** %s", n.MeetingType.ID)
	if n.Overridden {
		b.WriteString(" (manually selected)")
	}
	b.WriteByte('\n')
	fmt.Fprintf(b, "- **Confidence:** %.0f%%\n", n.Classification.Confidence*100)
	fmt.Fprintf(b, "- **Engines:** classifier=%s extractor=%s\n", n.EngineInfo.Classifier, n.EngineInfo.Extractor)
	for _, reason := range n.EngineInfo.DegradeReasons {
		fmt.Fprintf(b, "- **Degraded:** %s\n", reason)
	}
	if len(n.Classification.Evidence) > 0 && !n.Overridden {
		fmt.Fprintf(b, "- **Evidence:** %s\n", strings.Join(n.Classification.Evidence, ", "))
	}
	b.WriteByte('\n')
}

func writeItems(b *strings.Builder, items []model.GroundedItem) {
	if len(items) == 0 {
		b.WriteString(nonePlaceholder + "\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s", item.Text)
		if owner := item.Metadata["owner"]; owner != "" {
			fmt.Fprintf(b, " (owner: %s)", owner)
		}
		if item.Status == model.StatusUnclear {
			fmt.Fprintf(b, " (*unclear: %s*)", item.Reason)
		}
		for _, ref := range item.References {
			if ref.Excerpt == "" && ref.Start == 0 && ref.End == 0 {
				continue
			}
			fmt.Fprintf(b, " `[%s-%s]`", notes.FormatTimestamp(ref.Start), notes.FormatTimestamp(ref.End))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func writeTypeSpecific(b *strings.Builder, sections map[string][]string) {
	if len(sections) == 0 {
		return
	}
	titles := make([]string, 0, len(sections))
	for title := range sections {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, title := range titles {
		fmt.Fprintf(b, "## %s\n\n", title)
		for _, line := range sections[title] {
			fmt.Fprintf(b, "- %s\n", line)
		}
		b.WriteByte('\n')
	}
}
