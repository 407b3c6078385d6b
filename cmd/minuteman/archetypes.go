package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minuteman-notes/minuteman/internal/cli"
	"github.com/minuteman-notes/minuteman/internal/model"
)

func archetypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archetypes",
		Short: "List the meeting archetypes and their signals",
		RunE:  runArchetypes,
	}
	cmd.Flags().Bool("keywords", false, "show the keyword weights per archetype")
	return cmd
}

func runArchetypes(cmd *cobra.Command, _ []string) error {
	showKeywords, _ := cmd.Flags().GetBool("keywords")
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatTitle("Meeting archetypes"))
	for _, mt := range model.DefaultArchetypes().All() {
		fmt.Fprintf(out, "%-12s %s\n", mt.ID, mt.DisplayName)
		if !showKeywords {
			continue
		}
		keywords := make([]string, 0, len(mt.Keywords))
		for kw, weight := range mt.Keywords {
			keywords = append(keywords, fmt.Sprintf("%s (%.1f)", kw, weight))
		}
		sort.Strings(keywords)
		fmt.Fprintf(out, "             %s\n", strings.Join(keywords, ", "))
	}
	return nil
}
