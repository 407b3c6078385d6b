package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minuteman-notes/minuteman/internal/cli"
	"github.com/minuteman-notes/minuteman/internal/config"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", 20, "number of runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Recent runs"))
	for _, r := range runs {
		flags := ""
		if r.Overridden {
			flags = " [overridden]"
		}
		if len(r.DegradeReasons) > 0 {
			flags += " [degraded]"
		}
		fmt.Fprintf(out, "%s  %-12s %3.0f%%  %dd/%da/%dm  %s%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.MeetingType,
			r.Confidence*100,
			r.Decisions, r.Actions, r.Mentions,
			r.TranscriptPath,
			flags)
		for _, reason := range r.DegradeReasons {
			fmt.Fprintf(out, "    %s\n", strings.TrimSpace(reason))
		}
	}
	return nil
}
