package main

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/minuteman-notes/minuteman/internal/cli"
	"github.com/minuteman-notes/minuteman/internal/config"
	"github.com/minuteman-notes/minuteman/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <transcript.json> [more transcripts...]",
		Short: "Classify meeting transcripts without generating notes",
		Long: `Classify one or more transcripts and print the detected meeting type,
confidence, and evidence for each. With multiple files a progress bar
tracks the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	orchestrator, _, err := buildOrchestrator(cmd.Context(), settings)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if len(args) > 1 {
		bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetDescription("Classifying transcripts"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var failures []string
	for _, path := range args {
		if bar != nil {
			_ = bar.Add(1)
		}

		transcript, err := model.LoadTranscript(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		outcome, err := orchestrator.Classify(cmd.Context(), transcript)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		printClassification(cmd, path, outcome.Result, outcome.DegradeReasons)
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to classify %d transcript(s):\n%s",
			len(failures), strings.Join(failures, "\n"))
	}
	return nil
}

func printClassification(cmd *cobra.Command, path string, result model.ClassificationResult, degrade []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  type:       %s\n", result.Type)
	fmt.Fprintf(out, "  engine:     %s\n", result.Engine)
	fmt.Fprintf(out, "  confidence: %.0f%%\n", result.Confidence*100)
	if len(result.Evidence) > 0 {
		fmt.Fprintf(out, "  evidence:   %s\n", strings.Join(result.Evidence, ", "))
	}
	for _, c := range result.Candidates {
		fmt.Fprintf(out, "  candidate:  %s (%.0f%%)\n", c.Type, c.Score*100)
	}
	for _, reason := range degrade {
		fmt.Fprintf(out, "  %s\n", cli.FormatWarning("degraded: "+reason))
	}
}
