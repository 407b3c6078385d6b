package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minuteman-notes/minuteman/internal/cli"
	"github.com/minuteman-notes/minuteman/internal/common"
	"github.com/minuteman-notes/minuteman/internal/config"
	"github.com/minuteman-notes/minuteman/internal/gate"
	"github.com/minuteman-notes/minuteman/internal/model"
	"github.com/minuteman-notes/minuteman/internal/notes"
	"github.com/minuteman-notes/minuteman/internal/render"
	"github.com/minuteman-notes/minuteman/internal/storage"
)

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes <transcript.json>",
		Short: "Generate grounded meeting notes from a transcript",
		Long: `Classify the transcript, extract decisions, action items, and mentions,
and render them as markdown. Every item cites the transcript span it
came from.

Low-confidence classifications prompt for confirmation; pass --yes to
accept the best guess without prompting, or --type to pin the meeting
type outright.`,
		Args: cobra.ExactArgs(1),
		RunE: runNotes,
	}
	cmd.Flags().StringP("type", "t", "", "pin the meeting type instead of classifying")
	cmd.Flags().StringP("output", "o", "", "write markdown to a file instead of stdout")
	cmd.Flags().BoolP("yes", "y", false, "accept the classification without prompting")
	cmd.Flags().Bool("no-history", false, "skip recording this run")
	return cmd
}

func runNotes(cmd *cobra.Command, args []string) error {
	path := args[0]

	settings, err := config.Load()
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cmd.Context(), settings)
	if err != nil {
		return err
	}

	transcript, err := model.LoadTranscript(path)
	if err != nil {
		return err
	}

	manualType, _ := cmd.Flags().GetString("type")
	skipConfirm, _ := cmd.Flags().GetBool("yes")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	store, storeErr := openStore(settings)
	if storeErr != nil {
		slog.Warn("Run history unavailable", "error", storeErr)
	} else {
		defer func() { _ = store.Close() }()
	}

	// A stored override pins the type for this transcript unless the
	// flag names one explicitly.
	if manualType == "" && store != nil {
		pinned, err := store.GetOverride(cmd.Context(), path)
		if err != nil {
			slog.Warn("Failed to look up override", "error", err)
		} else if pinned != "" {
			slog.Info("Using pinned meeting type", "type", pinned)
			manualType = string(pinned)
		}
	}

	result, err := pipeline.Generate(cmd.Context(), transcript, notes.GenerateOptions{
		ManualType: model.MeetingTypeID(manualType),
	})
	if err != nil {
		return err
	}

	if manualType == "" && !skipConfirm {
		result, err = confirmIfNeeded(cmd, pipeline, transcript, path, store, result)
		if err != nil {
			return err
		}
	}

	markdown := render.Markdown(result)

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(markdown), 0o644); err != nil {
			return common.NewUserError("could not write notes to "+outputPath, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Notes written to "+outputPath))
	} else {
		fmt.Fprint(cmd.OutOrStdout(), markdown)
	}

	if store != nil && !noHistory {
		if _, err := store.RecordRun(cmd.Context(), path, result); err != nil {
			slog.Warn("Failed to record run", "error", err)
		}
	}
	return nil
}

// confirmIfNeeded routes the classification through the selection gate
// and prompts when the confidence calls for it. A choice differing from
// the classified type reruns the pipeline with the pick pinned and
// stores it as an override.
func confirmIfNeeded(cmd *cobra.Command, pipeline *notes.Pipeline, transcript *model.Transcript, path string, store *storage.SQLiteStore, result model.MeetingNotes) (model.MeetingNotes, error) {
	decision := gate.Route(result.Classification)
	if decision.Mode == gate.ModeAutoAccept {
		return result, nil
	}

	title := "Confirm meeting type"
	if decision.Mode == gate.ModeMustReview {
		title = "Low confidence, pick the meeting type"
	}

	archetypes := model.DefaultArchetypes()
	choices := make([]cli.Choice, 0, len(decision.Choices))
	for _, c := range decision.Choices {
		name := string(c.Type)
		if mt, ok := archetypes.Get(c.Type); ok {
			name = mt.DisplayName
		}
		choices = append(choices, cli.Choice{Type: c.Type, DisplayName: name, Score: c.Score})
	}

	picked, err := cli.ConfirmMeetingType(title, choices)
	if err != nil {
		return model.MeetingNotes{}, err
	}
	if picked == result.Classification.Type {
		return result, nil
	}

	if store != nil {
		if err := store.SaveOverride(cmd.Context(), path, picked); err != nil {
			slog.Warn("Failed to save override", "error", err)
		}
	}
	return pipeline.Generate(cmd.Context(), transcript, notes.GenerateOptions{ManualType: picked})
}
