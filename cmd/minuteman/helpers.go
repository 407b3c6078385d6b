package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minuteman-notes/minuteman/internal/common"
	"github.com/minuteman-notes/minuteman/internal/config"
	"github.com/minuteman-notes/minuteman/internal/engine"
	"github.com/minuteman-notes/minuteman/internal/llm"
	"github.com/minuteman-notes/minuteman/internal/model"
	"github.com/minuteman-notes/minuteman/internal/notes"
	"github.com/minuteman-notes/minuteman/internal/storage"
	"github.com/minuteman-notes/minuteman/internal/window"
)

// remoteClient resolves and health-checks the backend for non-heuristic
// engines. In auto mode failures downgrade to offline; in remote mode
// they are fatal.
func remoteClient(ctx context.Context, settings config.Settings) (llm.Client, error) {
	if settings.Engine == "heuristic" {
		return nil, nil
	}

	client, err := buildClient(settings)
	if err == nil {
		healthCtx, cancel := context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
		if healthErr := client.HealthCheck(healthCtx); healthErr != nil {
			err = healthErr
		}
	}
	if err != nil {
		if settings.Engine == "remote" {
			return nil, err
		}
		slog.Warn("Remote backend unavailable, continuing offline", "error", err)
		return nil, nil
	}
	return client, nil
}

// buildOrchestrator wires the classification orchestrator from resolved
// settings.
func buildOrchestrator(ctx context.Context, settings config.Settings) (*engine.Orchestrator, llm.Client, error) {
	client, err := remoteClient(ctx, settings)
	if err != nil {
		return nil, nil, err
	}

	engineOpts := []engine.Option{
		engine.WithMode(engine.Mode(settings.Engine)),
		engine.WithWindowOptions(window.Options{
			InitialDuration:   time.Duration(settings.WindowInitialMinutes) * time.Minute,
			MaxMarkerSegments: settings.WindowMaxMarkerSegments,
			ContextWords:      settings.WindowContextWords,
		}),
	}
	if client != nil {
		engineOpts = append(engineOpts, engine.WithRemote(client))
	}
	return engine.NewOrchestrator(model.DefaultArchetypes(), engineOpts...), client, nil
}

// buildPipeline wires the full notes pipeline from resolved settings.
func buildPipeline(ctx context.Context, settings config.Settings) (*notes.Pipeline, error) {
	orchestrator, client, err := buildOrchestrator(ctx, settings)
	if err != nil {
		return nil, err
	}

	pipelineOpts := []notes.PipelineOption{
		notes.WithWindowOptions(window.Options{
			InitialDuration:   time.Duration(settings.WindowInitialMinutes) * time.Minute,
			MaxMarkerSegments: settings.WindowMaxMarkerSegments,
			ContextWords:      settings.WindowContextWords,
		}),
	}
	if client != nil {
		pipelineOpts = append(pipelineOpts, notes.WithRemoteExtractor(notes.NewRemoteExtractor(client)))
	}
	return notes.NewPipeline(model.DefaultArchetypes(), orchestrator, pipelineOpts...), nil
}

// buildClient constructs the configured backend wrapped with retries.
func buildClient(settings config.Settings) (llm.Client, error) {
	client, err := llm.NewClient(llm.Config{
		Backend:     settings.Backend,
		Model:       settings.Model,
		BaseURL:     settings.BaseURL,
		APIKey:      settings.APIKey,
		Timeout:     settings.Timeout,
		MaxRetries:  settings.MaxRetries,
		RetryDelay:  settings.RetryDelay,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.WithRetries(client, settings.MaxRetries, settings.RetryDelay), nil
}

// openStore opens the run-history database from settings.
func openStore(settings config.Settings) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(settings.DatabasePath)
	if err != nil {
		return nil, common.NewUserError("could not open run history", err)
	}
	return store, nil
}
