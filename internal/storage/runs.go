package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID             string
	TranscriptPath string
	MeetingType    model.MeetingTypeID
	Classifier     string
	Extractor      string
	Confidence     float64
	Overridden     bool
	Decisions      int
	Actions        int
	Mentions       int
	DegradeReasons []string
	CreatedAt      time.Time
}

// RecordRun persists a pipeline run and returns its generated id.
func (s *SQLiteStore) RecordRun(ctx context.Context, transcriptPath string, n model.MeetingNotes) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, transcript_path, meeting_type, classifier, extractor,
			confidence, overridden, decisions, actions, mentions, degrade_reasons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		transcriptPath,
		string(n.MeetingType.ID),
		n.EngineInfo.Classifier,
		n.EngineInfo.Extractor,
		n.Classification.Confidence,
		n.Overridden,
		len(n.Decisions),
		len(n.ActionItems),
		len(n.Mentions),
		strings.Join(n.EngineInfo.DegradeReasons, "\n"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transcript_path, meeting_type, classifier, extractor,
			confidence, overridden, decisions, actions, mentions, degrade_reasons, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			mt      string
			degrade sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.TranscriptPath, &mt, &r.Classifier, &r.Extractor,
			&r.Confidence, &r.Overridden, &r.Decisions, &r.Actions, &r.Mentions,
			&degrade, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.MeetingType = model.MeetingTypeID(mt)
		if degrade.Valid && degrade.String != "" {
			r.DegradeReasons = strings.Split(degrade.String, "\n")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveOverride pins the meeting type for a transcript path. Later runs
// for the same path use the pinned type.
func (s *SQLiteStore) SaveOverride(ctx context.Context, transcriptPath string, meetingType model.MeetingTypeID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO overrides (transcript_path, meeting_type, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(transcript_path) DO UPDATE SET
			meeting_type = excluded.meeting_type,
			updated_at = CURRENT_TIMESTAMP`,
		transcriptPath, string(meetingType))
	if err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}
	return nil
}

// GetOverride returns the pinned meeting type for a transcript path, or
// empty when none is recorded.
func (s *SQLiteStore) GetOverride(ctx context.Context, transcriptPath string) (model.MeetingTypeID, error) {
	var mt string
	err := s.db.QueryRowContext(ctx,
		`SELECT meeting_type FROM overrides WHERE transcript_path = ?`,
		transcriptPath).Scan(&mt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get override: %w", err)
	}
	return model.MeetingTypeID(mt), nil
}

// DeleteOverride removes the pinned type for a transcript path.
func (s *SQLiteStore) DeleteOverride(ctx context.Context, transcriptPath string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE transcript_path = ?`, transcriptPath); err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	return nil
}
