package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"percept/internal/runner"
)

// IngestOutcome reports what happened to one results export.
type IngestOutcome struct {
	SessionID string
	Key       string
	Trials    int
	// Duplicate is set when the session was already stored.
	Duplicate bool
}

// IngestResults stores a session export with its trials and warnings.
// Re-ingesting the same session is a no-op.
func IngestResults(ctx context.Context, db *sql.DB, results runner.Results) (IngestOutcome, error) {
	if ctx == nil {
		return IngestOutcome{}, errors.New("duckdb: context is nil")
	}
	if db == nil {
		return IngestOutcome{}, errors.New("duckdb: db is nil")
	}
	key, err := FingerprintJSON(results)
	if err != nil {
		return IngestOutcome{}, err
	}
	sessionID := results.SessionID
	if sessionID == "" {
		sessionID = key
	}
	outcome := IngestOutcome{SessionID: sessionID, Key: key, Trials: len(results.Trials)}

	exists, err := sessionExists(ctx, db, sessionID, key)
	if err != nil {
		return IngestOutcome{}, err
	}
	if exists {
		outcome.Duplicate = true
		return outcome, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return IngestOutcome{}, fmt.Errorf("begin ingest: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertSession(ctx, tx, sessionID, key, results); err != nil {
		return IngestOutcome{}, err
	}
	if err := insertTrials(ctx, tx, sessionID, results); err != nil {
		return IngestOutcome{}, err
	}
	if err := insertWarnings(ctx, tx, sessionID, results); err != nil {
		return IngestOutcome{}, err
	}
	if err := tx.Commit(); err != nil {
		return IngestOutcome{}, fmt.Errorf("commit ingest: %w", err)
	}
	return outcome, nil
}

// IngestFiles reads and stores each export path in order.
func IngestFiles(ctx context.Context, db *sql.DB, paths []string) ([]IngestOutcome, error) {
	outcomes := make([]IngestOutcome, 0, len(paths))
	for _, path := range paths {
		results, err := runner.ReadResults(path)
		if err != nil {
			return outcomes, err
		}
		outcome, err := IngestResults(ctx, db, results)
		if err != nil {
			return outcomes, fmt.Errorf("ingest %s: %w", path, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func sessionExists(ctx context.Context, db *sql.DB, sessionID, key string) (bool, error) {
	var count int64
	err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM sessions WHERE session_id = ? OR results_key = ?`,
		sessionID, key,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return count > 0, nil
}

func insertSession(ctx context.Context, tx *sql.Tx, sessionID, key string, results runner.Results) error {
	s := results.Summary
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (
		   session_id, results_key, run_id, study_id, participant_id, simulated,
		   started_at, finished_at, trials_total, trials_correct, accuracy,
		   mean_reaction_ms, pass_threshold, tasks_passed, load_failures, ingested_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		key,
		results.RunID,
		results.StudyID,
		results.ParticipantID,
		results.Simulated,
		nullTime(results.StartedAt),
		nullTime(results.FinishedAt),
		s.TrialsTotal,
		s.TrialsCorrect,
		s.Accuracy,
		s.MeanReactionMs,
		s.PassThreshold,
		s.TasksPassed,
		s.LoadFailures,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func insertTrials(ctx context.Context, tx *sql.Tx, sessionID string, results runner.Results) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trials (
		   session_id, trial, stage, grid_size, group_label, selected_row, selected_column,
		   target_row, target_column, correct, reaction_time_ms, load_failures
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare trials: %w", err)
	}
	defer stmt.Close()
	for _, trial := range results.Trials {
		var group sql.NullString
		if trial.GroupLabel != "" {
			group = sql.NullString{String: trial.GroupLabel, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			sessionID,
			trial.TrialNumber,
			trial.StageIndex,
			trial.GridSize,
			group,
			trial.SelectedRow,
			trial.SelectedColumn,
			trial.TargetRow,
			trial.TargetColumn,
			trial.Correct,
			trial.ReactionTimeMs,
			trial.LoadFailures,
		); err != nil {
			return fmt.Errorf("insert trial %d: %w", trial.TrialNumber, err)
		}
	}
	return nil
}

func insertWarnings(ctx context.Context, tx *sql.Tx, sessionID string, results runner.Results) error {
	for i, warning := range results.Warnings {
		var trialID sql.NullInt64
		if warning.TrialID != 0 {
			trialID = sql.NullInt64{Int64: int64(warning.TrialID), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (session_id, seq, kind, trial_id, message) VALUES (?, ?, ?, ?, ?)`,
			sessionID, i, string(warning.Kind), trialID, warning.Message,
		); err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
