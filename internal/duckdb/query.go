package duckdb

import (
	"context"
	"database/sql"
	"fmt"
)

// Accuracy aggregates trials sharing a grid size or group.
type Accuracy struct {
	GridSize       int
	GroupLabel     string
	Trials         int64
	Correct        int64
	MeanReactionMs float64
}

// Rate returns the fraction of correct trials.
func (a Accuracy) Rate() float64 {
	if a.Trials == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Trials)
}

// AccuracyByGrid returns per-grid-size accuracy for a study, smallest grid first.
func AccuracyByGrid(ctx context.Context, db *sql.DB, studyID string) ([]Accuracy, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT grid_size, trials, correct, mean_reaction_ms
		 FROM v_accuracy_by_grid WHERE study_id = ? ORDER BY grid_size`, studyID)
	if err != nil {
		return nil, fmt.Errorf("query accuracy by grid: %w", err)
	}
	defer rows.Close()
	var out []Accuracy
	for rows.Next() {
		var a Accuracy
		if err := rows.Scan(&a.GridSize, &a.Trials, &a.Correct, &a.MeanReactionMs); err != nil {
			return nil, fmt.Errorf("scan accuracy by grid: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AccuracyByGroup returns per-group accuracy for a study. Trials without a
// group are reported under the empty label.
func AccuracyByGroup(ctx context.Context, db *sql.DB, studyID string) ([]Accuracy, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT group_label, trials, correct, mean_reaction_ms
		 FROM v_accuracy_by_group WHERE study_id = ? ORDER BY group_label`, studyID)
	if err != nil {
		return nil, fmt.Errorf("query accuracy by group: %w", err)
	}
	defer rows.Close()
	var out []Accuracy
	for rows.Next() {
		var a Accuracy
		if err := rows.Scan(&a.GroupLabel, &a.Trials, &a.Correct, &a.MeanReactionMs); err != nil {
			return nil, fmt.Errorf("scan accuracy by group: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SessionCount returns how many sessions of a study are stored.
func SessionCount(ctx context.Context, db *sql.DB, studyID string) (int64, error) {
	var count int64
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM sessions WHERE study_id = ?`, studyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}
