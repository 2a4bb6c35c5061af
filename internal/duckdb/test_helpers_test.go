package duckdb_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"percept/internal/duckdb/testing"
	"percept/internal/engine"
	"percept/internal/runner"
	"percept/internal/testutil"
)

const (
	testTimeout = 5 * time.Second
)

// openTestDB opens an in-memory warehouse and a context bounded by the test.
func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	return duckdbtesting.Warehouse(t), testutil.Context(t, testTimeout)
}

// sessionResults builds an export with 2x2 and 3x3 trials split across groups.
func sessionResults(sessionID, participant string, correct func(i int) bool) runner.Results {
	start := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
	results := runner.Results{
		ParticipantID: participant,
		SessionID:     sessionID,
		RunID:         "20250402T103000Z-" + participant,
		StudyID:       "faces",
		StartedAt:     start,
		FinishedAt:    start.Add(time.Minute),
		Warnings:      []runner.WarningRecord{{Kind: engine.WarningPoolExhaustion, Message: "short pool"}},
	}
	for i := 0; i < 8; i++ {
		grid, group := 2, "male"
		if i >= 4 {
			grid = 3
		}
		if i%2 == 1 {
			group = "female"
		}
		results.Trials = append(results.Trials, engine.TrialResult{
			GridSize:       grid,
			TrialNumber:    i + 1,
			SelectedRow:    1,
			SelectedColumn: 1,
			Correct:        correct(i),
			GroupLabel:     group,
			StageIndex:     i / 4,
			TargetRow:      1,
			TargetColumn:   1,
			ReactionTimeMs: int64(500 + 100*i),
		})
	}
	results.Summary = runner.Summary{TrialsTotal: len(results.Trials)}
	return results
}
