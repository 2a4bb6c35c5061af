package duckdb_test

import (
	"path/filepath"
	"testing"

	"percept/internal/duckdb"
	"percept/internal/duckdb/testing"
	"percept/internal/runner"
	"percept/internal/testutil"
)

// TestCanonicalJSONStable verifies canonical JSON output ignores map key order.
func TestCanonicalJSONStable(t *testing.T) {
	left, err := duckdb.CanonicalJSON(map[string]any{"b": 1, "a": []any{"x", map[string]any{"d": 2, "c": 3}}})
	if err != nil {
		t.Fatalf("canonical json a: %v", err)
	}
	right, err := duckdb.CanonicalJSON(map[string]any{"a": []any{"x", map[string]any{"c": 3, "d": 2}}, "b": 1})
	if err != nil {
		t.Fatalf("canonical json b: %v", err)
	}
	if string(left) != string(right) {
		t.Fatalf("canonical json mismatch: %s vs %s", left, right)
	}
}

// TestIngestResultsIdempotent verifies a session is stored once with all rows.
func TestIngestResultsIdempotent(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sessionResults("00112233-4455-6677-8899-aabbccddeeff", "p1", func(int) bool { return true })

	first, err := duckdb.IngestResults(ctx, db, results)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if first.Duplicate || first.Trials != 8 {
		t.Fatalf("unexpected first outcome %+v", first)
	}
	second, err := duckdb.IngestResults(ctx, db, results)
	if err != nil {
		t.Fatalf("re-ingest: %v", err)
	}
	if !second.Duplicate || second.SessionID != first.SessionID {
		t.Fatalf("expected duplicate outcome, got %+v", second)
	}
	if got := duckdbtesting.Rows(ctx, t, db, "sessions"); got != 1 {
		t.Fatalf("expected 1 session, got %d", got)
	}
	if got := duckdbtesting.Rows(ctx, t, db, "trials"); got != 8 {
		t.Fatalf("expected 8 trials, got %d", got)
	}
	if got := duckdbtesting.Rows(ctx, t, db, "warnings"); got != 1 {
		t.Fatalf("expected 1 warning, got %d", got)
	}
}

// TestIngestResultsWithoutSessionID verifies older exports are keyed by fingerprint.
func TestIngestResultsWithoutSessionID(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sessionResults("", "p1", func(int) bool { return false })
	outcome, err := duckdb.IngestResults(ctx, db, results)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if outcome.SessionID != outcome.Key || len(outcome.Key) != 64 {
		t.Fatalf("expected fingerprint session id, got %+v", outcome)
	}
}

// TestAccuracyQueries verifies aggregation across sessions by grid and group.
func TestAccuracyQueries(t *testing.T) {
	db, ctx := openTestDB(t)
	all := sessionResults("11111111-1111-1111-1111-111111111111", "p1", func(int) bool { return true })
	evens := sessionResults("22222222-2222-2222-2222-222222222222", "p2", func(i int) bool { return i%2 == 0 })
	for _, results := range []runner.Results{all, evens} {
		if _, err := duckdb.IngestResults(ctx, db, results); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	byGrid, err := duckdb.AccuracyByGrid(ctx, db, "faces")
	if err != nil {
		t.Fatalf("accuracy by grid: %v", err)
	}
	if len(byGrid) != 2 || byGrid[0].GridSize != 2 || byGrid[1].GridSize != 3 {
		t.Fatalf("unexpected grid rows %+v", byGrid)
	}
	for _, row := range byGrid {
		if row.Trials != 8 || row.Correct != 6 {
			t.Fatalf("grid %d: expected 6/8, got %d/%d", row.GridSize, row.Correct, row.Trials)
		}
	}
	if rate := byGrid[0].Rate(); rate != 0.75 {
		t.Fatalf("expected rate 0.75, got %v", rate)
	}

	byGroup, err := duckdb.AccuracyByGroup(ctx, db, "faces")
	if err != nil {
		t.Fatalf("accuracy by group: %v", err)
	}
	want := map[string][2]int64{"female": {8, 4}, "male": {8, 8}}
	if len(byGroup) != len(want) {
		t.Fatalf("unexpected group rows %+v", byGroup)
	}
	for _, row := range byGroup {
		if w := want[row.GroupLabel]; row.Trials != w[0] || row.Correct != w[1] {
			t.Fatalf("group %q: expected %d/%d, got %d/%d", row.GroupLabel, w[1], w[0], row.Correct, row.Trials)
		}
	}

	count, err := duckdb.SessionCount(ctx, db, "faces")
	if err != nil || count != 2 {
		t.Fatalf("expected 2 sessions, got %d (%v)", count, err)
	}
}

// TestIngestFilesAndOpen verifies exports on disk land in a file-backed database.
func TestIngestFilesAndOpen(t *testing.T) {
	dir := t.TempDir()
	results := sessionResults("33333333-3333-3333-3333-333333333333", "p3", func(int) bool { return true })
	paths, err := runner.WriteRunOutputs(results, dir)
	if err != nil {
		t.Fatalf("write outputs: %v", err)
	}
	ctx := testutil.Context(t, testTimeout)
	db, err := duckdb.Open(ctx, filepath.Join(dir, "study.duckdb"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	outcomes, err := duckdb.IngestFiles(ctx, db, []string{paths.ResultsPath()})
	if err != nil {
		t.Fatalf("ingest files: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].SessionID != results.SessionID {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}
	if _, err := duckdb.IngestFiles(ctx, db, []string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatalf("expected missing file error")
	}
}
