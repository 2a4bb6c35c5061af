package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"percept/internal/runner"
)

// writeSessions stores two exports under the study output dir.
func writeSessions(t *testing.T, dir string) {
	t.Helper()
	for _, results := range []runner.Results{
		{ParticipantID: "p1", SessionID: "11111111-1111-1111-1111-111111111111", RunID: "20250401T090000Z-111111111111", StudyID: "happy-face",
			Responses: []runner.TaskResponse{{Task: "Face2x2", GridSize: 2, Response: []runner.CellResponse{{IsCorrect: true}}, IsCorrect: true}},
			Summary:   runner.Summary{TrialsTotal: 1, TrialsCorrect: 1, Accuracy: 1, TasksPassed: 1}},
		{ParticipantID: "p2", SessionID: "22222222-2222-2222-2222-222222222222", RunID: "20250402T090000Z-222222222222", StudyID: "happy-face",
			Responses: []runner.TaskResponse{{Task: "Face2x2", GridSize: 2, Response: []runner.CellResponse{{IsCorrect: false}}}},
			Summary:   runner.Summary{TrialsTotal: 1}},
	} {
		if _, err := runner.WriteRunOutputs(results, filepath.Join(dir, "out")); err != nil {
			t.Fatalf("write outputs: %v", err)
		}
	}
}

// TestReportCommandLatest verifies the latest session is summarized and rendered.
func TestReportCommandLatest(t *testing.T) {
	dir := t.TempDir()
	specPath := writeStudy(t, dir)
	writeSessions(t, dir)

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"report", "--spec", specPath}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("expected ok exit, got %d (%s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "participant p2") {
		t.Fatalf("expected latest session summary, got %q", stdout.String())
	}
	reportPath := filepath.Join(dir, "out", "happy-face", "20250402T090000Z-222222222222", "report.html")
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("expected report at %s: %v", reportPath, err)
	}
}

// TestReportCommandAll verifies a study-wide report covers every session.
func TestReportCommandAll(t *testing.T) {
	dir := t.TempDir()
	specPath := writeStudy(t, dir)
	writeSessions(t, dir)
	output := filepath.Join(dir, "all.html")

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"report", "--spec", specPath, "--all", "--output", output}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("expected ok exit, got %d (%s)", code, stderr.String())
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, token := range []string{"p1", "p2"} {
		if !strings.Contains(string(data), token) {
			t.Fatalf("expected %s in report", token)
		}
	}
}

// TestReportCommandUnknownRun verifies a missing run id fails.
func TestReportCommandUnknownRun(t *testing.T) {
	dir := t.TempDir()
	specPath := writeStudy(t, dir)
	writeSessions(t, dir)

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"report", "--spec", specPath, "--run", "nope"}, &stdout, &stderr); code != ExitError {
		t.Fatalf("expected error exit, got %d", code)
	}
}
