package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"percept/internal/runner"
)

func sampleResults(runID, participant string) runner.Results {
	return runner.Results{
		ParticipantID: participant,
		RunID:         runID,
		StudyID:       "faces",
		Responses: []runner.TaskResponse{
			{Task: "Face2x2", GridSize: 2, Response: []runner.CellResponse{{IsCorrect: true}, {IsCorrect: true}}, IsCorrect: true},
			{Task: "Face3x3", GridSize: 3, Response: []runner.CellResponse{{IsCorrect: false}, {IsCorrect: true}}, IsCorrect: false},
		},
		Warnings: []runner.WarningRecord{{Kind: "pool_exhaustion", Message: "pool <neutral> short"}},
		Summary:  runner.Summary{TrialsTotal: 4, TrialsCorrect: 3, Accuracy: 0.75, MeanReactionMs: 812, TasksPassed: 1},
	}
}

// TestResolveRunByIDAndLatest verifies run resolution by run ID and the latest ref.
func TestResolveRunByIDAndLatest(t *testing.T) {
	root := t.TempDir()
	for _, results := range []runner.Results{
		sampleResults("20250401T090000Z-aaaaaaaaaaaa", "p1"),
		sampleResults("20250402T090000Z-bbbbbbbbbbbb", "p2"),
	} {
		if _, err := runner.WriteRunOutputs(results, root); err != nil {
			t.Fatalf("write outputs: %v", err)
		}
	}

	resolved, runDir, err := ResolveRun(root, "faces", "20250401T090000Z-aaaaaaaaaaaa")
	if err != nil {
		t.Fatalf("resolve run id: %v", err)
	}
	if resolved.ParticipantID != "p1" || filepath.Base(runDir) != "20250401T090000Z-aaaaaaaaaaaa" {
		t.Fatalf("unexpected run %s in %s", resolved.ParticipantID, runDir)
	}

	resolved, _, err = ResolveRun(root, "faces", LatestRef)
	if err != nil {
		t.Fatalf("resolve latest: %v", err)
	}
	if resolved.ParticipantID != "p2" {
		t.Fatalf("expected latest run from p2, got %s", resolved.ParticipantID)
	}

	if _, _, err := ResolveRun(root, "faces", "missing"); err == nil {
		t.Fatalf("expected missing run error")
	}
}

// TestLoadStudy verifies every export in a study is loaded in order.
func TestLoadStudy(t *testing.T) {
	root := t.TempDir()
	for _, results := range []runner.Results{
		sampleResults("20250402T090000Z-bbbbbbbbbbbb", "p2"),
		sampleResults("20250401T090000Z-aaaaaaaaaaaa", "p1"),
	} {
		if _, err := runner.WriteRunOutputs(results, root); err != nil {
			t.Fatalf("write outputs: %v", err)
		}
	}
	runs, err := LoadStudy(root, "faces")
	if err != nil {
		t.Fatalf("load study: %v", err)
	}
	if len(runs) != 2 || runs[0].ParticipantID != "p1" || runs[1].ParticipantID != "p2" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

// TestBuildReportHTML verifies the report lists sessions and tasks with escaping.
func TestBuildReportHTML(t *testing.T) {
	runs := []runner.Results{sampleResults("run-1", "p1"), sampleResults("run-2", "p2")}
	html := BuildReportHTML(runs)
	for _, token := range []string{"run-1", "run-2", "p1", "p2", "Face2x2", "Face3x3", "75.0%", "&lt;neutral&gt;"} {
		if !strings.Contains(html, token) {
			t.Fatalf("expected report to include %s", token)
		}
	}
	if !strings.Contains(html, "<table") {
		t.Fatalf("expected table in report")
	}
	if strings.Contains(html, "<neutral>") {
		t.Fatalf("expected warning text to be escaped")
	}
}

// TestWriteReportAndSummary verifies both outputs render for one session.
func TestWriteReportAndSummary(t *testing.T) {
	results := sampleResults("run-1", "p1")
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteReport(context.Background(), path, []runner.Results{results}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("expected report file, got %v", err)
	}

	var out bytes.Buffer
	if err := WriteSummary(&out, results); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	for _, token := range []string{"participant p1", "accuracy 75.0% (3/4)", "tasks passed 1/2", "Face3x3", "warnings 1"} {
		if !strings.Contains(out.String(), token) {
			t.Fatalf("expected %q in summary:\n%s", token, out.String())
		}
	}
}
