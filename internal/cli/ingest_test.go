package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// TestIngestCommand verifies exports are stored once and accuracy is printed.
func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	specPath := writeStudy(t, dir)
	writeSessions(t, dir)
	dbPath := filepath.Join(dir, "study.duckdb")

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"ingest", "--spec", specPath, "--db", dbPath}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("expected ok exit, got %d (%s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Ingested 2 new sessions (0 already stored)") {
		t.Fatalf("unexpected output %q", stdout.String())
	}

	stdout.Reset()
	if code := Run([]string{"ingest", "--spec", specPath, "--db", dbPath}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("expected ok exit on re-ingest, got %d (%s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Ingested 0 new sessions (2 already stored)") {
		t.Fatalf("unexpected re-ingest output %q", stdout.String())
	}
}

// TestIngestCommandRequiresDB verifies --db is mandatory.
func TestIngestCommandRequiresDB(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"ingest"}, &stdout, &stderr); code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
}
