package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestPrompterConfirm covers defaults, re-asking, and exhausted input.
func TestPrompterConfirm(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{name: "empty takes default", input: "\n", fallback: true, want: true},
		{name: "explicit no", input: "No\n", fallback: true, want: false},
		{name: "re-asks", input: "maybe\ny\n", fallback: false, want: true},
		{name: "eof default", input: "", fallback: false, want: false},
		{name: "eof garbage", input: "maybe", fallback: true, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := newPrompter(strings.NewReader(tc.input), &out).confirm("Proceed?", tc.fallback)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("confirm: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

// TestPrompterText verifies fallbacks and the error on missing input.
func TestPrompterText(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("\n  sessions  \n"), &out)
	got, err := p.text("Results folder", "out")
	if err != nil || got != "out" {
		t.Fatalf("expected fallback out, got %q (%v)", got, err)
	}
	if got, err = p.text("Results folder", "out"); err != nil || got != "sessions" {
		t.Fatalf("expected sessions, got %q (%v)", got, err)
	}
	if !strings.Contains(out.String(), "Results folder [out]: ") {
		t.Fatalf("expected prompt with default, got %q", out.String())
	}
	if _, err := newPrompter(strings.NewReader(""), &out).text("Study id", ""); err == nil {
		t.Fatalf("expected error without input or fallback")
	}
}

// TestIgnoreResults verifies the entry is appended once and stays inside the repo.
func TestIgnoreResults(t *testing.T) {
	repo := t.TempDir()
	path := filepath.Join(repo, ".gitignore")
	if err := os.WriteFile(path, []byte("*.log"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	changed, err := ignoreResults(repo, filepath.Join(repo, "study", "out"))
	if err != nil || !changed {
		t.Fatalf("expected change, got %v (%v)", changed, err)
	}
	changed, err = ignoreResults(repo, filepath.Join(repo, "study", "out"))
	if err != nil || changed {
		t.Fatalf("expected no second change, got %v (%v)", changed, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "*.log\nstudy/out/\n" {
		t.Fatalf("unexpected .gitignore %q", data)
	}
	if _, err := ignoreResults(repo, filepath.Dir(repo)); err == nil {
		t.Fatalf("expected error for folder outside the repo")
	}
}
