package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const studyBody = `version: 1
study:
  id: happy-face
  output_dir: "./out"
engine:
  fixation_ms: 500
  load_timeout_ms: 2000
pools:
  - label: neutral
    targets:
      dir: images/Right
    distractors:
      dir: images/Wrong
stages:
  - grid_size: 2
    trials: 3
  - grid_size: 3
    trials: 2
`

// writeStudy creates a study root with images and returns the study file path.
func writeStudy(t *testing.T, dir string) string {
	t.Helper()
	writeImages(t, filepath.Join(dir, "images", "Right"), 2)
	writeImages(t, filepath.Join(dir, "images", "Wrong"), 9)
	specPath := filepath.Join(dir, ".percept", "study.yml")
	if err := os.MkdirAll(filepath.Dir(specPath), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(specPath, []byte(studyBody), 0o644); err != nil {
		t.Fatalf("write study: %v", err)
	}
	return specPath
}

func writeImages(t *testing.T, dir string, count int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 0; i < count; i++ {
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%02d.png", i)), buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
}
