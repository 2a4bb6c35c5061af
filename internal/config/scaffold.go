package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1
study:
  id: happy-face
  output_dir: %q

engine:
  fixation_ms: 1000
  fixation_anchor: trial_start
  load_timeout_ms: 10000
  preload_concurrency: 8

scoring:
  pass_threshold: 0.6

pools:
  - label: neutral
    targets:
      dir: assets/images/Right
    distractors:
      dir: assets/images/Wrong

stages:
  - grid_size: 2
    trials: 25
  - grid_size: 3
    trials: 25
`

// ScaffoldImageDirs lists the image directories created next to a new study.
var ScaffoldImageDirs = []string{
	filepath.Join("assets", "images", "Right"),
	filepath.Join("assets", "images", "Wrong"),
}

// Scaffold writes a starter study file at specPath and creates the image
// directories it references under root. An empty outputDir uses
// DefaultOutputDir.
func Scaffold(root, specPath, outputDir string) error {
	if specPath == "" {
		return fmt.Errorf("study path is required")
	}
	if info, err := os.Stat(specPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("study path %q is a directory", specPath)
		}
		return fmt.Errorf("study file already exists at %q", specPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat study file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(specPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	for _, dir := range ScaffoldImageDirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("create image dir: %w", err)
		}
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if err := os.WriteFile(specPath, []byte(fmt.Sprintf(defaultConfig, outputDir)), 0o644); err != nil {
		return fmt.Errorf("write study file: %w", err)
	}
	return nil
}
