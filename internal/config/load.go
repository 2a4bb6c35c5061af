package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"percept/internal/spec"
)

// Locate returns the absolute study file path. An empty path searches upward
// from the working directory for .percept/study.yml.
func Locate(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return FindConfigPath("")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve study path: %w", err)
	}
	return abs, nil
}

// Load reads a study file, applies defaults, and validates it. Relative
// directories resolve against the study root derived from path.
func Load(path string) (spec.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Config{}, fmt.Errorf("read study file: %w", err)
	}
	cfg, err := spec.ParseConfig(data)
	if err != nil {
		return spec.Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg, StudyRootFromConfigPath(path)); err != nil {
		return spec.Config{}, err
	}
	return cfg, nil
}

// TotalTrials is the number of trials a full session presents.
func TotalTrials(cfg spec.Config) int {
	total := 0
	for _, stage := range cfg.Stages {
		total += stage.Trials
	}
	return total
}
