package config

import (
	"os"
	"path/filepath"
	"testing"

	"percept/internal/spec"
)

// validConfig returns a minimal normalized config whose image dirs exist under baseDir.
func validConfig(t *testing.T, baseDir string) spec.Config {
	t.Helper()
	for _, dir := range []string{"right", "wrong"} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}
	cfg := spec.Config{
		Version: 1,
		Study:   spec.StudyConfig{ID: "happy-face", OutputDir: "./out"},
		Pools: []spec.PoolConfig{{
			Label:       "neutral",
			Targets:     spec.SourceConfig{Dir: "right"},
			Distractors: spec.SourceConfig{Dir: "wrong"},
		}},
		Stages: []spec.StageConfig{{GridSize: 2, Trials: 25}},
	}
	Normalize(&cfg)
	return cfg
}

// genderedConfig adds two bucket-backed pools for balanced stages.
func genderedConfig(t *testing.T, baseDir string) spec.Config {
	t.Helper()
	cfg := validConfig(t, baseDir)
	cfg.ObjectStore.Endpoint = "localhost:9000"
	for _, label := range []string{"male", "female"} {
		cfg.Pools = append(cfg.Pools, spec.PoolConfig{
			Label:       label,
			Targets:     spec.SourceConfig{Bucket: "faces", Prefix: label + "/right/"},
			Distractors: spec.SourceConfig{Bucket: "faces", Prefix: label + "/wrong/"},
		})
	}
	return cfg
}
