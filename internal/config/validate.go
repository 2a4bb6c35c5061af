package config

import (
	"fmt"
	"strings"

	"percept/internal/spec"
)

// Validate checks a study file for correctness and referenced directories.
func Validate(cfg *spec.Config, baseDir string) error {
	var issues issueList

	if cfg.Version == 0 {
		issues.add("version", "is required")
	} else if cfg.Version != 1 {
		issues.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	if strings.TrimSpace(cfg.Study.ID) == "" {
		issues.add("study.id", "is required")
	}
	if strings.TrimSpace(cfg.Study.OutputDir) == "" {
		issues.add("study.output_dir", "is required")
	}

	if baseDir == "" {
		baseDir = "."
	}

	validateEngine(cfg, issues.add)
	labels := validatePools(cfg, baseDir, issues.add)
	validateStages(cfg, labels, issues.add)

	return issues.err()
}

func validateEngine(cfg *spec.Config, add issueAdder) {
	eng := cfg.Engine
	if eng.FixationMS < 0 {
		add("engine.fixation_ms", "must be >= 0")
	}
	switch eng.FixationAnchor {
	case "trial_start", "load_complete":
	default:
		add("engine.fixation_anchor", fmt.Sprintf("unsupported anchor %q", eng.FixationAnchor))
	}
	if eng.LoadTimeoutMS < 0 {
		add("engine.load_timeout_ms", "must be >= 0")
	}
	if eng.PreloadConcurrency < 0 {
		add("engine.preload_concurrency", "must be >= 0")
	}
	if eng.CacheSize < 0 {
		add("engine.cache_size", "must be >= 0")
	}
	if t := cfg.Scoring.PassThreshold; t <= 0 || t > 1 {
		add("scoring.pass_threshold", "must be in (0, 1]")
	}
}
