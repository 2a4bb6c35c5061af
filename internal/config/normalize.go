package config

import (
	"strings"

	"percept/internal/spec"
)

// Defaults applied by Normalize.
const (
	DefaultFixationMS         = 1000
	DefaultFixationAnchor     = "trial_start"
	DefaultLoadTimeoutMS      = 10000
	DefaultPreloadConcurrency = 8
	DefaultCacheSize          = 256
	DefaultPassThreshold      = 0.6
	DefaultBalance            = "none"
)

func Normalize(cfg *spec.Config) {
	if strings.TrimSpace(cfg.Study.OutputDir) == "" {
		cfg.Study.OutputDir = DefaultOutputDir
	}
	eng := &cfg.Engine
	if eng.FixationMS == 0 {
		eng.FixationMS = DefaultFixationMS
	}
	if eng.FixationAnchor == "" {
		eng.FixationAnchor = DefaultFixationAnchor
	}
	if eng.LoadTimeoutMS == 0 {
		eng.LoadTimeoutMS = DefaultLoadTimeoutMS
	}
	if eng.PreloadConcurrency == 0 {
		eng.PreloadConcurrency = DefaultPreloadConcurrency
	}
	if eng.CacheSize == 0 {
		eng.CacheSize = DefaultCacheSize
	}
	if cfg.Scoring.PassThreshold == 0 {
		cfg.Scoring.PassThreshold = DefaultPassThreshold
	}
	for i := range cfg.Pools {
		cfg.Pools[i].Label = strings.TrimSpace(cfg.Pools[i].Label)
	}
	for i := range cfg.Stages {
		stage := &cfg.Stages[i]
		if stage.Balance == "" {
			stage.Balance = DefaultBalance
		}
		if stage.Balance == DefaultBalance && len(stage.Groups) == 0 && len(cfg.Pools) == 1 {
			stage.Groups = []spec.GroupConfig{{Label: cfg.Pools[0].Label}}
		}
	}
}
