package config

import (
	"math/rand/v2"
	"time"

	"percept/internal/engine"
	"percept/internal/spec"
)

// EngineStages converts study stages into engine stages.
func EngineStages(cfg spec.Config) []engine.StageConfig {
	stages := make([]engine.StageConfig, 0, len(cfg.Stages))
	for _, stage := range cfg.Stages {
		groups := make([]engine.GroupQuota, 0, len(stage.Groups))
		for _, group := range stage.Groups {
			groups = append(groups, engine.GroupQuota{Label: group.Label, Quota: group.Quota})
		}
		stages = append(stages, engine.StageConfig{
			GridSize:   stage.GridSize,
			TrialCount: stage.Trials,
			Balance:    engine.BalancePolicy(stage.Balance),
			Groups:     groups,
		})
	}
	return stages
}

// EngineOptions maps the engine section onto engine options. Hosts add the
// loader, observer, clock, and logger.
func EngineOptions(cfg spec.Config) engine.Options {
	opts := engine.Options{
		Fixation:           time.Duration(cfg.Engine.FixationMS) * time.Millisecond,
		Anchor:             engine.FixationAnchor(cfg.Engine.FixationAnchor),
		LoadTimeout:        time.Duration(cfg.Engine.LoadTimeoutMS) * time.Millisecond,
		PreloadConcurrency: cfg.Engine.PreloadConcurrency,
	}
	if seed := cfg.Engine.Seed; seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	return opts
}
