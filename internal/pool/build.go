package pool

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"percept/internal/config"
	"percept/internal/engine"
	"percept/internal/spec"
)

// SourceFor builds the Source named by a study source entry.
func SourceFor(source spec.SourceConfig, baseDir string, objects Lister) Source {
	if source.Bucket != "" {
		return BucketSource{Lister: objects, Bucket: source.Bucket, Prefix: source.Prefix}
	}
	return DirSource{Dir: config.ResolvePath(baseDir, source.Dir)}
}

// BuildPools lists every pool in the study. objects may be nil when no pool
// reads from a bucket.
func BuildPools(ctx context.Context, cfg spec.Config, baseDir string, objects Lister, logger *zap.Logger) (map[string]engine.PoolPair, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pools := make(map[string]engine.PoolPair, len(cfg.Pools))
	for _, poolCfg := range cfg.Pools {
		targets, err := SourceFor(poolCfg.Targets, baseDir, objects).List(ctx)
		if err != nil {
			return nil, fmt.Errorf("pool %s targets: %w", poolCfg.Label, err)
		}
		distractors, err := SourceFor(poolCfg.Distractors, baseDir, objects).List(ctx)
		if err != nil {
			return nil, fmt.Errorf("pool %s distractors: %w", poolCfg.Label, err)
		}
		logger.Info("pool listed",
			zap.String("label", poolCfg.Label),
			zap.Int("targets", len(targets)),
			zap.Int("distractors", len(distractors)))
		pools[poolCfg.Label] = engine.PoolPair{
			Targets:     engine.ImagePool{Label: poolCfg.Label + "/targets", Items: targets},
			Distractors: engine.ImagePool{Label: poolCfg.Label + "/distractors", Items: distractors},
		}
	}
	return pools, nil
}
