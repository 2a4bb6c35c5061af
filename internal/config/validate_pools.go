package config

import (
	"fmt"
	"os"
	"strings"

	"percept/internal/spec"
)

// validatePools checks pool labels and sources and returns the known labels.
func validatePools(cfg *spec.Config, baseDir string, add issueAdder) map[string]struct{} {
	labels := map[string]struct{}{}
	if len(cfg.Pools) == 0 {
		add("pools", "at least one pool is required")
	}
	usesBucket := false
	for i, pool := range cfg.Pools {
		fieldPrefix := fmt.Sprintf("pools[%d]", i)
		if pool.Label == "" {
			add(fieldPrefix+".label", "is required")
		} else if _, dup := labels[pool.Label]; dup {
			add(fieldPrefix+".label", fmt.Sprintf("duplicate label %q", pool.Label))
		} else {
			labels[pool.Label] = struct{}{}
		}
		for _, source := range []struct {
			field string
			cfg   spec.SourceConfig
		}{
			{fieldPrefix + ".targets", pool.Targets},
			{fieldPrefix + ".distractors", pool.Distractors},
		} {
			if validateSource(source.cfg, source.field, baseDir, add) {
				usesBucket = true
			}
		}
	}
	if usesBucket && strings.TrimSpace(cfg.ObjectStore.Endpoint) == "" {
		add("object_store.endpoint", "is required when a pool reads from a bucket")
	}
	return labels
}

// validateSource reports whether the source reads from a bucket.
func validateSource(source spec.SourceConfig, field, baseDir string, add issueAdder) bool {
	dir := strings.TrimSpace(source.Dir)
	bucket := strings.TrimSpace(source.Bucket)
	switch {
	case dir == "" && bucket == "":
		add(field, "one of dir or bucket is required")
	case dir != "" && bucket != "":
		add(field, "dir and bucket are mutually exclusive")
	case dir != "":
		if source.Prefix != "" {
			add(field+".prefix", "only applies to bucket sources")
		}
		info, err := os.Stat(ResolvePath(baseDir, dir))
		if err != nil {
			add(field+".dir", fmt.Sprintf("not found: %s", dir))
		} else if !info.IsDir() {
			add(field+".dir", fmt.Sprintf("%s is not a directory", dir))
		}
	default:
		return true
	}
	return false
}
