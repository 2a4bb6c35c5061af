package config

import (
	"errors"
	"strings"
	"testing"

	"percept/internal/spec"
)

// TestValidateAcceptsValidConfig verifies the baseline config passes.
func TestValidateAcceptsValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig(t, dir)
	if err := Validate(&cfg, dir); err != nil {
		t.Fatalf("expected config to validate, got %v", err)
	}
}

// TestValidateReportsIssues checks each rule reports against its field.
func TestValidateReportsIssues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*spec.Config)
		field  string
	}{
		{name: "missing version", mutate: func(c *spec.Config) { c.Version = 0 }, field: "version"},
		{name: "missing study id", mutate: func(c *spec.Config) { c.Study.ID = "" }, field: "study.id"},
		{name: "bad anchor", mutate: func(c *spec.Config) { c.Engine.FixationAnchor = "stimulus" }, field: "engine.fixation_anchor"},
		{name: "threshold above one", mutate: func(c *spec.Config) { c.Scoring.PassThreshold = 1.5 }, field: "scoring.pass_threshold"},
		{name: "missing dir", mutate: func(c *spec.Config) { c.Pools[0].Targets.Dir = "nowhere" }, field: "pools[0].targets.dir"},
		{name: "both sources", mutate: func(c *spec.Config) { c.Pools[0].Distractors.Bucket = "faces" }, field: "pools[0].distractors"},
		{name: "no source", mutate: func(c *spec.Config) { c.Pools[0].Targets = spec.SourceConfig{} }, field: "pools[0].targets"},
		{name: "duplicate label", mutate: func(c *spec.Config) { c.Pools = append(c.Pools, c.Pools[0]) }, field: "pools[1].label"},
		{name: "grid too small", mutate: func(c *spec.Config) { c.Stages[0].GridSize = 1 }, field: "stages[0].grid_size"},
		{name: "no trials", mutate: func(c *spec.Config) { c.Stages[0].Trials = 0 }, field: "stages[0].trials"},
		{name: "unknown balance", mutate: func(c *spec.Config) { c.Stages[0].Balance = "shuffled" }, field: "stages[0].balance"},
		{name: "unknown group", mutate: func(c *spec.Config) { c.Stages[0].Groups[0].Label = "female" }, field: "stages[0].groups[0].label"},
		{name: "no stages", mutate: func(c *spec.Config) { c.Stages = nil }, field: "stages"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := validConfig(t, dir)
			tc.mutate(&cfg)
			err := Validate(&cfg, dir)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("expected %s issue, got %q", tc.field, err.Error())
			}
		})
	}
}

// TestValidateBucketNeedsEndpoint verifies bucket sources require an object store.
func TestValidateBucketNeedsEndpoint(t *testing.T) {
	dir := t.TempDir()
	cfg := genderedConfig(t, dir)
	cfg.ObjectStore.Endpoint = ""
	err := Validate(&cfg, dir)
	if err == nil || !strings.Contains(err.Error(), "object_store.endpoint") {
		t.Fatalf("expected endpoint issue, got %v", err)
	}
}

// TestValidateCounterBalancedQuotas verifies quotas must cover the stage.
func TestValidateCounterBalancedQuotas(t *testing.T) {
	dir := t.TempDir()
	cfg := genderedConfig(t, dir)
	cfg.Stages = append(cfg.Stages, spec.StageConfig{
		GridSize: 3,
		Trials:   12,
		Balance:  "counter_balanced",
		Groups:   []spec.GroupConfig{{Label: "male", Quota: 6}, {Label: "female", Quota: 6}},
	})
	if err := Validate(&cfg, dir); err != nil {
		t.Fatalf("expected balanced config to validate, got %v", err)
	}

	cfg.Stages[1].Groups[1].Quota = 4
	err := Validate(&cfg, dir)
	if err == nil || !strings.Contains(err.Error(), "quotas sum to 10") {
		t.Fatalf("expected quota issue, got %v", err)
	}
}

// TestValidateAlternatingNeedsTwoGroups verifies the group count rule.
func TestValidateAlternatingNeedsTwoGroups(t *testing.T) {
	dir := t.TempDir()
	cfg := genderedConfig(t, dir)
	cfg.Stages[0].Balance = "alternating"
	err := Validate(&cfg, dir)
	if err == nil || !strings.Contains(err.Error(), "stages[0].groups") {
		t.Fatalf("expected groups issue, got %v", err)
	}
}
