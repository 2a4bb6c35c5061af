package engine

import (
	"fmt"
	"maps"
	"slices"
)

// validateSetup checks stages against the supplied pools before any trial runs.
func validateSetup(stages []StageConfig, pools map[string]PoolPair) error {
	var issues []ConfigIssue
	add := func(field, message string) {
		issues = append(issues, ConfigIssue{Field: field, Message: message})
	}

	if len(stages) == 0 {
		add("stages", "at least one stage is required")
	}
	if len(pools) == 0 {
		add("pools", "at least one pool pair is required")
	}
	for _, label := range slices.Sorted(maps.Keys(pools)) {
		pair := pools[label]
		prefix := fmt.Sprintf("pools[%s]", label)
		if len(pair.Targets.Items) == 0 {
			add(prefix+".targets", "is empty")
		}
		if len(pair.Distractors.Items) == 0 {
			add(prefix+".distractors", "is empty")
		}
	}

	for i, stage := range stages {
		prefix := fmt.Sprintf("stages[%d]", i)
		if stage.GridSize < 2 {
			add(prefix+".grid_size", "must be >= 2")
		}
		if stage.TrialCount <= 0 {
			add(prefix+".trials", "must be > 0")
		}
		requireGroup := func(field, label string) {
			if label == "" {
				add(field, "label is required")
				return
			}
			if _, ok := pools[label]; !ok {
				add(field, fmt.Sprintf("no pool pair for group %q", label))
			}
		}
		switch stage.Balance {
		case BalanceNone, "":
			switch len(stage.Groups) {
			case 0:
				if len(pools) != 1 {
					add(prefix+".groups", "a group label is required when more than one pool pair exists")
				}
			case 1:
				requireGroup(prefix+".groups[0]", stage.Groups[0].Label)
			default:
				add(prefix+".groups", "policy none takes at most one group")
			}
		case BalanceAlternating, BalanceCounter:
			if len(stage.Groups) != 2 {
				add(prefix+".groups", fmt.Sprintf("policy %s requires exactly two groups", stage.Balance))
				continue
			}
			for g, group := range stage.Groups {
				requireGroup(fmt.Sprintf("%s.groups[%d]", prefix, g), group.Label)
			}
			if stage.Groups[0].Label == stage.Groups[1].Label {
				add(prefix+".groups", fmt.Sprintf("duplicate group %q", stage.Groups[0].Label))
			}
			if stage.Balance == BalanceCounter {
				total := 0
				for g, group := range stage.Groups {
					if group.Quota <= 0 {
						add(fmt.Sprintf("%s.groups[%d].quota", prefix, g), "must be > 0")
					}
					total += group.Quota
				}
				if stage.TrialCount > 0 && total != stage.TrialCount {
					add(prefix+".groups", fmt.Sprintf("quotas sum to %d, stage has %d trials", total, stage.TrialCount))
				}
			}
		default:
			add(prefix+".balance", fmt.Sprintf("unsupported policy %q", stage.Balance))
		}
	}

	if len(issues) > 0 {
		return &ConfigError{Issues: issues}
	}
	return nil
}
