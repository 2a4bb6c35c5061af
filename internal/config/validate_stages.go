package config

import (
	"fmt"

	"percept/internal/spec"
)

func validateStages(cfg *spec.Config, labels map[string]struct{}, add issueAdder) {
	if len(cfg.Stages) == 0 {
		add("stages", "at least one stage is required")
	}
	for i, stage := range cfg.Stages {
		fieldPrefix := fmt.Sprintf("stages[%d]", i)
		if stage.GridSize < 2 {
			add(fieldPrefix+".grid_size", "must be >= 2")
		}
		if stage.Trials <= 0 {
			add(fieldPrefix+".trials", "must be > 0")
		}
		for g, group := range stage.Groups {
			field := fmt.Sprintf("%s.groups[%d].label", fieldPrefix, g)
			if group.Label == "" {
				add(field, "is required")
			} else if _, ok := labels[group.Label]; !ok {
				add(field, fmt.Sprintf("unknown pool %q", group.Label))
			}
		}
		switch stage.Balance {
		case "none":
			if len(stage.Groups) != 1 {
				add(fieldPrefix+".groups", "balance none takes exactly one group when several pools exist")
			}
		case "alternating":
			if len(stage.Groups) != 2 {
				add(fieldPrefix+".groups", "balance alternating requires exactly two groups")
			}
		case "counter_balanced":
			if len(stage.Groups) != 2 {
				add(fieldPrefix+".groups", "balance counter_balanced requires exactly two groups")
				continue
			}
			total := 0
			for g, group := range stage.Groups {
				if group.Quota <= 0 {
					add(fmt.Sprintf("%s.groups[%d].quota", fieldPrefix, g), "must be > 0")
				}
				total += group.Quota
			}
			if stage.Trials > 0 && total != stage.Trials {
				add(fieldPrefix+".groups", fmt.Sprintf("quotas sum to %d, stage has %d trials", total, stage.Trials))
			}
		default:
			add(fieldPrefix+".balance", fmt.Sprintf("unsupported balance %q", stage.Balance))
		}
	}
}
