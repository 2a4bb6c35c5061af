package engine

import (
	"math/rand/v2"
	"slices"
)

// Sampler picks the group for a trial and builds its randomized grid.
// It never mutates run state; the Engine applies what it returns.
type Sampler struct {
	rng   *rand.Rand
	pools map[string]PoolPair
}

// NewSampler creates a sampler over read-only pools. A nil rng is seeded randomly.
func NewSampler(pools map[string]PoolPair, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng, pools: pools}
}

// SelectGroup returns the group label for the upcoming trial.
//
// progress holds completed trials per label for the current stage and
// previous is the label of the stage's previous trial ("" for the first).
func (s *Sampler) SelectGroup(stage StageConfig, trialInStage int, progress map[string]int, previous string) string {
	switch stage.Balance {
	case BalanceAlternating:
		if (trialInStage/2)%2 == 0 {
			return stage.Groups[0].Label
		}
		return stage.Groups[1].Label
	case BalanceCounter:
		a, b := stage.Groups[0], stage.Groups[1]
		roomA := a.Quota - progress[a.Label]
		roomB := b.Quota - progress[b.Label]
		switch {
		case roomA > 0 && roomB <= 0:
			return a.Label
		case roomB > 0 && roomA <= 0:
			return b.Label
		}
		if previous == a.Label {
			return b.Label
		}
		return a.Label
	default:
		if len(stage.Groups) > 0 {
			return stage.Groups[0].Label
		}
		if labels := s.labels(); len(labels) > 0 {
			return labels[0]
		}
		return ""
	}
}

// BuildCells draws a grid of gridSize² cells with exactly one target.
// exhausted is true when the distractor pool was too small and the draw
// fell back to sampling with replacement.
func (s *Sampler) BuildCells(pair PoolPair, gridSize int) (cells []CellSpec, exhausted bool) {
	n := gridSize * gridSize
	distractors := pair.Distractors.Items
	cells = make([]CellSpec, n)

	if len(distractors) >= n {
		// Partial Fisher-Yates over an index permutation keeps the pool untouched.
		order := make([]int, len(distractors))
		for i := range order {
			order[i] = i
		}
		for i := 0; i < n; i++ {
			j := i + s.rng.IntN(len(order)-i)
			order[i], order[j] = order[j], order[i]
			cells[i].Image = distractors[order[i]]
		}
	} else {
		exhausted = true
		for i := range cells {
			cells[i].Image = distractors[s.rng.IntN(len(distractors))]
		}
	}

	replaced := s.rng.IntN(n)
	targets := pair.Targets.Items
	cells[replaced].Image = targets[s.rng.IntN(len(targets))]
	cells[replaced].IsTarget = true

	for i := range cells {
		cells[i].Row, cells[i].Column = cellPosition(i, gridSize)
	}
	return cells, exhausted
}

// Next builds the TrialSpec for a stage position. The caller assigns the ID.
func (s *Sampler) Next(stageIndex int, stage StageConfig, trialInStage int, progress map[string]int, previous string) (TrialSpec, *Warning) {
	label := s.SelectGroup(stage, trialInStage, progress, previous)
	pair := s.pools[label]
	cells, exhausted := s.BuildCells(pair, stage.GridSize)
	spec := TrialSpec{
		StageIndex:   stageIndex,
		TrialInStage: trialInStage,
		GridSize:     stage.GridSize,
		Cells:        cells,
	}
	if stage.Balance.Balanced() {
		spec.GroupLabel = label
	}
	if !exhausted {
		return spec, nil
	}
	return spec, &Warning{
		Kind:  WarningPoolExhaustion,
		Label: label,
		Have:  len(pair.Distractors.Items),
		Need:  stage.Cells(),
	}
}

// labels returns the pool labels in a stable order.
func (s *Sampler) labels() []string {
	out := make([]string, 0, len(s.pools))
	for label := range s.pools {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}
