package engine

import "time"

// BalancePolicy controls how trials within a stage are spread across groups.
type BalancePolicy string

const (
	// BalanceNone uses a single pool pair for every trial.
	BalanceNone BalancePolicy = "none"
	// BalanceAlternating switches groups every two trials.
	BalanceAlternating BalancePolicy = "alternating"
	// BalanceCounter alternates groups until one quota is met, then forces the other.
	BalanceCounter BalancePolicy = "counter_balanced"
)

// Balanced reports whether the policy tracks group labels.
func (p BalancePolicy) Balanced() bool {
	return p == BalanceAlternating || p == BalanceCounter
}

// GroupQuota names a group and how many trials it should receive.
type GroupQuota struct {
	Label string
	Quota int
}

// StageConfig describes one block of trials sharing a grid size and policy.
type StageConfig struct {
	GridSize   int
	TrialCount int
	Balance    BalancePolicy
	// Groups is ordered; the first entry is group A.
	Groups []GroupQuota
}

// Cells returns the number of grid cells for the stage.
func (s StageConfig) Cells() int {
	return s.GridSize * s.GridSize
}

// ImageRef identifies an image for the loader. The engine treats it as opaque.
type ImageRef string

// ImagePool is a read-only labeled list of images.
type ImagePool struct {
	Label string
	Items []ImageRef
}

// PoolPair holds the target and distractor pools for one group.
type PoolPair struct {
	Targets     ImagePool
	Distractors ImagePool
}

// CellSpec is a single grid position.
type CellSpec struct {
	Image    ImageRef `json:"image"`
	IsTarget bool     `json:"isTarget"`
	Row      int      `json:"row"`
	Column   int      `json:"column"`
}

// TrialSpec is the fully sampled grid for one trial.
type TrialSpec struct {
	ID           uint64     `json:"id"`
	StageIndex   int        `json:"stage"`
	TrialInStage int        `json:"trialInStage"`
	GridSize     int        `json:"gridSize"`
	Cells        []CellSpec `json:"cells"`
	GroupLabel   string     `json:"groupLabel,omitempty"`
}

// TargetIndex returns the linear index of the target cell, or -1.
func (t TrialSpec) TargetIndex() int {
	for i, cell := range t.Cells {
		if cell.IsTarget {
			return i
		}
	}
	return -1
}

// Images returns the distinct image refs of the grid in cell order.
func (t TrialSpec) Images() []ImageRef {
	seen := make(map[ImageRef]struct{}, len(t.Cells))
	out := make([]ImageRef, 0, len(t.Cells))
	for _, cell := range t.Cells {
		if _, ok := seen[cell.Image]; ok {
			continue
		}
		seen[cell.Image] = struct{}{}
		out = append(out, cell.Image)
	}
	return out
}

// TrialResult is the append-only record of one answered trial.
//
// The first six fields are consumed by downstream aggregation and must stay stable.
type TrialResult struct {
	GridSize       int       `json:"gridSize"`
	TrialNumber    int       `json:"trial"`
	SelectedRow    int       `json:"selectedRow"`
	SelectedColumn int       `json:"selectedColumn"`
	Correct        bool      `json:"correct"`
	GroupLabel     string    `json:"groupLabel,omitempty"`
	StageIndex     int       `json:"stage"`
	TargetRow      int       `json:"targetRow"`
	TargetColumn   int       `json:"targetColumn"`
	PresentedAt    time.Time `json:"presentedAt"`
	RespondedAt    time.Time `json:"respondedAt"`
	ReactionTimeMs int64     `json:"reactionTimeMs"`
	LoadFailures   int       `json:"loadFailures"`
}

// Lifecycle is the sequencer state.
type Lifecycle string

const (
	LifecyclePending       Lifecycle = "pending"
	LifecyclePresenting    Lifecycle = "presenting"
	LifecycleAwaitingLoad  Lifecycle = "awaiting_load"
	LifecycleReady         Lifecycle = "ready"
	LifecycleAwaitingInput Lifecycle = "awaiting_input"
	LifecycleCompleted     Lifecycle = "completed"
)

// Snapshot is a copy of the run state for observers and tests.
type Snapshot struct {
	Lifecycle     Lifecycle
	StageIndex    int
	TrialInStage  int
	TrialID       uint64
	GroupProgress map[string]int
	Results       int
}

// cellPosition converts a linear index into 1-based row and column.
func cellPosition(index, gridSize int) (row, column int) {
	return index/gridSize + 1, index%gridSize + 1
}
