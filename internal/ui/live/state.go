package live

import (
	"percept/internal/engine"
	"percept/internal/runner"
)

// Phase is what the participant currently sees.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseFixation Phase = "fixation"
	PhaseGrid     Phase = "grid"
	PhaseDone     Phase = "done"
)

// State holds the participant view of a session.
type State struct {
	Phase       Phase
	Run         runner.RunInfo
	Trial       engine.TrialSpec
	Completed   int
	Correct     int
	Warnings    int
	LastWarning string
	Results     runner.Results
}

// TrialNumber is the 1-based number of the trial on screen.
func (s State) TrialNumber() int {
	return s.Completed + 1
}
