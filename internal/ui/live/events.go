package live

import (
	"percept/internal/engine"
	"percept/internal/runner"
)

// EventKind identifies the type of UI event.
type EventKind string

const (
	EventRunStart       EventKind = "run_start"
	EventTrialPresented EventKind = "trial_presented"
	EventTrialReady     EventKind = "trial_ready"
	EventTrialRecorded  EventKind = "trial_recorded"
	EventWarning        EventKind = "warning"
	EventRunEnd         EventKind = "run_end"
)

// Event is a UI update emitted during a session.
type Event struct {
	Kind    EventKind
	Run     runner.RunInfo
	Spec    engine.TrialSpec
	Result  engine.TrialResult
	Warning engine.Warning
	Results runner.Results
}
