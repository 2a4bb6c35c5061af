package runner

import (
	"context"
	"sync"

	"percept/internal/engine"
)

// SubmitFunc forwards a cell selection to the engine.
type SubmitFunc func(cellIndex int) bool

// Participant answers trials. It observes the engine and is handed the
// selection entry point before the first trial is presented.
type Participant interface {
	engine.Observer
	Bind(ctx context.Context, submit SubmitFunc)
}

// ArtViewer is implemented by participants that draw cached thumbnails.
type ArtViewer interface {
	UseArt(art func(ref engine.ImageRef) []string)
}

// RunInfo describes a session as it starts.
type RunInfo struct {
	RunID         string
	SessionID     string
	StudyID       string
	ParticipantID string
	Trials        int
	Stages        int
}

// RunObserver receives session lifecycle events for UI or logging.
type RunObserver interface {
	// OnRunStart signals the session is about to present its first trial.
	OnRunStart(info RunInfo)
	// OnRunEnd delivers the assembled export.
	OnRunEnd(results Results)
}

// warningLog keeps every engine warning for the export.
type warningLog struct {
	engine.Hooks
	mu       sync.Mutex
	warnings []WarningRecord
}

func newWarningLog() *warningLog {
	log := &warningLog{}
	log.Hooks.Warning = log.add
	return log
}

func (l *warningLog) add(w engine.Warning) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, WarningRecord{Kind: w.Kind, TrialID: w.TrialID, Message: w.String()})
}

func (l *warningLog) records() []WarningRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]WarningRecord, len(l.warnings))
	copy(out, l.warnings)
	return out
}
