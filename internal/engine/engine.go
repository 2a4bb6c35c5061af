package engine

import (
	"context"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Options configures an Engine.
type Options struct {
	Loader Loader
	Clock  Clock
	// Rand drives every random draw; nil seeds one randomly.
	Rand *rand.Rand
	// Fixation is used as given; hosts normally pass DefaultFixation.
	Fixation           time.Duration
	Anchor             FixationAnchor
	LoadTimeout        time.Duration
	PreloadConcurrency int
	Observer           Observer
	Logger             *zap.Logger
}

// gater is the gate contract the sequencer depends on.
type gater interface {
	Open(ctx context.Context, spec TrialSpec) GateReport
}

// runState is the TaskRunState; only the Engine mutates it, under mu.
type runState struct {
	lifecycle     Lifecycle
	stageIndex    int
	trialInStage  int
	progress      map[string]int
	previousGroup string
	results       []TrialResult
	current       TrialSpec
	presentedAt   time.Time
	loadFailures  int
	nextID        uint64
	cancelGate    context.CancelFunc
}

// Engine sequences the trials of a visual-search task.
type Engine struct {
	mu       sync.Mutex
	rng      *rand.Rand
	clock    Clock
	gate     gater
	observer Observer
	logger   *zap.Logger

	stages  []StageConfig
	sampler *Sampler

	configured bool
	started    bool
	ctx        context.Context
	state      runState

	outbox   []func()
	flushing bool
	done     chan struct{}
}

// New creates an unconfigured engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	observer := opts.Observer
	if observer == nil {
		observer = Hooks{}
	}
	return &Engine{
		rng:      opts.Rand,
		clock:    clock,
		observer: observer,
		logger:   logger,
		gate: NewGate(GateOptions{
			Loader:      opts.Loader,
			Clock:       clock,
			Fixation:    opts.Fixation,
			Anchor:      opts.Anchor,
			LoadTimeout: opts.LoadTimeout,
			Concurrency: opts.PreloadConcurrency,
			Logger:      logger,
		}),
		state: runState{lifecycle: LifecyclePending},
		done:  make(chan struct{}),
	}
}

// Configure installs stages and pools. It may be called once and fails fast
// on any misconfiguration.
func (e *Engine) Configure(stages []StageConfig, pools map[string]PoolPair) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.configured {
		return ErrAlreadyConfigured
	}
	if err := validateSetup(stages, pools); err != nil {
		return err
	}
	e.stages = slices.Clone(stages)
	for i := range e.stages {
		if e.stages[i].Balance == "" {
			e.stages[i].Balance = BalanceNone
		}
	}
	e.sampler = NewSampler(maps.Clone(pools), e.rng)
	e.state.progress = map[string]int{}
	e.configured = true
	return nil
}

// Start presents the first trial. ctx bounds every pending preload.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if !e.configured {
		e.mu.Unlock()
		return ErrNotConfigured
	}
	if e.started {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.started = true
	e.ctx = ctx
	e.logger.Info("task started", zap.Int("stages", len(e.stages)))
	e.beginTrialLocked()
	e.mu.Unlock()
	e.flush()
	return nil
}

// Submit records a selection of the cell at cellIndex. It reports whether the
// selection was accepted; selections outside awaiting_input are ignored.
func (e *Engine) Submit(cellIndex int) bool {
	e.mu.Lock()
	st := &e.state
	if st.lifecycle != LifecycleAwaitingInput {
		e.logger.Debug("selection ignored", zap.Int("cell", cellIndex), zap.String("lifecycle", string(st.lifecycle)))
		e.mu.Unlock()
		return false
	}
	result, ok := Record(st.current, cellIndex, len(st.results)+1, st.presentedAt, e.clock.Now(), st.loadFailures)
	if !ok {
		e.logger.Debug("selection out of range", zap.Int("cell", cellIndex), zap.Int("cells", len(st.current.Cells)))
		e.mu.Unlock()
		return false
	}

	st.results = append(st.results, result)
	stage := e.stages[st.stageIndex]
	if stage.Balance.Balanced() {
		st.progress[result.GroupLabel]++
	}
	st.previousGroup = st.current.GroupLabel
	e.logger.Debug("trial recorded",
		zap.Int("trial", result.TrialNumber),
		zap.Int("grid_size", result.GridSize),
		zap.Bool("correct", result.Correct),
		zap.String("group", result.GroupLabel))
	e.emit(func(o Observer) { o.OnTrialRecorded(result) })

	last := st.trialInStage+1 == stage.TrialCount
	switch {
	case last && st.stageIndex+1 < len(e.stages):
		st.stageIndex++
		st.trialInStage = 0
		st.progress = map[string]int{}
		st.previousGroup = ""
		e.logger.Info("stage advanced", zap.Int("stage", st.stageIndex))
		e.beginTrialLocked()
	case last:
		e.completeLocked()
	default:
		st.trialInStage++
		e.beginTrialLocked()
	}
	e.mu.Unlock()
	e.flush()
	return true
}

// Wait blocks until the task completes or ctx ends.
func (e *Engine) Wait(ctx context.Context) ([]TrialResult, error) {
	select {
	case <-e.done:
		return e.Results(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once OnTaskComplete has been delivered.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Results returns a copy of the trial log so far.
func (e *Engine) Results() []TrialResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.state.results)
}

// Snapshot returns a copy of the current run state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Lifecycle:     e.state.lifecycle,
		StageIndex:    e.state.stageIndex,
		TrialInStage:  e.state.trialInStage,
		TrialID:       e.state.current.ID,
		GroupProgress: maps.Clone(e.state.progress),
		Results:       len(e.state.results),
	}
}

// beginTrialLocked samples the next grid and arms its gate.
func (e *Engine) beginTrialLocked() {
	st := &e.state
	stage := e.stages[st.stageIndex]
	spec, warning := e.sampler.Next(st.stageIndex, stage, st.trialInStage, st.progress, st.previousGroup)
	st.nextID++
	spec.ID = st.nextID
	st.current = spec
	st.presentedAt = time.Time{}
	st.loadFailures = 0
	st.lifecycle = LifecyclePresenting

	if warning != nil {
		warning.TrialID = spec.ID
		e.logger.Warn("pool exhausted", zap.String("group", warning.Label), zap.Int("have", warning.Have), zap.Int("need", warning.Need))
		w := *warning
		e.emit(func(o Observer) { o.OnWarning(w) })
	}
	presented := cloneSpec(spec)
	e.emit(func(o Observer) { o.OnTrialPresented(presented) })

	if st.cancelGate != nil {
		st.cancelGate()
	}
	gateCtx, cancel := context.WithCancel(e.ctx)
	st.cancelGate = cancel
	st.lifecycle = LifecycleAwaitingLoad
	e.logger.Debug("trial presented",
		zap.Uint64("trial_id", spec.ID),
		zap.Int("stage", spec.StageIndex),
		zap.Int("trial_in_stage", spec.TrialInStage),
		zap.String("group", spec.GroupLabel))

	go func() {
		report := e.gate.Open(gateCtx, spec)
		e.gateOpened(report)
	}()
}

// gateOpened applies a gate report if it belongs to the current trial.
func (e *Engine) gateOpened(report GateReport) {
	e.mu.Lock()
	st := &e.state
	if report.Cancelled || report.TrialID != st.current.ID || st.lifecycle != LifecycleAwaitingLoad {
		e.logger.Debug("stale gate ignored",
			zap.Uint64("trial_id", report.TrialID),
			zap.Uint64("current_trial_id", st.current.ID),
			zap.Bool("cancelled", report.Cancelled))
		e.mu.Unlock()
		return
	}
	st.lifecycle = LifecycleReady
	st.presentedAt = report.OpenedAt
	st.loadFailures = len(report.Failures)
	for _, failure := range report.Failures {
		w := Warning{Kind: WarningAssetLoad, TrialID: report.TrialID, Image: failure.Image, Err: failure.Err}
		e.emit(func(o Observer) { o.OnWarning(w) })
	}
	ready := cloneSpec(st.current)
	st.lifecycle = LifecycleAwaitingInput
	e.emit(func(o Observer) { o.OnTrialReady(ready) })
	e.mu.Unlock()
	e.flush()
}

// completeLocked enters the terminal state and hands off the results.
func (e *Engine) completeLocked() {
	st := &e.state
	st.lifecycle = LifecycleCompleted
	if st.cancelGate != nil {
		st.cancelGate()
		st.cancelGate = nil
	}
	results := slices.Clone(st.results)
	e.logger.Info("task completed", zap.Int("trials", len(results)))
	e.emit(func(o Observer) {
		o.OnTaskComplete(results)
		close(e.done)
	})
}

// emit queues a notification; callers hold mu.
func (e *Engine) emit(fn func(Observer)) {
	e.outbox = append(e.outbox, func() { fn(e.observer) })
}

// flush delivers queued notifications outside the lock. Only one goroutine
// delivers at a time; re-entrant calls leave their events to it.
func (e *Engine) flush() {
	e.mu.Lock()
	if e.flushing {
		e.mu.Unlock()
		return
	}
	e.flushing = true
	for len(e.outbox) > 0 {
		batch := e.outbox
		e.outbox = nil
		e.mu.Unlock()
		for _, deliver := range batch {
			deliver()
		}
		e.mu.Lock()
	}
	e.flushing = false
	e.mu.Unlock()
}

func cloneSpec(spec TrialSpec) TrialSpec {
	spec.Cells = slices.Clone(spec.Cells)
	return spec
}
