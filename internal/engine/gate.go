package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultFixation is the minimum time a fixation cross stays up.
	DefaultFixation = 1000 * time.Millisecond
	// DefaultLoadTimeout bounds how long a trial waits for its images.
	DefaultLoadTimeout = 10 * time.Second
	// DefaultPreloadConcurrency bounds parallel image loads per trial.
	DefaultPreloadConcurrency = 8
)

// FixationAnchor selects the instant the fixation interval is measured from.
type FixationAnchor string

const (
	// AnchorTrialStart opens at max(load complete, trial start + fixation).
	AnchorTrialStart FixationAnchor = "trial_start"
	// AnchorLoadComplete opens at load complete + fixation.
	AnchorLoadComplete FixationAnchor = "load_complete"
)

// errLoadTimeout marks images still loading when the load timeout fired.
var errLoadTimeout = errors.New("load timed out")

// Loader fetches and decodes one image. It must honor ctx cancellation.
type Loader interface {
	Load(ctx context.Context, ref ImageRef) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, ref ImageRef) error

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, ref ImageRef) error {
	return f(ctx, ref)
}

// LoadFailure records an image that did not load.
type LoadFailure struct {
	Image ImageRef
	Err   error
}

// GateReport describes how a trial's gate resolved.
type GateReport struct {
	TrialID   uint64
	StartedAt time.Time
	LoadedAt  time.Time
	OpenedAt  time.Time
	Failures  []LoadFailure
	// Cancelled is set when the trial context ended before the gate opened.
	Cancelled bool
}

// GateOptions configures a Gate.
type GateOptions struct {
	Loader      Loader
	Clock       Clock
	Fixation    time.Duration
	Anchor      FixationAnchor
	LoadTimeout time.Duration
	Concurrency int
	Logger      *zap.Logger
}

// Gate is a single-shot barrier per trial: images loaded and fixation elapsed.
type Gate struct {
	loader      Loader
	clock       Clock
	fixation    time.Duration
	anchor      FixationAnchor
	loadTimeout time.Duration
	concurrency int
	logger      *zap.Logger
}

// NewGate builds a gate, filling unset options with defaults.
func NewGate(opts GateOptions) *Gate {
	g := &Gate{
		loader:      opts.Loader,
		clock:       opts.Clock,
		fixation:    opts.Fixation,
		anchor:      opts.Anchor,
		loadTimeout: opts.LoadTimeout,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
	if g.loader == nil {
		g.loader = LoaderFunc(func(context.Context, ImageRef) error { return nil })
	}
	if g.clock == nil {
		g.clock = realClock{}
	}
	if g.fixation < 0 {
		g.fixation = 0
	}
	if g.anchor == "" {
		g.anchor = AnchorTrialStart
	}
	if g.loadTimeout <= 0 {
		g.loadTimeout = DefaultLoadTimeout
	}
	if g.concurrency <= 0 {
		g.concurrency = DefaultPreloadConcurrency
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// OpenAt computes when a grid becomes interactive.
func OpenAt(startedAt, loadedAt time.Time, fixation time.Duration, anchor FixationAnchor) time.Time {
	if anchor == AnchorLoadComplete {
		return loadedAt.Add(fixation)
	}
	floor := startedAt.Add(fixation)
	if loadedAt.After(floor) {
		return loadedAt
	}
	return floor
}

// Open blocks until the trial may accept input or ctx ends.
func (g *Gate) Open(ctx context.Context, spec TrialSpec) GateReport {
	report := GateReport{TrialID: spec.ID, StartedAt: g.clock.Now()}
	report.Failures = g.preload(ctx, spec)
	report.LoadedAt = g.clock.Now()
	if ctx.Err() != nil {
		report.Cancelled = true
		return report
	}

	for _, failure := range report.Failures {
		g.logger.Warn("image failed to load",
			zap.Uint64("trial_id", spec.ID),
			zap.String("image", string(failure.Image)),
			zap.Error(failure.Err))
	}

	openAt := OpenAt(report.StartedAt, report.LoadedAt, g.fixation, g.anchor)
	if wait := openAt.Sub(report.LoadedAt); wait > 0 {
		select {
		case <-g.clock.After(wait):
		case <-ctx.Done():
			report.Cancelled = true
			return report
		}
	}
	report.OpenedAt = g.clock.Now()
	return report
}

// preload loads every distinct image of the grid, returning what failed.
// It returns once all loads settle or the load timeout fires.
func (g *Gate) preload(ctx context.Context, spec TrialSpec) []LoadFailure {
	images := spec.Images()
	loadCtx, cancel := context.WithTimeout(ctx, g.loadTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		failures []LoadFailure
		pending  = make(map[ImageRef]struct{}, len(images))
	)
	for _, ref := range images {
		pending[ref] = struct{}{}
	}

	eg := new(errgroup.Group)
	eg.SetLimit(g.concurrency)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, ref := range images {
			if loadCtx.Err() != nil {
				break
			}
			eg.Go(func() error {
				err := g.loader.Load(loadCtx, ref)
				mu.Lock()
				defer mu.Unlock()
				delete(pending, ref)
				if err != nil {
					failures = append(failures, LoadFailure{Image: ref, Err: err})
				}
				return nil
			})
		}
		_ = eg.Wait()
	}()

	select {
	case <-done:
	case <-loadCtx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	out := append([]LoadFailure(nil), failures...)
	for _, ref := range images {
		if _, ok := pending[ref]; ok {
			out = append(out, LoadFailure{Image: ref, Err: errLoadTimeout})
		}
	}
	return out
}
