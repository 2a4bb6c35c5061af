package runner

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"percept/internal/engine"
)

// SimulatedParticipant answers every ready trial on its own, for pilot runs
// of a study without a person at the keyboard.
type SimulatedParticipant struct {
	engine.Hooks

	// Accuracy is the probability of choosing the target.
	Accuracy float64
	// Delay is the simulated reaction time before each selection.
	Delay time.Duration
	Clock engine.Clock

	mu     sync.Mutex
	rng    *rand.Rand
	ctx    context.Context
	submit SubmitFunc
}

// NewSimulatedParticipant builds a participant with the given accuracy.
func NewSimulatedParticipant(accuracy float64, delay time.Duration, rng *rand.Rand) *SimulatedParticipant {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &SimulatedParticipant{Accuracy: accuracy, Delay: delay, rng: rng}
	p.Hooks.TrialReady = p.answer
	return p
}

func (p *SimulatedParticipant) Bind(ctx context.Context, submit SubmitFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctx = ctx
	p.submit = submit
}

// Choose picks the cell the participant clicks for spec.
func (p *SimulatedParticipant) Choose(spec engine.TrialSpec) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := spec.TargetIndex()
	if p.rng.Float64() < p.Accuracy || len(spec.Cells) < 2 {
		return target
	}
	choice := p.rng.IntN(len(spec.Cells) - 1)
	if choice >= target {
		choice++
	}
	return choice
}

func (p *SimulatedParticipant) answer(spec engine.TrialSpec) {
	cell := p.Choose(spec)
	p.mu.Lock()
	ctx, submit := p.ctx, p.submit
	p.mu.Unlock()
	if submit == nil {
		return
	}
	if p.Delay <= 0 {
		submit(cell)
		return
	}
	clock := p.Clock
	if clock == nil {
		clock = systemClock{}
	}
	go func() {
		select {
		case <-clock.After(p.Delay):
			submit(cell)
		case <-ctx.Done():
		}
	}()
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
