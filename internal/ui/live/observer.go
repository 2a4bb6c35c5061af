package live

import (
	"context"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"percept/internal/engine"
	"percept/internal/runner"
)

// Controller runs the participant UI. It implements runner.Participant and
// runner.RunObserver.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once

	streamMu sync.RWMutex
	closed   bool

	mu     sync.Mutex
	submit runner.SubmitFunc
	art    ArtFunc
}

// Start launches a participant UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	controller := &Controller{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	controller.art = opts.Art
	opts.Art = controller.lookupArt
	model := NewModel(controller.events, controller.forward, opts)
	controller.program = tea.NewProgram(model,
		tea.WithOutput(stdout),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	go func() {
		_, _ = controller.program.Run()
		close(controller.done)
	}()
	return controller
}

// Bind stores the selection entry point for the session.
func (c *Controller) Bind(_ context.Context, submit runner.SubmitFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submit = submit
}

// UseArt sets the thumbnail lookup used to draw grid cells.
func (c *Controller) UseArt(art func(ref engine.ImageRef) []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.art = art
}

func (c *Controller) lookupArt(ref engine.ImageRef) []string {
	c.mu.Lock()
	art := c.art
	c.mu.Unlock()
	if art == nil {
		return nil
	}
	return art(ref)
}

// Close signals the UI that no more events follow.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.streamMu.Lock()
		defer c.streamMu.Unlock()
		c.closed = true
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// Done is closed once the UI has exited, including when the participant quits.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) OnRunStart(info runner.RunInfo) {
	c.send(Event{Kind: EventRunStart, Run: info})
}

func (c *Controller) OnTrialPresented(spec engine.TrialSpec) {
	c.send(Event{Kind: EventTrialPresented, Spec: spec})
}

func (c *Controller) OnTrialReady(spec engine.TrialSpec) {
	c.send(Event{Kind: EventTrialReady, Spec: spec})
}

func (c *Controller) OnTrialRecorded(result engine.TrialResult) {
	c.send(Event{Kind: EventTrialRecorded, Result: result})
}

// OnTaskComplete is a no-op; the closing screen waits for OnRunEnd.
func (c *Controller) OnTaskComplete([]engine.TrialResult) {}

func (c *Controller) OnWarning(warning engine.Warning) {
	c.send(Event{Kind: EventWarning, Warning: warning})
}

// OnRunEnd forwards the export to the closing screen and closes the stream.
func (c *Controller) OnRunEnd(results runner.Results) {
	c.send(Event{Kind: EventRunEnd, Results: results})
	c.Close()
}

// forward hands a selection to the bound session.
func (c *Controller) forward(cellIndex int) bool {
	c.mu.Lock()
	submit := c.submit
	c.mu.Unlock()
	if submit == nil {
		return false
	}
	return submit(cellIndex)
}

// send delivers an event unless the UI has already exited. Every trial event
// matters to the participant, so sends wait for the UI rather than drop.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.streamMu.RLock()
	defer c.streamMu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	case <-c.done:
	}
}
