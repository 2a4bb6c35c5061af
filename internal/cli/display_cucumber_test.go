//go:build cucumber

package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cucumber/godog"

	"percept/internal/engine"
	"percept/internal/ui/live"
)

// TestParticipantUIScenarios runs the participant UI feature scenarios.
func TestParticipantUIScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "spec", "features", "participant-ui", "testing.feature")
	suite := godog.TestSuite{
		Name:                "participant-ui",
		ScenarioInitializer: InitializeParticipantUIScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeParticipantUIScenario wires steps for participant UI scenarios.
func InitializeParticipantUIScenario(ctx *godog.ScenarioContext) {
	state := &participantUIScenarioState{}
	orig := isTerminal
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		isTerminal = func(io.Writer) bool { return state.isTTY }
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		isTerminal = orig
		return ctx, nil
	})

	ctx.Step(`^a TTY stdout$`, state.givenTTY)
	ctx.Step(`^stdout is not a TTY$`, state.givenNonTTY)
	ctx.Step(`^I run "([^"]+)"$`, state.whenIRun)
	ctx.Step(`^a live UI is shown$`, state.thenLiveUIShown)
	ctx.Step(`^the output uses plain progress lines$`, state.thenPlainOutput)
	ctx.Step(`^a (\d+)x\d+ trial is presented$`, state.givenTrialPresented)
	ctx.Step(`^the participant clicks a cell during fixation$`, state.whenClick)
	ctx.Step(`^the grid opens$`, state.whenGridOpens)
	ctx.Step(`^the participant clicks cell (\d+)$`, state.whenClickCell)
	ctx.Step(`^no selection is submitted$`, state.thenNoSelection)
	ctx.Step(`^cell (\d+) is submitted once$`, state.thenSubmittedOnce)
}

type participantUIScenarioState struct {
	isTTY     bool
	display   display
	model     tea.Model
	submitted []int
}

// reset clears scenario state.
func (s *participantUIScenarioState) reset() {
	s.isTTY = false
	s.display = display{}
	s.submitted = nil
	s.model = live.NewModel(nil, func(idx int) bool {
		s.submitted = append(s.submitted, idx)
		return true
	}, live.Options{NoColor: true})
}

func (s *participantUIScenarioState) givenTTY() error {
	s.isTTY = true
	return nil
}

func (s *participantUIScenarioState) givenNonTTY() error {
	s.isTTY = false
	return nil
}

// whenIRun picks the display for the command line.
func (s *participantUIScenarioState) whenIRun(command string) error {
	disp, err := chooseDisplay("auto", strings.Contains(command, "--simulate"), nil)
	if err != nil {
		return err
	}
	s.display = disp
	return nil
}

func (s *participantUIScenarioState) thenLiveUIShown() error {
	if !s.display.live {
		return fmt.Errorf("expected live UI to be enabled")
	}
	return nil
}

func (s *participantUIScenarioState) thenPlainOutput() error {
	if s.display.live {
		return fmt.Errorf("expected plain output")
	}
	return nil
}

func (s *participantUIScenarioState) spec(gridSize int) engine.TrialSpec {
	spec := engine.TrialSpec{ID: 1, GridSize: gridSize}
	for i := 0; i < gridSize*gridSize; i++ {
		spec.Cells = append(spec.Cells, engine.CellSpec{Image: "wrong.png", Row: i/gridSize + 1, Column: i%gridSize + 1})
	}
	spec.Cells[0].IsTarget = true
	return spec
}

func (s *participantUIScenarioState) givenTrialPresented(gridSize int) error {
	s.model, _ = s.model.Update(live.EventMsg{Event: live.Event{Kind: live.EventTrialPresented, Spec: s.spec(gridSize)}})
	return nil
}

func (s *participantUIScenarioState) whenGridOpens() error {
	m := s.model.(live.Model)
	s.model, _ = s.model.Update(live.EventMsg{Event: live.Event{Kind: live.EventTrialReady, Spec: m.State().Trial}})
	if s.model.(live.Model).State().Phase != live.PhaseGrid {
		return fmt.Errorf("expected grid phase")
	}
	return nil
}

func (s *participantUIScenarioState) whenClick() error {
	return s.whenClickCell(0)
}

// whenClickCell clicks the middle of a cell and runs the resulting command.
func (s *participantUIScenarioState) whenClickCell(idx int) error {
	m := s.model.(live.Model)
	layout := m.Layout()
	n := max(layout.GridSize, 1)
	x := layout.Left + (idx%n)*(layout.CellWidth+layout.Gap) + 1
	y := layout.Top + (idx/n)*layout.CellHeight + 1
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd != nil {
		s.model, _ = s.model.Update(cmd())
	}
	return nil
}

func (s *participantUIScenarioState) thenNoSelection() error {
	if len(s.submitted) != 0 {
		return fmt.Errorf("expected no selection, got %v", s.submitted)
	}
	return nil
}

func (s *participantUIScenarioState) thenSubmittedOnce(idx int) error {
	if len(s.submitted) != 1 || s.submitted[0] != idx {
		return fmt.Errorf("expected cell %d once, got %v", idx, s.submitted)
	}
	return nil
}
