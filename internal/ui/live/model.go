package live

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"percept/internal/engine"
)

const (
	defaultArtWidth  = 12
	defaultArtHeight = 6
)

// ArtFunc returns the block-art rows for an image, or nil when none is cached.
type ArtFunc func(ref engine.ImageRef) []string

// Options configures the participant UI model.
type Options struct {
	NoColor   bool
	Art       ArtFunc
	ArtWidth  int
	ArtHeight int
}

// Model renders the participant console UI using Bubble Tea.
type Model struct {
	state     State
	events    <-chan Event
	submit    func(cellIndex int) bool
	art       ArtFunc
	keys      keyMap
	help      help.Model
	table     table.Model
	cursor    int
	pending   bool
	closed    bool
	artWidth  int
	artHeight int
	noColor   bool
}

// NewModel constructs a participant UI model for an event stream. Selections
// are forwarded through submit.
func NewModel(events <-chan Event, submit func(cellIndex int) bool, opts Options) Model {
	artWidth, artHeight := opts.ArtWidth, opts.ArtHeight
	if artWidth <= 0 {
		artWidth = defaultArtWidth
	}
	if artHeight <= 0 {
		artHeight = defaultArtHeight
	}
	t := table.New(
		table.WithColumns(summaryColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		events:    events,
		submit:    submit,
		art:       opts.Art,
		keys:      defaultKeyMap(),
		help:      help.New(),
		table:     t,
		artWidth:  artWidth,
		artHeight: artHeight,
		noColor:   opts.NoColor,
	}
}

// Init waits for the first event.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update consumes session events and participant input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		return m, nil
	case EventMsg:
		m = m.applyEvent(typed.Event)
		return m, waitForEvent(m.events)
	case eventsClosedMsg:
		m.closed = true
		if m.state.Phase != PhaseDone {
			return m, tea.Quit
		}
		return m, nil
	case submittedMsg:
		if !typed.accepted {
			m.pending = false
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.MouseMsg:
		if typed.Action != tea.MouseActionPress || typed.Button != tea.MouseButtonLeft {
			return m, nil
		}
		idx, ok := m.Layout().CellAt(typed.X, typed.Y)
		if !ok {
			return m, nil
		}
		m.cursor = idx
		return m.choose(idx)
	}
	return m, nil
}

// View renders the participant UI.
func (m Model) View() string {
	header := renderHeader(m.state, m.noColor)
	var body string
	switch m.state.Phase {
	case PhaseFixation:
		body = renderFixation(m.Layout(), m.noColor)
	case PhaseGrid:
		body = renderGrid(m.state.Trial, m.art, m.cursor, m.artWidth, m.artHeight, m.noColor)
	case PhaseDone:
		body = renderDone(m.state, m.table.View())
	default:
		body = "Please wait..."
	}
	footer := renderFooter(m.state, m.help.ShortHelpView(m.keys.bindingsFor(m.state.Phase)), m.noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Layout reports where the current trial's cells are drawn.
func (m Model) Layout() Layout {
	return Layout{
		Top:        headerLines,
		CellWidth:  m.artWidth + 2,
		CellHeight: m.artHeight + 2,
		Gap:        cellGap,
		GridSize:   m.state.Trial.GridSize,
	}
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.state.Phase != PhaseGrid {
		return m, nil
	}
	n := m.state.Trial.GridSize
	row, column := m.cursor/n, m.cursor%n
	switch {
	case key.Matches(msg, m.keys.Up):
		row = max(row-1, 0)
	case key.Matches(msg, m.keys.Down):
		row = min(row+1, n-1)
	case key.Matches(msg, m.keys.Left):
		column = max(column-1, 0)
	case key.Matches(msg, m.keys.Right):
		column = min(column+1, n-1)
	case key.Matches(msg, m.keys.Select):
		return m.choose(m.cursor)
	}
	m.cursor = row*n + column
	return m, nil
}

// choose sends a selection once per trial. The engine call runs as a
// command so observer callbacks never block the UI loop.
func (m Model) choose(idx int) (tea.Model, tea.Cmd) {
	if m.state.Phase != PhaseGrid || m.pending || m.submit == nil {
		return m, nil
	}
	m.pending = true
	submit := m.submit
	return m, func() tea.Msg {
		return submittedMsg{accepted: submit(idx)}
	}
}

// applyEvent folds a session event into the model.
func (m Model) applyEvent(event Event) Model {
	m.state = Reduce(m.state, event)
	switch event.Kind {
	case EventTrialPresented:
		m.cursor = 0
		m.pending = false
	case EventRunEnd:
		rows := rowsForResults(m.state.Results)
		m.table.SetRows(rows)
		m.table.SetHeight(len(rows) + 3)
	}
	return m
}

// EventMsg wraps a UI event for Bubble Tea.
type EventMsg struct {
	Event Event
}

type eventsClosedMsg struct{}

type submittedMsg struct {
	accepted bool
}

// waitForEvent blocks until a UI event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return EventMsg{Event: event}
	}
}
