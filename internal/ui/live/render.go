package live

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"percept/internal/engine"
)

const (
	headerLines = 2
	cellGap     = 1
)

// renderHeader renders the session header followed by a blank line.
func renderHeader(state State, noColor bool) string {
	parts := []string{"percept"}
	if state.Run.StudyID != "" {
		parts = append(parts, state.Run.StudyID)
	}
	if state.Run.ParticipantID != "" {
		parts = append(parts, "participant "+state.Run.ParticipantID)
	}
	if state.Run.Trials > 0 && state.Phase != PhaseDone {
		parts = append(parts, fmt.Sprintf("trial %d/%d", min(state.TrialNumber(), state.Run.Trials), state.Run.Trials))
	}
	line := strings.Join(parts, " | ")
	if !noColor {
		line = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Render(line)
	}
	return line + "\n"
}

// renderFixation draws a centered fixation cross over the grid area.
func renderFixation(layout Layout, noColor bool) string {
	cross := "+"
	if !noColor {
		cross = lipgloss.NewStyle().Bold(true).Render(cross)
	}
	return lipgloss.Place(max(layout.Width(), 1), max(layout.Height(), 1), lipgloss.Center, lipgloss.Center, cross)
}

// renderGrid draws every cell of the trial with the cursor highlighted.
func renderGrid(spec engine.TrialSpec, art ArtFunc, cursor, artWidth, artHeight int, noColor bool) string {
	rows := make([]string, 0, spec.GridSize)
	gap := strings.Repeat(" ", cellGap)
	for r := 0; r < spec.GridSize; r++ {
		cells := make([]string, 0, 2*spec.GridSize-1)
		for c := 0; c < spec.GridSize; c++ {
			idx := r*spec.GridSize + c
			if c > 0 {
				cells = append(cells, gap)
			}
			var lines []string
			if art != nil && idx < len(spec.Cells) {
				lines = art(spec.Cells[idx].Image)
			}
			cells = append(cells, renderCell(lines, idx == cursor, artWidth, artHeight, noColor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCell draws one bordered image cell.
func renderCell(lines []string, focused bool, artWidth, artHeight int, noColor bool) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(artWidth).
		Height(artHeight)
	if focused {
		style = style.Border(lipgloss.ThickBorder())
	}
	if !noColor {
		if focused {
			style = style.BorderForeground(lipgloss.Color("212"))
		} else {
			style = style.BorderForeground(lipgloss.Color("240"))
		}
	}
	return style.Render(cellContent(lines, artWidth, artHeight))
}

// cellContent clips art to the cell or draws a placeholder when none exists.
func cellContent(lines []string, artWidth, artHeight int) string {
	if len(lines) == 0 {
		return lipgloss.Place(artWidth, artHeight, lipgloss.Center, lipgloss.Center, "?")
	}
	out := make([]string, 0, artHeight)
	for i, line := range lines {
		if i >= artHeight {
			break
		}
		runes := []rune(line)
		if len(runes) > artWidth {
			runes = runes[:artWidth]
		}
		out = append(out, string(runes))
	}
	return strings.Join(out, "\n")
}

// renderFooter renders the help line and the latest warning.
func renderFooter(state State, helpView string, noColor bool) string {
	lines := []string{"", helpView}
	if state.LastWarning != "" {
		warning := fmt.Sprintf("warnings: %d (last: %s)", state.Warnings, state.LastWarning)
		if !noColor {
			warning = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(warning)
		}
		lines = append(lines, warning)
	}
	return strings.Join(lines, "\n")
}

// renderDone renders the closing screen.
func renderDone(state State, tableView string) string {
	summary := state.Results.Summary
	lines := []string{
		"Session complete. Thank you!",
		"",
		fmt.Sprintf("%d/%d correct (%.0f%%)", summary.TrialsCorrect, summary.TrialsTotal, 100*summary.Accuracy),
		"",
		tableView,
	}
	return strings.Join(lines, "\n")
}
