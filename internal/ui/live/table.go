package live

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"percept/internal/runner"
)

// summaryColumns lists the end-of-session table columns.
func summaryColumns() []table.Column {
	return []table.Column{
		{Title: "Task", Width: 10},
		{Title: "Trials", Width: 7},
		{Title: "Correct", Width: 8},
		{Title: "Passed", Width: 7},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	styles.Selected = lipgloss.NewStyle()
	return styles
}

// rowsForResults converts per-task responses into table rows.
func rowsForResults(results runner.Results) []table.Row {
	rows := make([]table.Row, 0, len(results.Responses))
	for _, task := range results.Responses {
		correct := 0
		for _, cell := range task.Response {
			if cell.IsCorrect {
				correct++
			}
		}
		passed := "no"
		if task.IsCorrect {
			passed = "yes"
		}
		rows = append(rows, table.Row{
			task.Task,
			fmt.Sprintf("%d", len(task.Response)),
			fmt.Sprintf("%d", correct),
			passed,
		})
	}
	return rows
}
