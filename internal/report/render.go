package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"percept/internal/runner"
)

const pageStyle = `body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse;margin-bottom:1.5rem}` +
	`th,td{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}.pass{color:#1a7f37}.fail{color:#cf222e}`

// ReportPage renders an HTML page covering one or more sessions.
func ReportPage(runs []runner.Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>percept report</title><style>"+pageStyle+"</style></head><body><h1>Visual search results</h1>"); err != nil {
			return err
		}
		if err := sessionTable(runs).Render(ctx, w); err != nil {
			return err
		}
		for _, run := range runs {
			if err := taskSection(run).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// sessionTable lists one row per session.
func sessionTable(runs []runner.Results) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<table><thead><tr><th>Participant</th><th>Run</th><th>Study</th><th>Finished</th>" +
			"<th>Trials</th><th>Accuracy</th><th>Mean RT</th><th>Tasks passed</th><th>Warnings</th></tr></thead><tbody>")
		for _, run := range runs {
			s := run.Summary
			participant := run.ParticipantID
			if run.Simulated {
				participant += " (simulated)"
			}
			cells := []string{
				participant,
				run.RunID,
				run.StudyID,
				formatTime(run.FinishedAt),
				fmt.Sprintf("%d/%d", s.TrialsCorrect, s.TrialsTotal),
				formatPercent(s.Accuracy),
				formatMs(s.MeanReactionMs),
				fmt.Sprintf("%d/%d", s.TasksPassed, len(run.Responses)),
				fmt.Sprintf("%d", len(run.Warnings)),
			}
			b.WriteString("<tr>")
			for _, cell := range cells {
				b.WriteString("<td>" + templ.EscapeString(cell) + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// taskSection shows the per-task outcome of a session.
func taskSection(run runner.Results) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h2>" + templ.EscapeString(run.ParticipantID+" / "+run.RunID) + "</h2>")
		b.WriteString("<table><thead><tr><th>Task</th><th>Trials</th><th>Correct</th><th>Result</th></tr></thead><tbody>")
		for _, task := range run.Responses {
			correct := 0
			for _, cell := range task.Response {
				if cell.IsCorrect {
					correct++
				}
			}
			class, label := "fail", "fail"
			if task.IsCorrect {
				class, label = "pass", "pass"
			}
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d</td><td class=\"%s\">%s</td></tr>",
				templ.EscapeString(task.Task), len(task.Response), correct, class, label)
		}
		b.WriteString("</tbody></table>")
		if len(run.Warnings) > 0 {
			b.WriteString("<ul>")
			for _, warning := range run.Warnings {
				b.WriteString("<li>" + templ.EscapeString(string(warning.Kind)+": "+warning.Message) + "</li>")
			}
			b.WriteString("</ul>")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// renderReportHTML renders the report template into a string.
func renderReportHTML(ctx context.Context, runs []runner.Results) (string, error) {
	var builder strings.Builder
	if err := ReportPage(runs).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
