package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"percept/internal/runner"
)

// BuildReportHTML renders an HTML report for sessions.
func BuildReportHTML(runs []runner.Results) string {
	html, err := renderReportHTML(context.Background(), runs)
	if err != nil {
		return ""
	}
	return html
}

// WriteReport writes the HTML report for sessions to path.
func WriteReport(ctx context.Context, path string, runs []runner.Results) error {
	html, err := renderReportHTML(ctx, runs)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteSummary prints a plain-text summary of one session.
func WriteSummary(w io.Writer, results runner.Results) error {
	s := results.Summary
	if _, err := fmt.Fprintf(w, "participant %s  run %s  study %s\n", results.ParticipantID, results.RunID, results.StudyID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "accuracy %s (%d/%d)  mean rt %s  tasks passed %d/%d\n",
		formatPercent(s.Accuracy), s.TrialsCorrect, s.TrialsTotal, formatMs(s.MeanReactionMs), s.TasksPassed, len(results.Responses)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tTRIALS\tCORRECT\tPASSED")
	for _, task := range results.Responses {
		correct := 0
		for _, cell := range task.Response {
			if cell.IsCorrect {
				correct++
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%t\n", task.Task, len(task.Response), correct, task.IsCorrect)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if s.LoadFailures > 0 || len(results.Warnings) > 0 {
		if _, err := fmt.Fprintf(w, "warnings %d  load failures %d\n", len(results.Warnings), s.LoadFailures); err != nil {
			return err
		}
	}
	return nil
}
