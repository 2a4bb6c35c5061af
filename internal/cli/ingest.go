package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"percept/internal/duckdb"
)

func runIngest(cmd *Command) handler {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dbPath := fs.String("db", "", "DuckDB database file")
		specPath := fs.String("spec", "", "Path to study file (default: search for .percept/study.yml)")
		inputDir := fs.String("input", "", "Directory containing sessions (default: the study output dir)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if strings.TrimSpace(*dbPath) == "" {
			fmt.Fprintln(stderr, "Missing --db")
			return ExitUsage
		}

		outputDir, studyID, err := resolveStudyOutput(*inputDir, *specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve input: %v\n", err)
			return ExitError
		}
		paths := fs.Args()
		if len(paths) == 0 {
			paths, err = filepath.Glob(filepath.Join(outputDir, studyID, "*", "study-results-*.json"))
			if err != nil {
				fmt.Fprintf(stderr, "Failed to list sessions: %v\n", err)
				return ExitError
			}
		}
		if len(paths) == 0 {
			fmt.Fprintf(stderr, "No sessions found for study %s\n", studyID)
			return ExitError
		}

		ctx := context.Background()
		db, err := duckdb.Open(ctx, *dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open database: %v\n", err)
			return ExitError
		}
		defer db.Close()

		outcomes, err := duckdb.IngestFiles(ctx, db, paths)
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}
		added := 0
		for _, outcome := range outcomes {
			if !outcome.Duplicate {
				added++
			}
		}
		fmt.Fprintf(stdout, "Ingested %d new sessions (%d already stored)\n", added, len(outcomes)-added)

		byGrid, err := duckdb.AccuracyByGrid(ctx, db, studyID)
		if err != nil {
			fmt.Fprintf(stderr, "Query failed: %v\n", err)
			return ExitError
		}
		byGroup, err := duckdb.AccuracyByGroup(ctx, db, studyID)
		if err != nil {
			fmt.Fprintf(stderr, "Query failed: %v\n", err)
			return ExitError
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "GRID\tTRIALS\tCORRECT\tACCURACY\tMEAN RT")
		for _, row := range byGrid {
			fmt.Fprintf(tw, "%dx%d\t%d\t%d\t%.1f%%\t%.0f ms\n", row.GridSize, row.GridSize, row.Trials, row.Correct, 100*row.Rate(), row.MeanReactionMs)
		}
		fmt.Fprintln(tw, "GROUP\tTRIALS\tCORRECT\tACCURACY\tMEAN RT")
		for _, row := range byGroup {
			label := row.GroupLabel
			if label == "" {
				label = "(none)"
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%.0f ms\n", label, row.Trials, row.Correct, 100*row.Rate(), row.MeanReactionMs)
		}
		if err := tw.Flush(); err != nil {
			fmt.Fprintf(stderr, "Failed to print accuracy: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
