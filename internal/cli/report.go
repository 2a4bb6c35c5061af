package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"percept/internal/config"
	"percept/internal/report"
	"percept/internal/runner"
)

var writeReport = report.WriteReport

// writeSessionReport renders report.html next to a session export.
func writeSessionReport(ctx context.Context, paths runner.OutputPaths, results runner.Results) error {
	return writeReport(ctx, paths.ReportPath(), []runner.Results{results})
}

func runReport(cmd *Command) handler {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		specPath := fs.String("spec", "", "Path to study file (default: search for .percept/study.yml)")
		inputDir := fs.String("input", "", "Directory containing sessions (default: the study output dir)")
		runRef := fs.String("run", report.LatestRef, "Run id or \"latest\"")
		all := fs.Bool("all", false, "Report every session of the study")
		outputPath := fs.String("output", "", "Report output path")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			return ExitUsage
		}

		outputDir, studyID, err := resolveStudyOutput(*inputDir, *specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve input: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		if *all {
			runs, err := report.LoadStudy(outputDir, studyID)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load sessions: %v\n", err)
				return ExitError
			}
			if len(runs) == 0 {
				fmt.Fprintf(stderr, "No sessions found for study %s\n", studyID)
				return ExitError
			}
			reportPath := *outputPath
			if reportPath == "" {
				reportPath = filepath.Join(outputDir, studyID, "report.html")
			}
			if err := writeReport(ctx, reportPath, runs); err != nil {
				fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Report for %d sessions written to %s\n", len(runs), reportPath)
			return ExitOK
		}

		results, runDir, err := report.ResolveRun(outputDir, studyID, *runRef)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve run: %v\n", err)
			return ExitError
		}
		if err := report.WriteSummary(stdout, results); err != nil {
			fmt.Fprintf(stderr, "Failed to print summary: %v\n", err)
			return ExitError
		}
		reportPath := *outputPath
		if reportPath == "" {
			reportPath = filepath.Join(runDir, "report.html")
		}
		if err := writeReport(ctx, reportPath, []runner.Results{results}); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
		return ExitOK
	}
}

// resolveStudyOutput returns the sessions root and study id from the study file.
func resolveStudyOutput(inputDir, specPath string) (string, string, error) {
	resolvedSpec, err := config.Locate(specPath)
	if err != nil {
		return "", "", err
	}
	cfg, err := config.Load(resolvedSpec)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(inputDir) != "" {
		abs, err := filepath.Abs(inputDir)
		if err != nil {
			return "", "", err
		}
		return abs, cfg.Study.ID, nil
	}
	return config.ResolvePath(config.StudyRootFromConfigPath(resolvedSpec), cfg.Study.OutputDir), cfg.Study.ID, nil
}
