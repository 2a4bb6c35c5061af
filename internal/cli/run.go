package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"percept/internal/config"
	"percept/internal/runner"
	"percept/internal/ui/live"
)

var (
	runAndWrite = runner.RunAndWrite
	startLiveUI = func(stdout io.Writer, opts live.Options) liveController { return live.Start(stdout, opts) }
)

// liveController is the participant UI seen by the run command.
type liveController interface {
	runner.Participant
	runner.RunObserver
	Close()
	Wait()
	Done() <-chan struct{}
}

func runRun(cmd *Command) handler {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		specPath := fs.String("spec", "", "Path to study file (default: search for .percept/study.yml)")
		participant := fs.String("participant", "", "Participant id")
		outputDir := fs.String("output-dir", "", "Override output directory")
		simulate := fs.Bool("simulate", false, "Answer trials with a simulated participant")
		accuracy := fs.Float64("accuracy", 0.8, "Simulated participant accuracy")
		delayMS := fs.Int("delay-ms", 0, "Simulated response delay in milliseconds")
		fixationMS := fs.Int("fixation-ms", -1, "Override fixation duration in milliseconds")
		seed := fs.Uint64("seed", 0, "Seed for the simulated participant")
		uiMode := fs.String("ui", "auto", "UI mode: auto|live|plain")
		noColor := fs.Bool("no-color", false, "Disable colored output")
		verbose := fs.Bool("verbose", false, "Write logs to stderr (simulated runs)")
		logPath := fs.String("log", "", "Write logs to a file")
		logLevel := fs.String("log-level", "info", "Log level: debug|info|warn|error")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if strings.TrimSpace(*participant) == "" {
			fmt.Fprintln(stderr, "Missing --participant")
			return ExitUsage
		}
		if *accuracy < 0 || *accuracy > 1 {
			fmt.Fprintf(stderr, "Invalid --accuracy %v (expected 0..1)\n", *accuracy)
			return ExitUsage
		}

		resolvedSpec, err := config.Locate(*specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to find study: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolvedSpec)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load study: %v\n", err)
			return ExitError
		}

		disp, err := chooseDisplay(*uiMode, *simulate, stdout)
		if errors.Is(err, errNeedsTerminal) {
			fmt.Fprintf(stderr, "Cannot start session: %v\n", err)
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if disp.note != "" {
			fmt.Fprintln(stderr, disp.note)
		}

		logger, err := newLogger(*logLevel, *logPath, *verbose && *simulate)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		defer func() { _ = logger.Sync() }()

		params := runner.RunParams{
			StudyRoot:     config.StudyRootFromConfigPath(resolvedSpec),
			OutputDir:     *outputDir,
			ParticipantID: *participant,
			Simulated:     *simulate,
			Logger:        logger,
		}
		if *fixationMS >= 0 {
			fixation := time.Duration(*fixationMS) * time.Millisecond
			params.Fixation = &fixation
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var results runner.Results
		var paths runner.OutputPaths
		if *simulate {
			var rng *rand.Rand
			if *seed != 0 {
				rng = rand.New(rand.NewPCG(*seed, *seed^0x5851f42d4c957f2d))
			}
			params.Participant = runner.NewSimulatedParticipant(*accuracy, time.Duration(*delayMS)*time.Millisecond, rng)
			params.Observer = runner.NewProgressPrinter(stdout, *noColor)
			results, paths, err = runAndWrite(ctx, cfg, params)
		} else {
			ui := startLiveUI(stdout, live.Options{NoColor: *noColor})
			go func() {
				select {
				case <-ui.Done():
					cancel()
				case <-ctx.Done():
				}
			}()
			params.Participant = ui
			params.Observer = ui
			results, paths, err = runAndWrite(ctx, cfg, params)
			if err != nil {
				ui.Close()
			}
			ui.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		if err := writeSessionReport(ctx, paths, results); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Run %s completed\n", results.RunID)
		fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
		fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())
		return ExitOK
	}
}
