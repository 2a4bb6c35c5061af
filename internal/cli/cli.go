package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is one percept subcommand.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		if len(args) > 1 {
			if cmd := findCommand(args[1]); cmd != nil {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[1])
			printUsage(stderr)
			return ExitUsage
		}
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}
	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  percept <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"percept <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

type handler func(args []string, stdout, stderr io.Writer) int

func command(name, summary string, usage []string, build func(cmd *Command) handler) *Command {
	cmd := &Command{Name: name, Summary: summary, Usage: usage}
	cmd.Run = build(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .percept/study.yml and image folders", []string{
		"percept init [--spec <path>]",
	}, runInit),
	command("validate", "Validate a study file", []string{
		"percept validate [--spec <path>]",
	}, runValidate),
	command("run", "Run a participant session", []string{
		"percept run --participant <id> [--spec <path>] [--ui auto|live|plain]",
		"percept run --participant <id> --simulate [--accuracy <0..1>] [--delay-ms <ms>] [--fixation-ms <ms>]",
	}, runRun),
	command("report", "Summarize a session and write its HTML report", []string{
		"percept report [--spec <path>] [--run <run-id|latest>] [--output <path>]",
		"percept report --all [--spec <path>] [--output <path>]",
	}, runReport),
	command("ingest", "Load session exports into DuckDB and print accuracy", []string{
		"percept ingest --db <path> [--spec <path>] [results.json...]",
	}, runIngest),
}
