package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errNeedsTerminal means a real participant session was asked for without a TTY.
var errNeedsTerminal = errors.New("a live session needs an interactive terminal; use --simulate for a dry run")

// display is how a run presents itself on stdout.
type display struct {
	live bool
	note string
}

// isTerminal reports whether a writer is a TTY. Tests replace it.
var isTerminal = fdIsTerminal

// chooseDisplay maps --ui onto a display. Participants can only answer
// through the live grid, so anything but a simulated run needs a terminal;
// simulated runs always print plain progress lines.
func chooseDisplay(mode string, simulate bool, stdout io.Writer) (display, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "":
		mode = "auto"
	case "auto", "live", "plain":
	default:
		return display{}, fmt.Errorf("invalid --ui %q (expected auto|live|plain)", mode)
	}

	if simulate {
		if mode == "live" {
			return display{note: "Simulated runs print plain progress; ignoring --ui live."}, nil
		}
		return display{}, nil
	}
	if mode == "plain" {
		return display{}, fmt.Errorf("--ui plain only applies with --simulate")
	}
	if !isTerminal(stdout) {
		return display{}, errNeedsTerminal
	}
	return display{live: true}, nil
}

func fdIsTerminal(w io.Writer) bool {
	switch f := w.(type) {
	case *os.File:
		return term.IsTerminal(int(f.Fd()))
	case interface{ Fd() uintptr }:
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
