package runner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"percept/internal/engine"
)

const progressPrefix = "[percept]"

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiGray  = "\x1b[90m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
)

type progressStyle int

const (
	styleDefault progressStyle = iota
	styleHeader
	styleCorrect
	styleError
)

// ProgressPrinter writes one line per session event for plain output.
type ProgressPrinter struct {
	engine.Hooks

	mu      sync.Mutex
	writer  io.Writer
	palette progressPalette
	total   int
}

// NewProgressPrinter prints to writer, colored when it is a terminal.
func NewProgressPrinter(writer io.Writer, noColor bool) *ProgressPrinter {
	p := &ProgressPrinter{writer: writer, palette: paletteFor(writer, noColor)}
	p.Hooks.TrialRecorded = p.trialRecorded
	p.Hooks.Warning = p.warning
	return p
}

func (p *ProgressPrinter) OnRunStart(info RunInfo) {
	p.mu.Lock()
	p.total = info.Trials
	p.mu.Unlock()
	p.printf(styleHeader, "study %s participant %s: %d trials in %d stages (run %s)",
		info.StudyID, info.ParticipantID, info.Trials, info.Stages, info.RunID)
}

func (p *ProgressPrinter) OnRunEnd(results Results) {
	s := results.Summary
	p.printf(styleHeader, "done: %d/%d correct (%.0f%%), mean reaction %.0fms, %d/%d tasks passed",
		s.TrialsCorrect, s.TrialsTotal, s.Accuracy*100, s.MeanReactionMs, s.TasksPassed, len(results.Responses))
}

func (p *ProgressPrinter) trialRecorded(result engine.TrialResult) {
	p.mu.Lock()
	total := p.total
	p.mu.Unlock()
	style, verdict := styleError, "miss"
	if result.Correct {
		style, verdict = styleCorrect, "hit"
	}
	group := ""
	if result.GroupLabel != "" {
		group = " " + result.GroupLabel
	}
	p.printf(style, "trial %d/%d %s%s %s at r%dc%d %dms",
		result.TrialNumber, total, TaskName(result.GridSize), group, verdict,
		result.SelectedRow, result.SelectedColumn, result.ReactionTimeMs)
}

func (p *ProgressPrinter) warning(w engine.Warning) {
	p.printf(styleError, "warning: %s", w.String())
}

func (p *ProgressPrinter) printf(style progressStyle, format string, args ...any) {
	if p.writer == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.writer, "%s %s\n", p.palette.prefix(progressPrefix), p.palette.apply(style, line))
}

type progressPalette struct {
	enabled bool
}

func paletteFor(writer io.Writer, noColor bool) progressPalette {
	if noColor {
		return progressPalette{enabled: false}
	}
	return progressPalette{enabled: shouldUseStyling(writer)}
}

func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if fder, ok := writer.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func (p progressPalette) prefix(text string) string {
	if !p.enabled {
		return text
	}
	return ansiDim + ansiGray + text + ansiReset
}

func (p progressPalette) apply(style progressStyle, text string) string {
	if !p.enabled {
		return text
	}
	switch style {
	case styleHeader:
		return ansiBold + ansiBlue + text + ansiReset
	case styleCorrect:
		return ansiBold + ansiGreen + text + ansiReset
	case styleError:
		return ansiBold + ansiRed + text + ansiReset
	default:
		return text
	}
}
