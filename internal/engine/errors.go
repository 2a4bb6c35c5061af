package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyConfigured is returned by a second Configure call.
	ErrAlreadyConfigured = errors.New("engine: already configured")
	// ErrNotConfigured is returned when Start runs before Configure.
	ErrNotConfigured = errors.New("engine: not configured")
	// ErrAlreadyStarted is returned by a second Start call.
	ErrAlreadyStarted = errors.New("engine: already started")
)

// ConfigIssue is a single misconfiguration found by Configure.
type ConfigIssue struct {
	Field   string
	Message string
}

// ConfigError aggregates every issue found while configuring the engine.
type ConfigError struct {
	Issues []ConfigIssue
}

// Error renders the issues one per line.
func (err *ConfigError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "engine: invalid configuration"
	}
	lines := make([]string, 0, len(err.Issues)+1)
	lines = append(lines, "engine: invalid configuration")
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// WarningKind classifies non-fatal per-trial faults.
type WarningKind string

const (
	// WarningPoolExhaustion marks a grid drawn with replacement.
	WarningPoolExhaustion WarningKind = "pool_exhaustion"
	// WarningAssetLoad marks an image that failed to load before the gate opened.
	WarningAssetLoad WarningKind = "asset_load_failure"
)

// Warning is surfaced to observers for faults the engine absorbs.
type Warning struct {
	Kind    WarningKind
	TrialID uint64
	Label   string
	Image   ImageRef
	Have    int
	Need    int
	Err     error
}

// String renders a short description of the warning.
func (w Warning) String() string {
	switch w.Kind {
	case WarningPoolExhaustion:
		return fmt.Sprintf("pool %q has %d distractors, grid needs %d; sampling with replacement", w.Label, w.Have, w.Need)
	case WarningAssetLoad:
		return fmt.Sprintf("trial %d: load %s: %v", w.TrialID, w.Image, w.Err)
	default:
		return string(w.Kind)
	}
}
