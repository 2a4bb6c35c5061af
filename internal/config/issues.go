package config

import (
	"fmt"
	"strings"

	"percept/internal/engine"
)

// Issue names a study field and what is wrong with it. It shares the engine's
// shape so Configure failures and study failures print alike.
type Issue = engine.ConfigIssue

// ValidationError lists every issue found in one study file.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "invalid study file"
	}
	var b strings.Builder
	for i, issue := range err.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", issue.Field, issue.Message)
	}
	return b.String()
}

type issueAdder func(field, message string)

// issueList collects issues in the order validators report them.
type issueList []Issue

func (l *issueList) add(field, message string) {
	*l = append(*l, Issue{Field: field, Message: message})
}

func (l issueList) err() error {
	if len(l) == 0 {
		return nil
	}
	return &ValidationError{Issues: l}
}
