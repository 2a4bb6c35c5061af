package runner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var participantPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateParticipantID rejects ids that cannot name a results file.
func ValidateParticipantID(id string) error {
	if !participantPattern.MatchString(id) {
		return fmt.Errorf("participant id %q must be letters, digits, '-' or '_'", id)
	}
	return nil
}

// OutputPaths describes filesystem locations for session outputs.
type OutputPaths struct {
	Root          string
	StudyID       string
	RunID         string
	ParticipantID string
}

// NewOutputPaths validates and constructs output paths metadata.
func NewOutputPaths(root, studyID, runID, participantID string) (OutputPaths, error) {
	if strings.TrimSpace(root) == "" {
		return OutputPaths{}, fmt.Errorf("output root is empty")
	}
	if strings.TrimSpace(studyID) == "" {
		return OutputPaths{}, fmt.Errorf("study ID is empty")
	}
	if strings.TrimSpace(runID) == "" {
		return OutputPaths{}, fmt.Errorf("run ID is empty")
	}
	if err := ValidateParticipantID(participantID); err != nil {
		return OutputPaths{}, err
	}
	return OutputPaths{
		Root:          root,
		StudyID:       studyID,
		RunID:         runID,
		ParticipantID: participantID,
	}, nil
}

// RunDir returns the directory for a specific session.
func (o OutputPaths) RunDir() string {
	return filepath.Join(o.Root, o.StudyID, o.RunID)
}

// ResultsPath returns the path to study-results-<participant>.json.
func (o OutputPaths) ResultsPath() string {
	return filepath.Join(o.RunDir(), ResultsFileName(o.ParticipantID))
}

// ReportPath returns the path to the HTML report.
func (o OutputPaths) ReportPath() string {
	return filepath.Join(o.RunDir(), "report.html")
}

// ResultsFileName names the export for a participant.
func ResultsFileName(participantID string) string {
	return "study-results-" + participantID + ".json"
}
