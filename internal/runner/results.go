package runner

import (
	"time"

	"percept/internal/engine"
)

// Results is the export written at the end of a session. Field names follow
// the study-results JSON analysts already consume.
type Results struct {
	ParticipantID string               `json:"id"`
	SessionID     string               `json:"sessionId"`
	RunID         string               `json:"runId"`
	StudyID       string               `json:"studyId"`
	Simulated     bool                 `json:"simulated,omitempty"`
	StartedAt     time.Time            `json:"startedAt"`
	FinishedAt    time.Time            `json:"finishedAt"`
	Timestamp     time.Time            `json:"timestamp"`
	Responses     []TaskResponse       `json:"responses"`
	Trials        []engine.TrialResult `json:"trials"`
	Warnings      []WarningRecord      `json:"warnings,omitempty"`
	Summary       Summary              `json:"summary"`
}

// TaskResponse groups the trials of one grid size, e.g. Face2x2.
type TaskResponse struct {
	Task      string         `json:"task"`
	GridSize  int            `json:"gridSize"`
	Response  []CellResponse `json:"response"`
	IsCorrect bool           `json:"isCorrect"`
}

type CellResponse struct {
	SelectedRow    int  `json:"selectedRow"`
	SelectedColumn int  `json:"selectedColumn"`
	IsCorrect      bool `json:"isCorrect"`
}

type WarningRecord struct {
	Kind    engine.WarningKind `json:"kind"`
	TrialID uint64             `json:"trialId,omitempty"`
	Message string             `json:"message"`
}

type Summary struct {
	TrialsTotal    int     `json:"trialsTotal"`
	TrialsCorrect  int     `json:"trialsCorrect"`
	Accuracy       float64 `json:"accuracy"`
	MeanReactionMs float64 `json:"meanReactionMs"`
	PassThreshold  float64 `json:"passThreshold"`
	TasksPassed    int     `json:"tasksPassed"`
	LoadFailures   int     `json:"loadFailures"`
}
