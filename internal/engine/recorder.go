package engine

import "time"

// Record builds the result for a selection on spec. It reports false when
// cellIndex is outside the grid.
func Record(spec TrialSpec, cellIndex, trialNumber int, presentedAt, respondedAt time.Time, loadFailures int) (TrialResult, bool) {
	if cellIndex < 0 || cellIndex >= len(spec.Cells) {
		return TrialResult{}, false
	}
	cell := spec.Cells[cellIndex]
	result := TrialResult{
		GridSize:       spec.GridSize,
		TrialNumber:    trialNumber,
		SelectedRow:    cell.Row,
		SelectedColumn: cell.Column,
		Correct:        cell.IsTarget,
		GroupLabel:     spec.GroupLabel,
		StageIndex:     spec.StageIndex,
		PresentedAt:    presentedAt,
		RespondedAt:    respondedAt,
		LoadFailures:   loadFailures,
	}
	if target := spec.TargetIndex(); target >= 0 {
		result.TargetRow, result.TargetColumn = cellPosition(target, spec.GridSize)
	}
	if !presentedAt.IsZero() && respondedAt.After(presentedAt) {
		result.ReactionTimeMs = respondedAt.Sub(presentedAt).Milliseconds()
	}
	return result, true
}
