package runner

import (
	"fmt"
	"math"
	"slices"

	"percept/internal/engine"
)

// Passed reports whether correct answers out of total meet the threshold,
// counted as ceil(threshold * total).
func Passed(correct, total int, threshold float64) bool {
	if total == 0 {
		return false
	}
	return correct >= int(math.Ceil(float64(total)*threshold))
}

// TaskName labels the responses of one grid size.
func TaskName(gridSize int) string {
	return fmt.Sprintf("Face%dx%d", gridSize, gridSize)
}

// BuildResponses groups trials by grid size, smallest first, in trial order.
func BuildResponses(trials []engine.TrialResult, threshold float64) []TaskResponse {
	bySize := map[int][]engine.TrialResult{}
	for _, trial := range trials {
		bySize[trial.GridSize] = append(bySize[trial.GridSize], trial)
	}
	sizes := make([]int, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)

	responses := make([]TaskResponse, 0, len(sizes))
	for _, size := range sizes {
		group := bySize[size]
		response := TaskResponse{Task: TaskName(size), GridSize: size, Response: make([]CellResponse, 0, len(group))}
		correct := 0
		for _, trial := range group {
			response.Response = append(response.Response, CellResponse{
				SelectedRow:    trial.SelectedRow,
				SelectedColumn: trial.SelectedColumn,
				IsCorrect:      trial.Correct,
			})
			if trial.Correct {
				correct++
			}
		}
		response.IsCorrect = Passed(correct, len(group), threshold)
		responses = append(responses, response)
	}
	return responses
}

func summarize(trials []engine.TrialResult, responses []TaskResponse, threshold float64) Summary {
	summary := Summary{TrialsTotal: len(trials), PassThreshold: threshold}
	var reaction int64
	timed := 0
	for _, trial := range trials {
		if trial.Correct {
			summary.TrialsCorrect++
		}
		if trial.ReactionTimeMs > 0 {
			reaction += trial.ReactionTimeMs
			timed++
		}
		summary.LoadFailures += trial.LoadFailures
	}
	for _, response := range responses {
		if response.IsCorrect {
			summary.TasksPassed++
		}
	}
	if summary.TrialsTotal > 0 {
		summary.Accuracy = float64(summary.TrialsCorrect) / float64(summary.TrialsTotal)
	}
	if timed > 0 {
		summary.MeanReactionMs = float64(reaction) / float64(timed)
	}
	return summary
}
