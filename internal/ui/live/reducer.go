package live

// Reduce applies a session event to the UI state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventRunStart:
		state.Run = event.Run
		state.Phase = PhaseWaiting
	case EventTrialPresented:
		state.Trial = event.Spec
		state.Phase = PhaseFixation
	case EventTrialReady:
		// A ready signal for a trial no longer on screen is stale.
		if state.Phase != PhaseFixation || event.Spec.ID != state.Trial.ID {
			return state
		}
		state.Phase = PhaseGrid
	case EventTrialRecorded:
		state.Completed++
		if event.Result.Correct {
			state.Correct++
		}
		state.Phase = PhaseWaiting
	case EventWarning:
		state.Warnings++
		state.LastWarning = event.Warning.String()
	case EventRunEnd:
		state.Results = event.Results
		state.Phase = PhaseDone
	}
	return state
}
