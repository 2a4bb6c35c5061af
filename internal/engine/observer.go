package engine

// Observer receives engine notifications. Calls arrive in order, never
// concurrently, and outside the engine lock, so an observer may call Submit.
type Observer interface {
	// OnTrialPresented signals a new grid was sampled and the fixation cross is up.
	OnTrialPresented(spec TrialSpec)
	// OnTrialReady signals the grid may be rendered and accepts a selection.
	OnTrialReady(spec TrialSpec)
	// OnTrialRecorded delivers the result of an accepted selection.
	OnTrialRecorded(result TrialResult)
	// OnTaskComplete delivers the full trial log exactly once.
	OnTaskComplete(results []TrialResult)
	// OnWarning surfaces absorbed per-trial faults.
	OnWarning(warning Warning)
}

// Hooks adapts optional functions to Observer.
type Hooks struct {
	TrialPresented func(TrialSpec)
	TrialReady     func(TrialSpec)
	TrialRecorded  func(TrialResult)
	TaskComplete   func([]TrialResult)
	Warning        func(Warning)
}

func (h Hooks) OnTrialPresented(spec TrialSpec) {
	if h.TrialPresented != nil {
		h.TrialPresented(spec)
	}
}

func (h Hooks) OnTrialReady(spec TrialSpec) {
	if h.TrialReady != nil {
		h.TrialReady(spec)
	}
}

func (h Hooks) OnTrialRecorded(result TrialResult) {
	if h.TrialRecorded != nil {
		h.TrialRecorded(result)
	}
}

func (h Hooks) OnTaskComplete(results []TrialResult) {
	if h.TaskComplete != nil {
		h.TaskComplete(results)
	}
}

func (h Hooks) OnWarning(warning Warning) {
	if h.Warning != nil {
		h.Warning(warning)
	}
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (o Observers) OnTrialPresented(spec TrialSpec) {
	for _, obs := range o {
		obs.OnTrialPresented(spec)
	}
}

func (o Observers) OnTrialReady(spec TrialSpec) {
	for _, obs := range o {
		obs.OnTrialReady(spec)
	}
}

func (o Observers) OnTrialRecorded(result TrialResult) {
	for _, obs := range o {
		obs.OnTrialRecorded(result)
	}
}

func (o Observers) OnTaskComplete(results []TrialResult) {
	for _, obs := range o {
		obs.OnTaskComplete(results)
	}
}

func (o Observers) OnWarning(warning Warning) {
	for _, obs := range o {
		obs.OnWarning(warning)
	}
}
