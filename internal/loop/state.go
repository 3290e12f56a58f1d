package loop

// StateKind is the closed set of terminal and idle states the engine's
// Run method can return (spec.md §3: LoopState).
type StateKind string

const (
	// StateIdle means the run ended via a stop request, either observed
	// at the iteration gate or mid-stream. No further iterations occur
	// unless a new Run call is made.
	StateIdle StateKind = "idle"

	// StateCompleted means an assistant-originated line containing the
	// sentinel was observed during the returned iteration.
	StateCompleted StateKind = "completed"

	// StateBudgetExhausted means the iteration bound was reached
	// without completion.
	StateBudgetExhausted StateKind = "budget_exhausted"

	// StateFailed means a fatal, adapter-specific condition ended the
	// run (currently: Codex's trusted-directory refusal).
	StateFailed StateKind = "failed"
)

// LoopState is the outcome of a Run call.
type LoopState struct {
	Kind        StateKind
	AtIteration int
}
