// Package events defines the loop engine's external event contract
// (C6's event sink) and two implementations: an in-memory recorder for
// tests and a colorized console renderer for the CLI.
//
// Grounded on internal/events/types.go's EventType enumeration idiom
// from the teacher, narrowed to the closed set of loop-level events
// spec.md §6 names instead of vc's large executor/agent event surface.
package events

import "time"

// Kind is the closed enumeration of loop events.
type Kind string

const (
	KindIterationStart Kind = "iteration_start"
	KindOutput         Kind = "output"
	KindPausing        Kind = "pausing"
	KindPaused         Kind = "paused"
	KindResumed        Kind = "resumed"
	KindCompleted      Kind = "completed"
	KindMaxIterations  Kind = "max_iterations"
	KindError          Kind = "error"
	KindStopped        Kind = "stopped"
)

// Event is a single record published to a Sink. Consumers must
// tolerate fields that are zero-valued for kinds that don't use them
// (spec.md §6: "Consumers must tolerate unknown fields").
type Event struct {
	Kind      Kind
	ProjectID string
	Iteration int
	Content   string
	IsStderr  bool
	Reason    string
	At        time.Time
}

// Sink is the abstract destination the loop engine publishes events
// to. The engine depends on this interface, supplied at construction;
// it never binds to a specific UI transport (spec.md §9).
type Sink interface {
	Emit(Event)
}

// IterationStart builds an IterationStart event.
func IterationStart(projectID string, iteration int) Event {
	return Event{Kind: KindIterationStart, ProjectID: projectID, Iteration: iteration}
}

// Output builds an Output event.
func Output(projectID string, iteration int, content string, isStderr bool) Event {
	return Event{Kind: KindOutput, ProjectID: projectID, Iteration: iteration, Content: content, IsStderr: isStderr}
}

// Pausing builds a Pausing event, emitted the instant a pause request
// is observed, before the engine actually blocks.
func Pausing(projectID string, iteration int) Event {
	return Event{Kind: KindPausing, ProjectID: projectID, Iteration: iteration}
}

// Paused builds a Paused event.
func Paused(projectID string, iteration int) Event {
	return Event{Kind: KindPaused, ProjectID: projectID, Iteration: iteration}
}

// Resumed builds a Resumed event.
func Resumed(projectID string, iteration int) Event {
	return Event{Kind: KindResumed, ProjectID: projectID, Iteration: iteration}
}

// Completed builds a Completed event.
func Completed(projectID string, iteration int) Event {
	return Event{Kind: KindCompleted, ProjectID: projectID, Iteration: iteration}
}

// MaxIterations builds a MaxIterations event.
func MaxIterations(projectID string, iteration int) Event {
	return Event{Kind: KindMaxIterations, ProjectID: projectID, Iteration: iteration}
}

// Error builds an Error event.
func Error(projectID string, iteration int, reason string) Event {
	return Event{Kind: KindError, ProjectID: projectID, Iteration: iteration, Reason: reason}
}

// Stopped builds a Stopped event.
func Stopped(projectID string) Event {
	return Event{Kind: KindStopped, ProjectID: projectID}
}
