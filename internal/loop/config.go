// Package loop implements C4 (the loop engine) and C6 (the control
// surface): iterating up to a bound, spawning the configured agent
// each iteration via the launcher and adapter, driving the
// demultiplexer, enforcing timeouts, honoring pause/resume/stop, and
// performing auto-commit.
//
// Grounded on internal/executor/executor_event_loop.go and
// internal/executor/executor_watchdog.go's poll-ticker pattern from
// the teacher, and on internal/iterative's iteration-bound vocabulary,
// restructured around the single-project state machine spec.md §4.4
// describes (vc's executor drives many issues across a shared
// database; this engine drives exactly one project per instance).
package loop

import (
	"time"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/events"
)

// Config is the engine's immutable construction-time configuration.
type Config struct {
	// ProjectID is an opaque identifier threaded through every emitted
	// event.
	ProjectID string

	// WorkingDir is the absolute path to the user's source directory.
	WorkingDir string

	// AgentKind selects which adapter drives this engine.
	AgentKind agent.Kind

	// Prompt is the text handed to the agent on every iteration.
	Prompt string

	// IterationBound is the maximum number of iterations to run.
	IterationBound int

	// AutoCommit enables the C5 auto-commit step between iterations.
	AutoCommit bool

	// Sentinel is the non-empty substring whose appearance in
	// assistant-originated output signals completion.
	Sentinel string

	// IterationTimeout, if non-nil, bounds each iteration's wall-clock
	// duration from spawn.
	IterationTimeout *time.Duration

	// IdleTimeout, if non-nil, bounds the time since the last line of
	// output was received.
	IdleTimeout *time.Duration

	// SkipRepoSafetyCheck is forwarded to the adapter's command
	// builder on every iteration.
	SkipRepoSafetyCheck bool

	// Sink receives every event this engine emits.
	Sink events.Sink
}
