package loop

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/autocommit"
	"github.com/ralphloop/ralph/internal/demux"
	"github.com/ralphloop/ralph/internal/events"
	"github.com/ralphloop/ralph/internal/gitops"
	"github.com/ralphloop/ralph/internal/launcher"
)

// ReasonRepoSafetyCheckRequired is the Error event reason surfaced
// when Codex refuses to run outside a trusted directory and the
// caller hasn't opted into skipping that check.
const ReasonRepoSafetyCheckRequired = "codex_git_repo_check_required"

// pollInterval is how often the paused wait and the stream loop check
// stop_requested and idle/iteration deadlines.
const pollInterval = 100 * time.Millisecond

// Engine is C4: it drives iterations of the configured adapter against
// one project's working directory, honoring the C6 control surface and
// emitting C6's event stream throughout.
//
// Grounded on internal/executor/executor_event_loop.go's run loop
// shape from the teacher (gate -> spawn -> stream -> reap -> repeat),
// replacing its database-backed issue queue with spec.md §4.4's
// single bounded iteration counter and sentinel-based completion.
type Engine struct {
	cfg     Config
	adapter agent.Adapter
	git     *gitops.Git
	signals *controlSignals
}

// New constructs an Engine for the given configuration. It resolves
// the adapter for cfg.AgentKind and, best-effort, a git executable for
// the auto-commit step (a missing git simply disables auto-commit).
func New(cfg Config) (*Engine, error) {
	ad, err := agent.New(cfg.AgentKind)
	if err != nil {
		return nil, err
	}
	git, _ := gitops.New()
	return &Engine{cfg: cfg, adapter: ad, git: git, signals: newControlSignals()}, nil
}

func (e *Engine) emit(ev events.Event) {
	if e.cfg.Sink != nil {
		e.cfg.Sink.Emit(ev)
	}
}

// Run drives iterations until completion, stop, budget exhaustion, or
// a fatal adapter condition. It returns the terminal LoopState; an
// error is returned only alongside StateFailed.
func (e *Engine) Run(ctx context.Context) (LoopState, error) {
	iteration := 0
	for {
		if e.gate(iteration) == gateStop {
			e.emit(events.Stopped(e.cfg.ProjectID))
			return LoopState{Kind: StateIdle, AtIteration: iteration}, nil
		}

		iteration++
		e.emit(events.IterationStart(e.cfg.ProjectID, iteration))

		res := e.runIteration(ctx, iteration)

		if res.stoppedMidStream {
			e.emit(events.Stopped(e.cfg.ProjectID))
			return LoopState{Kind: StateIdle, AtIteration: iteration}, nil
		}
		if res.fatal {
			return LoopState{Kind: StateFailed, AtIteration: iteration}, fmt.Errorf("loop: %s", res.fatalReason)
		}
		if res.completed {
			e.emit(events.Completed(e.cfg.ProjectID, iteration))
			return LoopState{Kind: StateCompleted, AtIteration: iteration}, nil
		}
		if iteration >= e.cfg.IterationBound {
			e.emit(events.MaxIterations(e.cfg.ProjectID, iteration))
			return LoopState{Kind: StateBudgetExhausted, AtIteration: iteration}, nil
		}
	}
}

type gateOutcome int

const (
	gateContinue gateOutcome = iota
	gateStop
)

// gate implements the iteration gate (both pre-spawn and
// post-iteration, which share identical logic): stop takes priority
// over pause, and a pending pause blocks until resumed or stopped.
func (e *Engine) gate(iteration int) gateOutcome {
	if e.signals.stopRequested.Load() {
		return gateStop
	}
	if !e.signals.pauseRequested.Load() {
		return gateContinue
	}

	e.emit(events.Pausing(e.cfg.ProjectID, iteration))
	e.emit(events.Paused(e.cfg.ProjectID, iteration))

	// Discard any wake token left over from a RequestResume/RequestStop
	// call that predates this wait; only a fresh signal sent after this
	// point should end it.
	e.signals.drainResumeNotice()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.signals.resumeNotice:
			e.signals.pauseRequested.Store(false)
			if e.signals.stopRequested.Load() {
				return gateStop
			}
			e.emit(events.Resumed(e.cfg.ProjectID, iteration))
			return gateContinue
		case <-ticker.C:
			if e.signals.stopRequested.Load() {
				return gateStop
			}
		}
	}
}

// iterationResult classifies how one spawned iteration ended.
type iterationResult struct {
	completed        bool
	fatal            bool
	fatalReason      string
	stoppedMidStream bool
	spawnFailed      bool
}

// runIteration spawns the adapter's command, streams its output, waits
// for it to exit, and (when the iteration wasn't stopped or fatal)
// runs the auto-commit step.
func (e *Engine) runIteration(ctx context.Context, iteration int) iterationResult {
	opts := agent.CommandOptions{SkipRepoSafetyCheck: e.cfg.SkipRepoSafetyCheck}
	spec := e.adapter.BuildCommand(e.cfg.Prompt, e.cfg.WorkingDir, opts)

	cmd, err := launcher.Build(e.adapter.ExecutablePath(), spec.Args, e.cfg.WorkingDir, spec.ExtraEnv)
	if err != nil {
		e.emit(events.Error(e.cfg.ProjectID, iteration, "spawn failed: "+err.Error()))
		return iterationResult{spawnFailed: true}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		e.emit(events.Error(e.cfg.ProjectID, iteration, "spawn failed: "+err.Error()))
		return iterationResult{spawnFailed: true}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		e.emit(events.Error(e.cfg.ProjectID, iteration, "spawn failed: "+err.Error()))
		return iterationResult{spawnFailed: true}
	}

	var stdin io.WriteCloser
	if spec.StdinText != "" {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			e.emit(events.Error(e.cfg.ProjectID, iteration, "spawn failed: "+err.Error()))
			return iterationResult{spawnFailed: true}
		}
	}

	if err := cmd.Start(); err != nil {
		e.emit(events.Error(e.cfg.ProjectID, iteration, "spawn failed: "+err.Error()))
		return iterationResult{spawnFailed: true}
	}

	if stdin != nil {
		if _, err := io.WriteString(stdin, spec.StdinText+"\n"); err != nil {
			killIfAlive(cmd)
			_ = cmd.Wait()
			e.emit(events.Error(e.cfg.ProjectID, iteration, "prompt write failed: "+err.Error()))
			return iterationResult{spawnFailed: true}
		}
		stdin.Close()
	}

	sres := e.stream(cmd, stdout, stderr, iteration)
	_ = cmd.Wait()

	if sres.fatal {
		return iterationResult{fatal: true, fatalReason: sres.fatalReason}
	}
	if sres.stoppedMidStream && !sres.completed {
		return iterationResult{stoppedMidStream: true}
	}

	if e.cfg.AutoCommit && e.git != nil {
		if _, err := autocommit.Step(ctx, e.git, e.adapter, e.cfg.WorkingDir, iteration, e.cfg.SkipRepoSafetyCheck); err != nil {
			e.emit(events.Output(e.cfg.ProjectID, iteration, "auto-commit: "+err.Error(), true))
		}
	}

	return iterationResult{completed: sres.completed}
}

type streamResult struct {
	completed        bool
	fatal            bool
	fatalReason      string
	stoppedMidStream bool
}

// stream consumes the demultiplexed output of one child process,
// emitting Output events, detecting completion and the Codex
// trusted-directory refusal, and enforcing the idle and per-iteration
// timeouts. It returns once both the child's streams are exhausted,
// killing the child early when a terminal condition is reached but
// continuing to drain until the streams actually close so the process
// is never left as a zombie.
func (e *Engine) stream(cmd *exec.Cmd, stdout, stderr io.Reader, iteration int) streamResult {
	lines := make(chan demux.Line, 256)
	go func() { _ = demux.Run(stdout, stderr, e.adapter, lines) }()

	var result streamResult
	killed := false
	kill := func() {
		if !killed {
			killed = true
			killIfAlive(cmd)
		}
	}

	idleTimeoutFired := false
	iterationTimedOut := false
	lastOutput := time.Now()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var iterationDeadline <-chan time.Time
	if e.cfg.IterationTimeout != nil {
		timer := time.NewTimer(*e.cfg.IterationTimeout)
		defer timer.Stop()
		iterationDeadline = timer.C
	}

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return result
			}
			lastOutput = time.Now()

			// Codex's own progress chatter arrives on standard error,
			// but it isn't diagnostic the way stderr normally is; only
			// Claude and OpenCode's stderr lines are surfaced as such.
			eventIsStderr := line.IsStderr && e.cfg.AgentKind != agent.KindCodex
			e.emit(events.Output(e.cfg.ProjectID, iteration, line.Parsed.Content, eventIsStderr))

			if e.cfg.AgentKind == agent.KindCodex && line.IsStderr && agent.RepoSafetyRefusalFingerprint(line.Parsed.Content) {
				result.fatal = true
				result.fatalReason = ReasonRepoSafetyCheckRequired
				e.emit(events.Error(e.cfg.ProjectID, iteration, result.fatalReason))
				kill()
				continue
			}

			if !result.completed && line.Parsed.OriginatesFromAssistant && agent.ContainsSentinel(line.Parsed.Content, e.cfg.Sentinel) {
				result.completed = true
				kill()
			}

		case <-ticker.C:
			if e.signals.stopRequested.Load() {
				result.stoppedMidStream = true
				kill()
				continue
			}
			// A due iteration deadline is handled before the idle budget,
			// so when both apply on the same tick the iteration timeout
			// is the one reported.
			select {
			case <-iterationDeadline:
				iterationTimedOut = true
				e.emit(events.Error(e.cfg.ProjectID, iteration, "iteration timeout"))
				kill()
				iterationDeadline = nil
				continue
			default:
			}
			if !idleTimeoutFired && !iterationTimedOut && e.cfg.IdleTimeout != nil && time.Since(lastOutput) > *e.cfg.IdleTimeout {
				idleTimeoutFired = true
				e.emit(events.Error(e.cfg.ProjectID, iteration, "idle timeout"))
				kill()
			}

		case <-iterationDeadline:
			iterationTimedOut = true
			e.emit(events.Error(e.cfg.ProjectID, iteration, "iteration timeout"))
			kill()
			iterationDeadline = nil
		}
	}
}

// killIfAlive sends the child process a kill signal, ignoring the
// error if it has already exited.
func killIfAlive(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
