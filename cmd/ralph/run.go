package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/events"
	"github.com/ralphloop/ralph/internal/gitops"
	"github.com/ralphloop/ralph/internal/loop"
	"github.com/ralphloop/ralph/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Run the loop engine against a project's configured task",
	Long: `Run the loop engine against a project's configured task.

While ralph run is the foreground process, its control surface is
reachable by OS signal: SIGUSR1 toggles pause/resume, SIGINT and
SIGTERM request a stop.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runProject(args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runProject(id string) {
	s := openStore()
	cfg := loadConfig()

	state, err := s.Get(id)
	if err != nil {
		fail("loading project: %v", err)
	}
	if state.Task == nil {
		fail("project %s has no task configured; finish brainstorming first", id)
	}

	agentKind := agent.Kind(state.Task.AgentKind)
	skipRepoSafetyCheck := resolveRepoSafetyCheck(s, id, state, agentKind)

	engineCfg := loop.Config{
		ProjectID:           state.ID,
		WorkingDir:          state.Path,
		AgentKind:           agentKind,
		Prompt:              state.Task.Prompt,
		IterationBound:      state.Task.MaxIterations,
		AutoCommit:          state.Task.AutoCommit,
		Sentinel:            state.Task.Sentinel,
		SkipRepoSafetyCheck: skipRepoSafetyCheck,
		Sink:                events.NewConsoleSink(os.Stdout),
	}
	if engineCfg.IterationBound == 0 {
		engineCfg.IterationBound = cfg.DefaultIterationBound
	}
	if engineCfg.Sentinel == "" {
		engineCfg.Sentinel = cfg.DefaultSentinel
	}
	if state.Task.IterationTimeout > 0 {
		t := state.Task.IterationTimeout
		engineCfg.IterationTimeout = &t
	} else if cfg.DefaultIterationTimeout > 0 {
		t := cfg.DefaultIterationTimeout
		engineCfg.IterationTimeout = &t
	}
	if state.Task.IdleTimeout > 0 {
		t := state.Task.IdleTimeout
		engineCfg.IdleTimeout = &t
	} else if cfg.DefaultIdleTimeout > 0 {
		t := cfg.DefaultIdleTimeout
		engineCfg.IdleTimeout = &t
	}

	eng, err := loop.New(engineCfg)
	if err != nil {
		fail("constructing engine: %v", err)
	}

	if _, err := s.SetStatus(id, store.StatusRunning); err != nil {
		fail("updating project status: %v", err)
	}

	var paused atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, controlSignals()...)
	defer signal.Stop(sigCh)

	go func() {
		for sig := range sigCh {
			switch sig {
			case pauseResumeSignal:
				if paused.CompareAndSwap(false, true) {
					eng.RequestPause()
				} else if paused.CompareAndSwap(true, false) {
					eng.RequestResume()
				}
			default:
				fmt.Fprintln(os.Stderr, "\nstopping...")
				eng.RequestStop()
			}
		}
	}()

	result, runErr := eng.Run(context.Background())

	finalStatus := store.StatusFailed
	switch result.Kind {
	case loop.StateCompleted:
		finalStatus = store.StatusCompleted
	case loop.StateIdle:
		finalStatus = store.StatusPaused
	case loop.StateBudgetExhausted:
		finalStatus = store.StatusFailed
	}
	if _, setErr := s.SetStatus(id, finalStatus); setErr != nil {
		fmt.Fprintf(os.Stderr, "%s failed to persist final status: %v\n", red("✗"), setErr)
	}

	if runErr != nil {
		fail("run ended: %v", runErr)
	}
	fmt.Printf("%s Run finished: %s at iteration %d\n", green("✓"), result.Kind, result.AtIteration)
}

// resolveRepoSafetyCheck runs start_loop's pre-flight git-repo
// handling before the engine spawns: git-inits the working directory
// when the task requests it and none exists yet (clearing any stale
// skip flag, since the check it bypassed no longer applies), or, for
// a Codex task that won't auto-init, sets the skip flag so Codex's
// trusted-directory refusal doesn't immediately fail a directory that
// was never meant to be a repository. Any change is persisted before
// the engine starts.
func resolveRepoSafetyCheck(s *store.Store, id string, state store.ProjectState, agentKind agent.Kind) bool {
	skip := state.SkipRepoSafetyCheck

	git, err := gitops.New()
	if err != nil {
		return skip
	}

	ctx := context.Background()
	isRepo := git.IsRepo(ctx, state.Path)

	switch {
	case state.Task.AutoInitGit && !isRepo:
		if err := git.Init(ctx, state.Path); err != nil {
			fail("git init: %v", err)
		}
		skip = false
	case !state.Task.AutoInitGit && !isRepo && agentKind == agent.KindCodex:
		skip = true
	}

	if skip != state.SkipRepoSafetyCheck {
		if _, err := s.SetSkipRepoSafetyCheck(id, skip); err != nil {
			fail("updating project: %v", err)
		}
	}
	return skip
}
