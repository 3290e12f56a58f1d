package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/brainstorm"
	"github.com/ralphloop/ralph/internal/store"
)

var brainstormAgentKind string

var brainstormCmd = &cobra.Command{
	Use:   "brainstorm <id>",
	Short: "Hold an interactive conversation that turns an idea into a task prompt",
	Long: `Hold an interactive conversation that turns a vague idea into a
concrete task prompt, then record it as the project's task so
'ralph run' has something to execute.

Each turn is sent once, in full, to the configured agent's read-only
command; the conversation ends when the agent wraps its reply in
<brainstorm_complete>...</brainstorm_complete>.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBrainstorm(args[0])
	},
}

func init() {
	brainstormCmd.Flags().StringVar(&brainstormAgentKind, "agent", string(agent.KindClaude), "agent tool to brainstorm with (claude, codex, opencode)")
	rootCmd.AddCommand(brainstormCmd)
}

func runBrainstorm(id string) {
	s := openStore()
	state, err := s.Get(id)
	if err != nil {
		fail("loading project: %v", err)
	}
	if state.Status != store.StatusBrainstorming {
		fail("project %s is not awaiting brainstorm (status: %s)", id, state.Status)
	}

	ad, err := agent.New(agent.Kind(brainstormAgentKind))
	if err != nil {
		fail("resolving agent: %v", err)
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 cyan("you> "),
		HistoryLimit:           1000,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		DisableAutoSaveHistory: false,
	})
	if err != nil {
		fail("starting readline: %v", err)
	}
	defer rl.Close()

	fmt.Println("Describe what you want done. Ctrl+D or /quit to stop without finishing.")

	transcript := append([]store.ConversationTurn(nil), state.Brainstorm.Turns...)
	ctx := context.Background()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\nStopping without a finished task; resume later with the same command.")
				return
			}
			fail("reading input: %v", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			fmt.Println("Stopping without a finished task; resume later with the same command.")
			return
		}

		transcript = append(transcript, store.ConversationTurn{Role: "user", Content: line})
		if _, err := s.AppendBrainstormTurn(id, store.ConversationTurn{Role: "user", Content: line}); err != nil {
			fail("recording turn: %v", err)
		}

		turn, err := brainstorm.Step(ctx, ad, state.Path, transcript, state.SkipRepoSafetyCheck)
		if err != nil {
			fail("brainstorm turn: %v", err)
		}

		transcript = append(transcript, store.ConversationTurn{Role: "assistant", Content: turn.Message})
		if _, err := s.AppendBrainstormTurn(id, store.ConversationTurn{Role: "assistant", Content: turn.Message}); err != nil {
			fail("recording turn: %v", err)
		}

		if !turn.Complete {
			fmt.Printf("%s %s\n", cyan("agent>"), turn.Message)
			continue
		}

		fmt.Printf("%s %s\n\n%s\n\n", cyan("agent>"), turn.Message, turn.GeneratedPrompt)
		task := buildTaskFromPrompt(turn.GeneratedPrompt)
		if _, err := s.CompleteBrainstorm(id, task); err != nil {
			fail("recording task: %v", err)
		}
		fmt.Printf("%s Task recorded. Run it with 'ralph run %s'.\n", green("✓"), id)
		return
	}
}

// buildTaskFromPrompt fills in a TaskConfig's defaults around a
// generated prompt; iteration bound, sentinel, and timeouts come from
// the embedding config and can be adjusted later with 'ralph task'.
func buildTaskFromPrompt(prompt string) store.TaskConfig {
	cfg := loadConfig()
	return store.TaskConfig{
		Prompt:        prompt,
		AgentKind:     brainstormAgentKind,
		MaxIterations: cfg.DefaultIterationBound,
		AutoCommit:    cfg.DefaultAutoCommit,
		Sentinel:      cfg.DefaultSentinel,
	}
}
