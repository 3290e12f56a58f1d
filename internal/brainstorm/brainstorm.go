// Package brainstorm implements P3: a short conversation that turns a
// vague idea into a concrete task prompt ending in the configured
// completion sentinel, before a project's first run.
//
// Grounded on original_source/.../engine/ai_brainstorm.rs: one turn
// per round-trip, each shelling out once to the Claude-style adapter's
// read-only command with the running transcript folded into the
// prompt, looking for a <brainstorm_complete>...</brainstorm_complete>
// wrapper in the response.
package brainstorm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/launcher"
	"github.com/ralphloop/ralph/internal/store"
)

const (
	openTag  = "<brainstorm_complete>"
	closeTag = "</brainstorm_complete>"
)

const systemPrompt = `You are helping a developer turn a vague idea into a concrete, ` +
	`actionable task prompt for an autonomous coding agent.

Ask at most one or two clarifying questions at a time about: the kind of ` +
	`task (new project, feature, refactor, bug fix), the language or ` +
	`framework, the specific functionality wanted, whether tests are ` +
	`expected, and any other constraints.

Once you have enough information, respond with the final task prompt ` +
	`wrapped like this, and nothing else outside the wrapper:

<brainstorm_complete>
[a complete task description: goal, technical requirements, concrete
functionality, what "done" means, ending with the literal line:
<done>COMPLETE</done>]
</brainstorm_complete>`

// Turn is the result of one round-trip with the adapter.
type Turn struct {
	// Message is the adapter's reply: either a clarifying question, or
	// (when Complete is true) a human-facing confirmation.
	Message string
	// Complete reports whether the conversation produced a final prompt.
	Complete bool
	// GeneratedPrompt holds the final task prompt when Complete is true.
	GeneratedPrompt string
}

// Step sends the running transcript to the adapter's read-only command
// once and returns the adapter's next turn.
func Step(ctx context.Context, ad agent.Adapter, workingDir string, transcript []store.ConversationTurn, skipRepoSafetyCheck bool) (Turn, error) {
	prompt := buildPrompt(transcript)

	opts := agent.CommandOptions{SkipRepoSafetyCheck: skipRepoSafetyCheck}
	spec := ad.BuildReadonlyCommand(prompt, workingDir, opts)

	output, err := runAndCollectAssistantText(ctx, spec, ad, workingDir)
	if err != nil {
		return Turn{}, fmt.Errorf("brainstorm: %w", err)
	}

	if idx := strings.Index(output, openTag); idx != -1 {
		start := idx + len(openTag)
		end := strings.Index(output, closeTag)
		if end == -1 || end < start {
			end = len(output)
		}
		generated := strings.TrimSpace(output[start:end])
		return Turn{
			Message:         "Brainstorm complete; generated task prompt below.",
			Complete:        true,
			GeneratedPrompt: generated,
		}, nil
	}

	return Turn{Message: strings.TrimSpace(output)}, nil
}

func buildPrompt(transcript []store.ConversationTurn) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n## Conversation so far\n\n")
	for _, turn := range transcript {
		fmt.Fprintf(&b, "%s: %s\n\n", turn.Role, turn.Content)
	}
	b.WriteString("Continue the conversation: ask another question, or produce the final wrapped prompt.\n")
	return b.String()
}

// runAndCollectAssistantText spawns the adapter's command once and
// concatenates the content of every assistant-originated line, using
// the adapter's own ParseOutputLine so Claude's stream-json framing
// and Codex/OpenCode's plain text are handled identically.
func runAndCollectAssistantText(ctx context.Context, spec agent.CommandSpec, ad agent.Adapter, workingDir string) (string, error) {
	cmd, err := launcher.Build(ad.ExecutablePath(), spec.Args, workingDir, spec.ExtraEnv)
	if err != nil {
		return "", err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}

	var stdin io.WriteCloser
	if spec.StdinText != "" {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return "", fmt.Errorf("stdin pipe: %w", err)
		}
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("spawn failed: %w", err)
	}

	if stdin != nil {
		io.WriteString(stdin, spec.StdinText+"\n")
		stdin.Close()
	}

	var out strings.Builder
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		parsed := ad.ParseOutputLine(scanner.Text())
		if parsed.OriginatesFromAssistant && parsed.Content != "" {
			out.WriteString(parsed.Content)
			out.WriteByte('\n')
		}
	}

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("exited with error: %w", err)
	}

	return out.String(), nil
}
