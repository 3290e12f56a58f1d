package brainstorm

import (
	"context"
	"strings"
	"testing"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/store"
)

type scriptAdapter struct {
	script string
}

func (a *scriptAdapter) Name() string           { return "fake" }
func (a *scriptAdapter) Kind() agent.Kind       { return agent.KindCodex }
func (a *scriptAdapter) Installed() bool        { return true }
func (a *scriptAdapter) ExecutablePath() string { return "/bin/sh" }
func (a *scriptAdapter) Version(ctx context.Context) (string, error) {
	return "fake-1.0", nil
}
func (a *scriptAdapter) BuildCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	return agent.CommandSpec{Args: []string{"-c", a.script}}
}
func (a *scriptAdapter) BuildReadonlyCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	return a.BuildCommand(prompt, cwd, opts)
}
func (a *scriptAdapter) ParseOutputLine(line string) agent.ParsedLine {
	return agent.ParsedLine{Content: line, Framing: agent.FramingPlainText, OriginatesFromAssistant: true}
}

func TestStepReturnsClarifyingQuestionWhenIncomplete(t *testing.T) {
	ad := &scriptAdapter{script: `echo "What language should this use?"`}
	turn, err := Step(context.Background(), ad, t.TempDir(), nil, false)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if turn.Complete {
		t.Fatal("expected the conversation not to be complete yet")
	}
	if !strings.Contains(turn.Message, "language") {
		t.Errorf("expected the clarifying question to come through, got %q", turn.Message)
	}
}

func TestStepExtractsGeneratedPromptWhenComplete(t *testing.T) {
	script := `printf '<brainstorm_complete>\nBuild a CLI tool in Go.\n<done>COMPLETE</done>\n</brainstorm_complete>\n'`
	ad := &scriptAdapter{script: script}
	transcript := []store.ConversationTurn{
		{Role: "user", Content: "I want to build something"},
	}
	turn, err := Step(context.Background(), ad, t.TempDir(), transcript, false)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !turn.Complete {
		t.Fatal("expected the conversation to be complete")
	}
	if !strings.Contains(turn.GeneratedPrompt, "<done>COMPLETE</done>") {
		t.Errorf("expected the generated prompt to carry the sentinel, got %q", turn.GeneratedPrompt)
	}
}
