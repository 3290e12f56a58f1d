package demux

import (
	"context"
	"strings"
	"testing"

	"github.com/ralphloop/ralph/internal/agent"
)

type echoAdapter struct{}

func (echoAdapter) Name() string           { return "echo" }
func (echoAdapter) Kind() agent.Kind       { return agent.KindCodex }
func (echoAdapter) Installed() bool        { return true }
func (echoAdapter) ExecutablePath() string { return "" }
func (echoAdapter) Version(ctx context.Context) (string, error) {
	return "", nil
}
func (echoAdapter) BuildCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	return agent.CommandSpec{}
}
func (echoAdapter) BuildReadonlyCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	return agent.CommandSpec{}
}
func (echoAdapter) ParseOutputLine(line string) agent.ParsedLine {
	return agent.ParsedLine{Content: line, Framing: agent.FramingPlainText, OriginatesFromAssistant: true}
}

func TestRunMergesBothStreamsAndClosesOut(t *testing.T) {
	stdout := strings.NewReader("out1\nout2\n")
	stderr := strings.NewReader("err1\n")

	out := make(chan Line, 16)
	if err := Run(stdout, stderr, echoAdapter{}, out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var stdoutLines, stderrLines int
	for line := range out {
		if line.IsStderr {
			stderrLines++
			if line.Parsed.Content != "err1" {
				t.Errorf("unexpected stderr content %q", line.Parsed.Content)
			}
		} else {
			stdoutLines++
		}
	}
	if stdoutLines != 2 {
		t.Errorf("expected 2 stdout lines, got %d", stdoutLines)
	}
	if stderrLines != 1 {
		t.Errorf("expected 1 stderr line, got %d", stderrLines)
	}
}

func TestRunOnEmptyStreamsClosesOutImmediately(t *testing.T) {
	out := make(chan Line, 1)
	if err := Run(strings.NewReader(""), strings.NewReader(""), echoAdapter{}, out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := <-out; ok {
		t.Error("expected out to be closed with no lines sent")
	}
}
