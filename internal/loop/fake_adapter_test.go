package loop

import (
	"context"
	"strings"

	"github.com/ralphloop/ralph/internal/agent"
)

// fakeAdapter drives /bin/sh with a fixed script so engine tests don't
// depend on a real coding-agent CLI being installed. Every line is
// treated as assistant-originated plain text, matching Codex's framing
// (the simplest of the three real adapters).
type fakeAdapter struct {
	script string
}

func (a *fakeAdapter) Name() string           { return "fake" }
func (a *fakeAdapter) Kind() agent.Kind       { return agent.KindCodex }
func (a *fakeAdapter) Installed() bool        { return true }
func (a *fakeAdapter) ExecutablePath() string { return "/bin/sh" }

func (a *fakeAdapter) Version(ctx context.Context) (string, error) {
	return "fake-1.0", nil
}

func (a *fakeAdapter) BuildCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	return agent.CommandSpec{Args: []string{"-c", a.script}}
}

func (a *fakeAdapter) BuildReadonlyCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	return a.BuildCommand(prompt, cwd, opts)
}

func (a *fakeAdapter) ParseOutputLine(line string) agent.ParsedLine {
	return agent.ParsedLine{
		Content:                 strings.TrimSpace(line),
		Framing:                 agent.FramingPlainText,
		OriginatesFromAssistant: true,
	}
}

// neverSpawnAdapter fails the test if any of its methods that imply a
// spawn attempt are called; used to assert the engine never spawns
// when it should stop at the gate.
type neverSpawnAdapter struct {
	fakeAdapter
	onSpawn func()
}

func (a *neverSpawnAdapter) BuildCommand(prompt, cwd string, opts agent.CommandOptions) agent.CommandSpec {
	if a.onSpawn != nil {
		a.onSpawn()
	}
	return a.fakeAdapter.BuildCommand(prompt, cwd, opts)
}

// fakeStructuredAdapter drives the same /bin/sh script mechanism as
// fakeAdapter but parses output lines through the real Claude adapter's
// stream-json envelope logic, so engine-level tests can exercise the
// structured/JSON-framed adapter path (role/type-based
// assistant-origin detection) without needing the real claude binary.
type fakeStructuredAdapter struct {
	fakeAdapter
	inner agent.ClaudeAdapter
}

func newFakeStructuredAdapter(script string) *fakeStructuredAdapter {
	return &fakeStructuredAdapter{fakeAdapter: fakeAdapter{script: script}}
}

func (a *fakeStructuredAdapter) ParseOutputLine(line string) agent.ParsedLine {
	return a.inner.ParseOutputLine(line)
}
