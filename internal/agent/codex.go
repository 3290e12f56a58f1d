package agent

import (
	"context"
	"os/exec"
	"strings"

	"github.com/ralphloop/ralph/internal/launcher"
)

// CodexAdapter adapts the "codex exec" CLI: plain-text output, prompt
// passed directly as an argument, and every line marked
// assistant-originated, so completion is detected when any single
// output line contains the sentinel. Lines are checked one at a time;
// a sentinel split across two lines is not detected.
type CodexAdapter struct {
	path      string
	installed bool
}

func NewCodexAdapter() *CodexAdapter {
	path, found := launcher.Resolve("codex")
	return &CodexAdapter{path: path, installed: found}
}

func (a *CodexAdapter) Name() string           { return "Codex CLI" }
func (a *CodexAdapter) Kind() Kind             { return KindCodex }
func (a *CodexAdapter) Installed() bool        { return a.installed }
func (a *CodexAdapter) ExecutablePath() string { return a.path }

func (a *CodexAdapter) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, a.path, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// BuildCommand and BuildReadonlyCommand are identical on Codex: the
// tool has no distinct read-only argument set (spec.md §9, Open
// Question ii) -- the interface still keeps them separate so a future
// sandboxed mode can differ without touching call sites.
func (a *CodexAdapter) BuildCommand(prompt, cwd string, opts CommandOptions) CommandSpec {
	return a.execArgs(prompt, opts)
}

func (a *CodexAdapter) BuildReadonlyCommand(prompt, cwd string, opts CommandOptions) CommandSpec {
	return a.execArgs(prompt, opts)
}

func (a *CodexAdapter) execArgs(prompt string, opts CommandOptions) CommandSpec {
	args := []string{"exec", "--dangerously-bypass-approvals-and-sandbox"}
	if opts.SkipRepoSafetyCheck {
		args = append(args, "--skip-git-repo-check")
	}
	args = append(args, prompt)
	return CommandSpec{Args: args}
}

func (a *CodexAdapter) ParseOutputLine(line string) ParsedLine {
	return ParsedLine{Content: line, Framing: FramingPlainText, OriginatesFromAssistant: true}
}

// RepoSafetyRefusalFingerprint is the known error fingerprint for
// Codex's trusted-directory refusal on standard error.
func RepoSafetyRefusalFingerprint(line string) bool {
	return strings.Contains(line, "Not inside a trusted directory") && strings.Contains(line, "skip-git-repo-check")
}
