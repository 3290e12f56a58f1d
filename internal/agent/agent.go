// Package agent defines the adapter contract (C2) that normalizes the
// three supported coding-agent command-line tools behind one interface:
// argument vectors for run/read-only modes, completion detection, and
// output-line parsing into a normalized record.
package agent

import (
	"context"
	"strings"
)

// Kind is a closed enumeration of supported external coding-agent tools.
type Kind string

const (
	KindClaude   Kind = "claude"
	KindCodex    Kind = "codex"
	KindOpenCode Kind = "opencode"
)

// CommandOptions configures how an adapter builds a command.
type CommandOptions struct {
	// SkipRepoSafetyCheck, if set, makes the adapter append the
	// tool-specific flag that bypasses the tool's own "not inside a
	// trusted repository" refusal.
	SkipRepoSafetyCheck bool
}

// Framing describes how an adapter classified a line of output.
type Framing string

const (
	FramingJSON       Framing = "json"
	FramingPlainText  Framing = "plain-text"
	FramingErrorEvent Framing = "error-event"
)

// ParsedLine is the adapter's normalized output record for a single line.
type ParsedLine struct {
	Content                 string
	Framing                 Framing
	OriginatesFromAssistant bool
}

// CommandSpec describes a child-process invocation an adapter wants run.
// It says nothing about how the process is actually spawned -- that is
// the launcher's (C1) job.
type CommandSpec struct {
	// Args is the full argument vector, not including the executable
	// path itself (that is resolved separately by the launcher).
	Args []string

	// ExtraEnv holds additional KEY=VALUE environment entries the
	// adapter wants merged on top of the process environment (used by
	// the OpenCode adapter to inject its permissions document).
	ExtraEnv []string

	// StdinText, when non-empty, must be written to the child's
	// standard input followed by a newline, then the stream closed.
	// Used by the Claude-style adapter on hosts that pop a console
	// window, where the prompt cannot be passed as an argument.
	StdinText string
}

// Adapter is the per-agent strategy. Implementations hold no dynamic
// state beyond what's needed to locate the executable; command
// building and line parsing are synchronous, pure functions of their
// arguments.
type Adapter interface {
	// Name is the short, human-facing tool name (e.g. "Claude Code").
	Name() string

	// Kind returns the adapter's enumeration value.
	Kind() Kind

	// Installed reports whether the adapter located an executable on
	// this host.
	Installed() bool

	// ExecutablePath returns the resolved (or best-guess) path used to
	// spawn the tool.
	ExecutablePath() string

	// Version asks the tool for its own version string.
	Version(ctx context.Context) (string, error)

	// BuildCommand constructs the argument vector for a normal,
	// file-mutating run.
	BuildCommand(prompt, cwd string, opts CommandOptions) CommandSpec

	// BuildReadonlyCommand constructs the argument vector for a
	// read-only, non-mutating run (used for meta-tasks like commit
	// message generation).
	BuildReadonlyCommand(prompt, cwd string, opts CommandOptions) CommandSpec

	// ParseOutputLine classifies one line of output from either
	// stream into a ParsedLine.
	ParseOutputLine(line string) ParsedLine
}

// ContainsSentinel reports whether content contains sentinel as a
// case-sensitive substring. Shared by every adapter's completion
// detection (spec: "Matching is case-sensitive substring").
func ContainsSentinel(content, sentinel string) bool {
	if sentinel == "" {
		return false
	}
	return strings.Contains(content, sentinel)
}
