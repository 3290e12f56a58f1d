package agent

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/ralphloop/ralph/internal/launcher"
)

// ClaudeAdapter adapts the "claude" CLI's stream-json output and
// permission-bypass flags to the Adapter contract.
type ClaudeAdapter struct {
	path      string
	installed bool
}

// NewClaudeAdapter resolves the claude executable and returns an
// adapter bound to it.
func NewClaudeAdapter() *ClaudeAdapter {
	path, found := launcher.Resolve("claude")
	return &ClaudeAdapter{path: path, installed: found}
}

func (a *ClaudeAdapter) Name() string           { return "Claude Code" }
func (a *ClaudeAdapter) Kind() Kind             { return KindClaude }
func (a *ClaudeAdapter) Installed() bool        { return a.installed }
func (a *ClaudeAdapter) ExecutablePath() string { return a.path }

func (a *ClaudeAdapter) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, a.path, "--version")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (a *ClaudeAdapter) BuildCommand(prompt, cwd string, opts CommandOptions) CommandSpec {
	return a.buildArgs(prompt)
}

func (a *ClaudeAdapter) BuildReadonlyCommand(prompt, cwd string, opts CommandOptions) CommandSpec {
	// Claude has no distinct read-only flag set; the caller is
	// expected to choose a prompt that asks for no file edits.
	return a.buildArgs(prompt)
}

func (a *ClaudeAdapter) buildArgs(prompt string) CommandSpec {
	args := []string{
		"--print",
		"--dangerously-skip-permissions",
		"--permission-mode", "bypassPermissions",
		"--verbose",
	}

	spec := CommandSpec{}
	if launcher.ClaudeUsesStdinPrompt() {
		args = append(args, "--input-format", "text")
		spec.StdinText = prompt
	} else {
		args = append(args, prompt)
	}

	args = append(args, "--output-format", "stream-json", "--include-partial-messages")
	spec.Args = args
	return spec
}

// claudeEnvelope mirrors the fields SpawnAgent's AgentMessage cares
// about, generalized across the nested shapes the stream-json output
// can take (top-level, delta, message-wrapped).
type claudeEnvelope struct {
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Text    string          `json:"text"`
	Content json.RawMessage `json:"content"`
	Delta   *struct {
		Text    string          `json:"text"`
		Content json.RawMessage `json:"content"`
	} `json:"delta"`
	Message *struct {
		Text    string          `json:"text"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

func (a *ClaudeAdapter) ParseOutputLine(line string) ParsedLine {
	var env claudeEnvelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return ParsedLine{Content: line, Framing: FramingPlainText, OriginatesFromAssistant: false}
	}

	content := extractClaudeText(env)
	fromAssistant := env.Role == "assistant"
	if env.Role == "" {
		t := env.Type
		if strings.Contains(t, "message") || strings.Contains(t, "content") || strings.Contains(t, "assistant") {
			fromAssistant = true
		}
	}

	if strings.TrimSpace(content) == "" && env.Type != "ping" && env.Type != "progress" {
		content = line
	}

	return ParsedLine{Content: content, Framing: FramingJSON, OriginatesFromAssistant: fromAssistant}
}

func extractClaudeText(env claudeEnvelope) string {
	if env.Text != "" {
		return env.Text
	}
	if text, ok := extractStringOrParts(env.Content); ok {
		return text
	}
	if env.Delta != nil {
		if env.Delta.Text != "" {
			return env.Delta.Text
		}
		if text, ok := extractStringOrParts(env.Delta.Content); ok {
			return text
		}
	}
	if env.Message != nil {
		if env.Message.Text != "" {
			return env.Message.Text
		}
		if text, ok := extractStringOrParts(env.Message.Content); ok {
			return text
		}
	}
	return ""
}

// extractStringOrParts handles "content" being either a bare string or
// an array of {"text": "..."} / {"content": "..."} parts, joining them.
func extractStringOrParts(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	var parts []struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", false
	}
	var b strings.Builder
	for _, p := range parts {
		switch {
		case p.Text != "":
			b.WriteString(p.Text)
		case p.Content != "":
			b.WriteString(p.Content)
		}
	}
	return b.String(), b.Len() > 0
}
