package agent

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ralphloop/ralph/internal/launcher"
)

// openCodePermissionEnvVar is the well-known environment variable the
// opencode CLI reads a merged permissions document from.
const openCodePermissionEnvVar = "OPENCODE_PERMISSION"

// OpenCodeAdapter adapts the "opencode run" CLI: JSON-framed output,
// a plan-agent read-only mode, and a permissions document injected via
// environment rather than a CLI flag.
type OpenCodeAdapter struct {
	path      string
	installed bool
}

func NewOpenCodeAdapter() *OpenCodeAdapter {
	path, found := launcher.Resolve("opencode")
	return &OpenCodeAdapter{path: path, installed: found}
}

func (a *OpenCodeAdapter) Name() string           { return "OpenCode" }
func (a *OpenCodeAdapter) Kind() Kind             { return KindOpenCode }
func (a *OpenCodeAdapter) Installed() bool        { return a.installed }
func (a *OpenCodeAdapter) ExecutablePath() string { return a.path }

func (a *OpenCodeAdapter) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, a.path, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (a *OpenCodeAdapter) BuildCommand(prompt, cwd string, opts CommandOptions) CommandSpec {
	args := []string{"run", "--format", "json", prompt}
	return CommandSpec{Args: args, ExtraEnv: buildOpenCodeEnv()}
}

func (a *OpenCodeAdapter) BuildReadonlyCommand(prompt, cwd string, opts CommandOptions) CommandSpec {
	args := []string{"run", "--format", "json", "--agent", "plan", prompt}
	return CommandSpec{Args: args, ExtraEnv: buildOpenCodeEnv()}
}

// buildOpenCodeEnv computes the full-access permissions document,
// merges it into the user's on-disk config if present, and returns the
// environment entry that makes the child see the relaxed permissions.
// If the user already set OPENCODE_PERMISSION, that value is left
// untouched (spec.md §4.2: "Existing user-provided value of that
// variable is not overwritten").
func buildOpenCodeEnv() []string {
	if os.Getenv(openCodePermissionEnvVar) != "" {
		return nil
	}

	perms := map[string]string{
		"edit":               "allow",
		"bash":               "allow",
		"webfetch":           "allow",
		"doom_loop":          "allow",
		"external_directory": "allow",
	}

	merged := mergeOpenCodeConfigPermissions(perms)

	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil
	}
	return []string{openCodePermissionEnvVar + "=" + string(encoded)}
}

// openCodeConfigLocations are the known locations the opencode CLI
// reads its on-disk configuration from, checked in order.
func openCodeConfigLocations() []string {
	home, _ := os.UserHomeDir()
	var locs []string
	if cwd, err := os.Getwd(); err == nil {
		locs = append(locs, filepath.Join(cwd, "opencode.json"), filepath.Join(cwd, ".opencode.json"))
	}
	if home != "" {
		locs = append(locs, filepath.Join(home, ".config", "opencode", "config.json"))
	}
	return locs
}

func mergeOpenCodeConfigPermissions(perms map[string]string) map[string]interface{} {
	for _, loc := range openCodeConfigLocations() {
		data, err := os.ReadFile(loc)
		if err != nil {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		doc["permission"] = perms
		return doc
	}
	return map[string]interface{}{"permission": perms}
}

func (a *OpenCodeAdapter) ParseOutputLine(line string) ParsedLine {
	var env map[string]interface{}
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return ParsedLine{Content: line, Framing: FramingPlainText, OriginatesFromAssistant: true}
	}

	eventType, _ := env["type"].(string)
	switch eventType {
	case "text":
		content, _ := extractOpenCodeText(env)
		return ParsedLine{Content: content, Framing: FramingJSON, OriginatesFromAssistant: true}
	case "error":
		content, ok := extractOpenCodeText(env)
		if !ok {
			content = line
		}
		return ParsedLine{Content: content, Framing: FramingErrorEvent, OriginatesFromAssistant: false}
	default:
		content, ok := extractOpenCodeText(env)
		if !ok {
			content = line
		}
		return ParsedLine{Content: content, Framing: FramingJSON, OriginatesFromAssistant: false}
	}
}

// extractOpenCodeText probes, in order: part.text, text, error.message.
func extractOpenCodeText(env map[string]interface{}) (string, bool) {
	if part, ok := env["part"].(map[string]interface{}); ok {
		if text, ok := part["text"].(string); ok {
			return text, true
		}
	}
	if text, ok := env["text"].(string); ok {
		return text, true
	}
	if errObj, ok := env["error"].(map[string]interface{}); ok {
		if msg, ok := errObj["message"].(string); ok {
			return msg, true
		}
	}
	return "", false
}
