package agent

import "testing"

func TestClaudeParseAssistantJSONLine(t *testing.T) {
	a := &ClaudeAdapter{path: "claude", installed: true}
	line := `{"type":"message","role":"assistant","content":"Hello"}`
	parsed := a.ParseOutputLine(line)

	if parsed.Content != "Hello" {
		t.Errorf("content = %q, want %q", parsed.Content, "Hello")
	}
	if parsed.Framing != FramingJSON {
		t.Errorf("framing = %v, want json", parsed.Framing)
	}
	if !parsed.OriginatesFromAssistant {
		t.Error("expected OriginatesFromAssistant = true")
	}
}

func TestClaudeParseNonJSONLine(t *testing.T) {
	a := &ClaudeAdapter{path: "claude", installed: true}
	parsed := a.ParseOutputLine("plain text")

	if parsed.Content != "plain text" {
		t.Errorf("content = %q, want %q", parsed.Content, "plain text")
	}
	if parsed.Framing != FramingPlainText {
		t.Errorf("framing = %v, want plain-text", parsed.Framing)
	}
	if parsed.OriginatesFromAssistant {
		t.Error("expected OriginatesFromAssistant = false")
	}
}

func TestClaudeParseNestedMessageContentArray(t *testing.T) {
	a := &ClaudeAdapter{path: "claude", installed: true}
	line := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Hello "},{"type":"text","text":"world"}]}}`
	parsed := a.ParseOutputLine(line)

	if parsed.Content != "Hello world" {
		t.Errorf("content = %q, want %q", parsed.Content, "Hello world")
	}
}

func TestClaudeDetectCompletionRequiresAssistantOrigin(t *testing.T) {
	a := &ClaudeAdapter{path: "claude", installed: true}
	sentinel := "<done>COMPLETE</done>"

	assistantLine := `{"type":"message","role":"assistant","content":"Hello <done>COMPLETE</done>"}`
	parsed := a.ParseOutputLine(assistantLine)
	if !parsed.OriginatesFromAssistant || !ContainsSentinel(parsed.Content, sentinel) {
		t.Fatal("expected assistant-originated line to contain sentinel")
	}

	userLine := `{"type":"user","content":"<done>COMPLETE</done>"}`
	parsed = a.ParseOutputLine(userLine)
	if parsed.OriginatesFromAssistant {
		t.Fatal("user-originated line must not be treated as completion")
	}
}

func TestClaudeBuildCommandIncludesStreamJSONFlags(t *testing.T) {
	a := &ClaudeAdapter{path: "claude", installed: true}
	spec := a.BuildCommand("do the thing", "/tmp/work", CommandOptions{})

	wantFlags := []string{"--print", "--dangerously-skip-permissions", "--permission-mode", "bypassPermissions", "--output-format", "stream-json", "--include-partial-messages"}
	for _, want := range wantFlags {
		found := false
		for _, got := range spec.Args {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected args to contain %q, got %v", want, spec.Args)
		}
	}
}
