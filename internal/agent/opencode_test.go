package agent

import (
	"reflect"
	"testing"
)

func TestOpenCodeExecArgs(t *testing.T) {
	a := &OpenCodeAdapter{path: "opencode", installed: true}
	got := a.BuildCommand("hello", "/tmp", CommandOptions{}).Args
	want := []string{"run", "--format", "json", "hello"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestOpenCodeReadonlyArgsUsePlanAgent(t *testing.T) {
	a := &OpenCodeAdapter{path: "opencode", installed: true}
	got := a.BuildReadonlyCommand("hello", "/tmp", CommandOptions{}).Args
	want := []string{"run", "--format", "json", "--agent", "plan", "hello"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestOpenCodeParseTextLine(t *testing.T) {
	a := &OpenCodeAdapter{path: "opencode", installed: true}
	parsed := a.ParseOutputLine(`{"type":"text","part":{"text":"hello there"}}`)
	if parsed.Content != "hello there" || !parsed.OriginatesFromAssistant {
		t.Errorf("got %+v", parsed)
	}
}

func TestOpenCodeParseErrorLine(t *testing.T) {
	a := &OpenCodeAdapter{path: "opencode", installed: true}
	parsed := a.ParseOutputLine(`{"type":"error","error":{"message":"boom"}}`)
	if parsed.Content != "boom" {
		t.Errorf("content = %q, want boom", parsed.Content)
	}
	if parsed.Framing != FramingErrorEvent {
		t.Errorf("framing = %v, want error-event", parsed.Framing)
	}
	if parsed.OriginatesFromAssistant {
		t.Error("error events must not be assistant-originated")
	}
}

func TestOpenCodeParseNeutralStructuredLine(t *testing.T) {
	a := &OpenCodeAdapter{path: "opencode", installed: true}
	parsed := a.ParseOutputLine(`{"type":"step-start"}`)
	if parsed.OriginatesFromAssistant {
		t.Error("neutral structured events must not be assistant-originated")
	}
	if parsed.Framing != FramingJSON {
		t.Errorf("framing = %v, want json", parsed.Framing)
	}
}

func TestBuildOpenCodeEnvRespectsExistingOverride(t *testing.T) {
	t.Setenv("OPENCODE_PERMISSION", `{"already":"set"}`)
	env := buildOpenCodeEnv()
	if env != nil {
		t.Errorf("expected no env injected when user already set it, got %v", env)
	}
}
