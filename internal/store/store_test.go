package store

import (
	"testing"
)

func TestCreateListGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	created, err := s.Create("/tmp/my-project", "my-project")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != StatusBrainstorming {
		t.Errorf("expected new project to start brainstorming, got %q", created.Status)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected one listed project matching the created ID, got %+v", list)
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Path != "/tmp/my-project" {
		t.Errorf("expected path to round-trip, got %q", got.Path)
	}
}

func TestSetSkipRepoSafetyCheckPersists(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	created, err := s.Create("/tmp/p", "p")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.SetSkipRepoSafetyCheck(created.ID, true); err != nil {
		t.Fatalf("SetSkipRepoSafetyCheck: %v", err)
	}
	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.SkipRepoSafetyCheck {
		t.Error("expected skip flag to persist")
	}
}

func TestSetTaskFieldsRequireATask(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	created, err := s.Create("/tmp/p", "p")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.SetTaskMaxIterations(created.ID, 10); err == nil {
		t.Error("expected an error setting max iterations with no task configured")
	}
}

func TestCompleteBrainstormInstallsTaskAndMarksReady(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	created, err := s.Create("/tmp/p", "p")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	task := TaskConfig{
		Prompt:        "implement the thing <done>COMPLETE</done>",
		AgentKind:     "claude",
		MaxIterations: 25,
		AutoCommit:    true,
		Sentinel:      "<done>COMPLETE</done>",
	}
	state, err := s.CompleteBrainstorm(created.ID, task)
	if err != nil {
		t.Fatalf("CompleteBrainstorm: %v", err)
	}
	if state.Status != StatusReady {
		t.Errorf("expected ready status, got %q", state.Status)
	}
	if state.Task == nil || state.Task.MaxIterations != 25 {
		t.Fatalf("expected task to be installed, got %+v", state.Task)
	}
	if state.Brainstorm == nil || state.Brainstorm.CompletedAt == nil {
		t.Error("expected brainstorm to be marked completed")
	}

	if _, err := s.SetTaskMaxIterations(created.ID, 30); err != nil {
		t.Fatalf("SetTaskMaxIterations: %v", err)
	}
	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Task.MaxIterations != 30 {
		t.Errorf("expected updated max iterations to persist, got %d", got.Task.MaxIterations)
	}
}

func TestGetUnknownProjectErrors(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Get("does-not-exist"); err == nil {
		t.Error("expected an error getting an unknown project")
	}
}
