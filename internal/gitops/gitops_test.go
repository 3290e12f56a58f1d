package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if err := cmd.Run(); err != nil {
			t.Fatalf("git %v failed: %v", args, err)
		}
	}
	run("init", "--initial-branch=main")
	run("config", "user.name", "Test User")
	run("config", "user.email", "test@example.com")
	return dir
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if g.IsRepo(ctx, dir) {
		t.Fatal("expected a fresh temp dir not to be a repo yet")
	}
	if err := g.Init(ctx, dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !g.IsRepo(ctx, dir) {
		t.Error("expected IsRepo to report true after Init")
	}
}

func TestIsRepo(t *testing.T) {
	dir := initRepo(t)
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !g.IsRepo(context.Background(), dir) {
		t.Error("expected IsRepo to report true for an initialized repo")
	}
	if g.IsRepo(context.Background(), t.TempDir()) {
		t.Error("expected IsRepo to report false for a non-repo directory")
	}
}

func TestHasChangesAndCommit(t *testing.T) {
	dir := initRepo(t)
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	has, err := g.HasChanges(ctx, dir)
	if err != nil {
		t.Fatalf("HasChanges: %v", err)
	}
	if has {
		t.Error("expected no changes in empty repo")
	}

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	has, err = g.HasChanges(ctx, dir)
	if err != nil {
		t.Fatalf("HasChanges: %v", err)
	}
	if !has {
		t.Error("expected changes after creating a file")
	}

	if err := g.AddAll(ctx, dir); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if err := g.Commit(ctx, dir, "add a.txt"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	has, err = g.HasChanges(ctx, dir)
	if err != nil {
		t.Fatalf("HasChanges: %v", err)
	}
	if has {
		t.Error("expected no changes immediately after commit")
	}
}

func TestDiffStatAndDiff(t *testing.T) {
	dir := initRepo(t)
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := g.AddAll(ctx, dir); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if err := g.Commit(ctx, dir, "initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stat, err := g.DiffStat(ctx, dir)
	if err != nil {
		t.Fatalf("DiffStat: %v", err)
	}
	if stat == "" {
		t.Error("expected non-empty diff --stat output")
	}

	diff, err := g.Diff(ctx, dir)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if diff == "" {
		t.Error("expected non-empty diff output")
	}
}
