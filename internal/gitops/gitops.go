// Package gitops wraps the git CLI invocations C5 (auto-commit) needs:
// is-inside-work-tree, porcelain status, diff stat, diff, add -A, and
// commit. Grounded on internal/git/git.go from the teacher, trimmed to
// the operations spec.md §6 names (the teacher's rebase/branch-cleanup
// machinery belongs to a multi-project orchestrator, which is out of
// scope here -- see DESIGN.md).
package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git wraps a resolved git executable.
type Git struct {
	path string
}

// New locates git on PATH.
func New() (*Git, error) {
	path, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("gitops: git not found in PATH: %w", err)
	}
	return &Git{path: path}, nil
}

// IsRepo reports whether dir is inside a git working tree.
// SECURITY: dir must be a validated, trusted path.
func (g *Git) IsRepo(ctx context.Context, dir string) bool {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// Init runs `git init` in dir, creating a new repository when a
// project's task requests one and none exists yet.
func (g *Git) Init(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "init")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gitops: init failed in %s: %w", dir, err)
	}
	return nil
}

// HasChanges reports whether `git status --porcelain` is non-empty.
func (g *Git) HasChanges(ctx context.Context, dir string) (bool, error) {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "status", "--porcelain")
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("gitops: status failed in %s: %w", dir, err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// DiffStat returns `git diff --stat` output, summarizing the working
// tree's unstaged changes.
func (g *Git) DiffStat(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "diff", "--stat")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("gitops: diff --stat failed in %s: %w", dir, err)
	}
	return string(out), nil
}

// Diff returns the full `git diff` output.
func (g *Git) Diff(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "diff")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("gitops: diff failed in %s: %w", dir, err)
	}
	return string(out), nil
}

// AddAll stages every change (`git add -A`).
func (g *Git) AddAll(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "add", "-A")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gitops: add -A failed in %s: %w", dir, err)
	}
	return nil
}

// Commit runs `git commit -m <message>`.
func (g *Git) Commit(ctx context.Context, dir, message string) error {
	cmd := exec.CommandContext(ctx, g.path, "-C", dir, "commit", "-m", message)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gitops: commit failed in %s: %w", dir, err)
	}
	return nil
}
