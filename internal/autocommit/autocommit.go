// Package autocommit implements C5: after an iteration, if the
// working tree is a repository and has changes, ask the configured
// adapter (in read-only mode) for a commit message and record the
// change.
//
// Grounded on internal/git/git.go's status/diff/commit plumbing for
// the git side, and on internal/git/message.go's prompt-construction
// idiom for the message side -- but the message is generated by
// invoking the same coding-agent adapter in read-only mode rather than
// a direct Anthropic API call, since spec.md §4.5 requires that (see
// DESIGN.md for why anthropic-sdk-go isn't carried forward).
package autocommit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ralphloop/ralph/internal/agent"
	"github.com/ralphloop/ralph/internal/gitops"
	"github.com/ralphloop/ralph/internal/launcher"
)

const (
	diffBodyCap   = 4000
	messageMaxLen = 72
)

// Step runs the auto-commit step for one iteration. It is a no-op
// (returns "", nil) if the working directory isn't a repository or
// has no changes. On success it returns the commit message used.
// Any failure is non-fatal to the caller (spec.md §4.5/§7): the loop
// engine folds it into a stderr Output event rather than stopping.
func Step(ctx context.Context, git *gitops.Git, ad agent.Adapter, workingDir string, iteration int, skipRepoSafetyCheck bool) (string, error) {
	if !git.IsRepo(ctx, workingDir) {
		return "", nil
	}

	hasChanges, err := git.HasChanges(ctx, workingDir)
	if err != nil {
		return "", fmt.Errorf("autocommit: status check failed: %w", err)
	}
	if !hasChanges {
		return "", nil
	}

	message, err := generateMessage(ctx, git, ad, workingDir, iteration, skipRepoSafetyCheck)
	if err != nil {
		message = fmt.Sprintf("ralph: iteration %d", iteration)
	}

	if err := git.AddAll(ctx, workingDir); err != nil {
		return "", fmt.Errorf("autocommit: add -A failed: %w", err)
	}
	if err := git.Commit(ctx, workingDir, message); err != nil {
		return "", fmt.Errorf("autocommit: commit failed: %w", err)
	}
	return message, nil
}

func generateMessage(ctx context.Context, git *gitops.Git, ad agent.Adapter, workingDir string, iteration int, skipRepoSafetyCheck bool) (string, error) {
	stat, err := git.DiffStat(ctx, workingDir)
	if err != nil {
		return "", err
	}
	diff, err := git.Diff(ctx, workingDir)
	if err != nil {
		return "", err
	}
	truncated := diff
	if len(truncated) > diffBodyCap {
		truncated = truncated[:diffBodyCap] + "\n... (truncated)"
	}

	prompt := buildMetaPrompt(iteration, stat, truncated)

	opts := agent.CommandOptions{SkipRepoSafetyCheck: skipRepoSafetyCheck}
	spec := ad.BuildReadonlyCommand(prompt, workingDir, opts)

	firstLine, err := runOnceAndTakeFirstLine(ctx, spec, ad.ExecutablePath(), workingDir)
	if err != nil {
		return "", err
	}

	message := strings.Trim(strings.TrimSpace(firstLine), "`\"'")
	if message == "" {
		return "", fmt.Errorf("autocommit: agent produced no message")
	}
	if len(message) > messageMaxLen {
		message = message[:messageMaxLen]
	}
	return message, nil
}

func buildMetaPrompt(iteration int, stat, diff string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a single-line, imperative commit message (max 72 characters) ")
	fmt.Fprintf(&b, "summarizing the changes made during iteration %d.\n\n", iteration)
	b.WriteString("Do not edit any files. Respond with only the commit message line.\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString(stat)
	b.WriteString("\n## Diff\n\n")
	b.WriteString(diff)
	return b.String()
}

// runOnceAndTakeFirstLine spawns the adapter's command once, waits for
// it to exit, and returns the first non-empty raw line of standard
// output.
func runOnceAndTakeFirstLine(ctx context.Context, spec agent.CommandSpec, execPath, cwd string) (string, error) {
	cmd, err := launcher.Build(execPath, spec.Args, cwd, spec.ExtraEnv)
	if err != nil {
		return "", err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("autocommit: stdout pipe: %w", err)
	}

	var stdin io.WriteCloser
	if spec.StdinText != "" {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return "", fmt.Errorf("autocommit: stdin pipe: %w", err)
		}
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("autocommit: spawn failed: %w", err)
	}

	if stdin != nil {
		io.WriteString(stdin, spec.StdinText+"\n")
		stdin.Close()
	}

	// Scan to EOF rather than breaking on the first non-empty line:
	// os/exec requires every read from StdoutPipe to finish before
	// Wait is called, or the child can block writing to a full pipe
	// and Wait never returns.
	scanner := bufio.NewScanner(stdout)
	var first string
	for scanner.Scan() {
		if first == "" {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				first = line
			}
		}
	}

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("autocommit: exited with error: %w", err)
	}

	if first == "" {
		return "", fmt.Errorf("autocommit: no output produced")
	}
	return first, nil
}
