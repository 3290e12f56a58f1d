//go:build !windows

package launcher

import "os/exec"

// hideConsoleWindow is a no-op on platforms with no console-popping
// behavior to suppress.
func hideConsoleWindow(cmd *exec.Cmd) {}

// claudeUsesStdinPrompt is false on every platform except the one that
// pops a console window for spawned processes.
const claudeUsesStdinPrompt = false
