//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// hideConsoleWindow suppresses the console window Windows otherwise
// pops for a spawned console subprocess when the parent is a GUI app.
func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}

// claudeUsesStdinPrompt is true on the host that pops a console
// window: the prompt is written to stdin instead of passed as argv.
const claudeUsesStdinPrompt = true
