// Command ralph is the CLI surface (P4): project CRUD against the
// on-disk store, the brainstorm conversation, and running the loop
// engine against a project's configured task.
//
// Grounded on cmd/vc's cobra.Command-per-file layout and
// cmd/run-executor/main.go's signal-handling shutdown pattern, with
// the teacher's Unix-socket control.Client replaced by in-process
// signal delivery (SIGUSR1 toggles pause/resume, SIGINT/SIGTERM stop)
// since C6 is an in-process control surface here, not a cross-process
// RPC plane (see SPEC_FULL.md §4.10).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ralph",
	Short: "Run a coding agent in an iterative, supervised loop",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
