package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Adjust a project's task configuration",
}

var taskSetMaxIterationsCmd = &cobra.Command{
	Use:   "set-max-iterations <id> <n>",
	Short: "Set the maximum number of loop iterations for a project's task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fail("invalid iteration count %q: %v", args[1], err)
		}
		s := openStore()
		if _, err := s.SetTaskMaxIterations(args[0], n); err != nil {
			fail("updating task: %v", err)
		}
		fmt.Printf("%s Updated max_iterations to %d\n", green("✓"), n)
	},
}

var taskSetAutoCommitCmd = &cobra.Command{
	Use:   "set-auto-commit <id> <true|false>",
	Short: "Enable or disable auto-commit for a project's task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		enabled := args[1] == "true"
		s := openStore()
		if _, err := s.SetTaskAutoCommit(args[0], enabled); err != nil {
			fail("updating task: %v", err)
		}
		fmt.Printf("%s Updated auto_commit to %v\n", green("✓"), enabled)
	},
}

var taskSetAutoInitGitCmd = &cobra.Command{
	Use:   "set-auto-init-git <id> <true|false>",
	Short: "Control whether 'ralph run' git-inits the working directory if it isn't a repo yet",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		enabled := args[1] == "true"
		s := openStore()
		if _, err := s.SetTaskAutoInitGit(args[0], enabled); err != nil {
			fail("updating task: %v", err)
		}
		fmt.Printf("%s Updated auto_init_git to %v\n", green("✓"), enabled)
	},
}

func init() {
	taskCmd.AddCommand(taskSetMaxIterationsCmd, taskSetAutoCommitCmd, taskSetAutoInitGitCmd)
	rootCmd.AddCommand(taskCmd)
}
