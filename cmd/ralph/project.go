package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (source directory + persisted task configuration)",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		projects, err := s.List()
		if err != nil {
			fail("listing projects: %v", err)
		}
		if len(projects) == 0 {
			fmt.Println(gray("No projects yet. Create one with 'ralph project create <path> <name>'."))
			return
		}
		for _, p := range projects {
			fmt.Printf("%s  %-20s  %-10s  %s\n", p.ID, p.Name, p.Status, p.Path)
		}
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <path> <name>",
	Short: "Create a new project rooted at path",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		state, err := s.Create(args[0], args[1])
		if err != nil {
			fail("creating project: %v", err)
		}
		fmt.Printf("%s Created project %s\n", green("✓"), state.ID)
	},
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a project's full state",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		state, err := s.Get(args[0])
		if err != nil {
			fail("getting project: %v", err)
		}
		fmt.Printf("id:     %s\n", state.ID)
		fmt.Printf("name:   %s\n", state.Name)
		fmt.Printf("path:   %s\n", state.Path)
		fmt.Printf("status: %s\n", state.Status)
		fmt.Printf("skip_repo_safety_check: %v\n", state.SkipRepoSafetyCheck)
		if state.Task != nil {
			fmt.Printf("task.agent_kind:      %s\n", state.Task.AgentKind)
			fmt.Printf("task.max_iterations:  %d\n", state.Task.MaxIterations)
			fmt.Printf("task.auto_commit:     %v\n", state.Task.AutoCommit)
			fmt.Printf("task.sentinel:        %s\n", state.Task.Sentinel)
		}
	},
}

var projectSetSkipCheckCmd = &cobra.Command{
	Use:   "set-skip-check <id> <true|false>",
	Short: "Set whether the agent's own trusted-directory safety check is bypassed",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		skip := args[1] == "true"
		s := openStore()
		if _, err := s.SetSkipRepoSafetyCheck(args[0], skip); err != nil {
			fail("updating project: %v", err)
		}
		fmt.Printf("%s Updated skip_repo_safety_check to %v\n", green("✓"), skip)
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectGetCmd, projectSetSkipCheckCmd)
	rootCmd.AddCommand(projectCmd)
}
