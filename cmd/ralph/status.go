package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show a project's current status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		state, err := s.Get(args[0])
		if err != nil {
			fail("getting project: %v", err)
		}
		fmt.Printf("%s: %s\n", state.Name, state.Status)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
