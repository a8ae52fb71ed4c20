// Package main provides statestack-demo, a small CLI that drives a scripted
// arcade session (title, arena, pause overlay, game over) through a
// statestack machine at a fixed tick rate.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the demo version reported by the version command.
const Version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "statestack-demo",
		Short: "Drive a scripted stack-based state machine",
		Long: `statestack-demo runs a scripted arcade session through a stack-based
state machine: a title screen switches to the arena, the arena pushes a
pause overlay every ten points, and the game-over screen quits the stack.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "statestack-demo", Version)
		},
	}
}
