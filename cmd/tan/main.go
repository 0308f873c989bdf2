/*
Command tan is the interpreter's entry point, replacing go-mix's hand-rolled
os.Args switch (main/main.go) with a small cobra command tree: `run`,
`repl`, and `version` (SPEC_FULL.md §1, CLI).
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "v0.1.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rootFlag string

	cmd := &cobra.Command{
		Use:           "tan",
		Short:         "tan is an interpreter for the tan language",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&rootFlag, "root", "", "root for @-anchored module paths when TAN_ROOT is unset")

	cmd.AddCommand(newRunCmd(&rootFlag))
	cmd.AddCommand(newReplCmd(&rootFlag))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the interpreter version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
