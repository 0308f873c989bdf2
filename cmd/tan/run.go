package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tan-go/internal/config"
	"tan-go/internal/diag"
	"tan-go/internal/expr"
	"tan-go/internal/pipeline"
)

func newRunCmd(rootFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "evaluate a tan source file or module directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, args[0], *rootFlag)
		},
	}
}

func runFile(cmd *cobra.Command, path string, rootOverride string) error {
	entryDir := filepath.Dir(path)
	cfg, err := config.Load(entryDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if rootOverride != "" {
		cfg.Root = rootOverride
	}

	runner := pipeline.NewRunner(cfg, entryDir)
	ctx := runner.NewContext(path)

	logger := diag.New(cmd.ErrOrStderr())

	result, evalErr := pipeline.EvalFile(path, ctx)
	if evalErr != nil {
		logger.ReportError(evalErr)
		return fmt.Errorf("evaluation failed")
	}
	if result != nil && expr.Unpack(result) != expr.Unit {
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
	}
	return nil
}
