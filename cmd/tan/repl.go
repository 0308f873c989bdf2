/*
REPL command, adapted from the teacher's repl/repl.go: readline-backed
line editing and history, colored banner and error output, but driving
internal/pipeline.EvalString against a persistent Context instead of the
teacher's eval.Evaluator.
*/
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tan-go/internal/config"
	"tan-go/internal/diag"
	"tan-go/internal/expr"
	"tan-go/internal/pipeline"
	"tan-go/internal/scope"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const replLine = "----------------------------------------------------------------"
const replBanner = `
 ██▄▄▄▄    ▄▄▄▄▄   ▄▄▄▄▄
  ██   ▀▄ ▀▀▄▄▄▄▀ ▀▀▄▄▄▄▀  tan
  ██    █ ▄▄▄▄▄▀▀ ▄▄▄▄▄▀▀
`

func newReplCmd(rootFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start an interactive read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startRepl(cmd, *rootFlag)
		},
	}
}

func startRepl(cmd *cobra.Command, rootOverride string) error {
	writer := cmd.OutOrStdout()
	cfg, _ := config.Load(".")
	if rootOverride != "" {
		cfg.Root = rootOverride
	}
	runner := pipeline.NewRunner(cfg, ".")
	ctx := runner.NewContext("<repl>")
	logger := diag.New(cmd.ErrOrStderr())

	printBanner(writer)

	rl, err := readline.New("tan >>> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(writer, "Good bye!")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(writer, "Good bye!")
			return nil
		}
		rl.SaveHistory(line)
		executeLine(writer, logger, line, ctx)
	}
}

func executeLine(writer io.Writer, logger *diag.Logger, line string, ctx *scope.Context) {
	result, evalErr := pipeline.EvalString(line, ctx)
	if evalErr != nil {
		logger.ReportError(evalErr)
		return
	}
	if result != nil && expr.Unpack(result) != expr.Unit {
		yellowColor.Fprintln(writer, result.String())
	}
}

func printBanner(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", replLine)
	greenColor.Fprintf(w, "%s\n", replBanner)
	blueColor.Fprintf(w, "%s\n", replLine)
	cyanColor.Fprintf(w, "%s\n", "Type '.exit' to quit, up/down arrows for history")
	blueColor.Fprintf(w, "%s\n", replLine)
}
