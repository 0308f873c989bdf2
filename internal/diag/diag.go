/*
Package diag formats langerr.Error values for human consumption, the way
the teacher's repl package inlines color.New calls around its error
printing rather than reaching for a structured logger — this package keeps
that texture (log.Logger plus fatih/color, no new dependency) instead of
introducing something like zerolog that nothing else in the corpus uses.
*/
package diag

import (
	"io"
	"log"

	"github.com/fatih/color"

	"tan-go/internal/langerr"
)

var (
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

// Logger wraps a standard log.Logger with the coloring convention used for
// error and diagnostic output throughout cmd/tan and the REPL.
type Logger struct {
	*log.Logger
	w io.Writer
}

// New creates a Logger writing to w with no timestamp prefix, matching the
// REPL's bare error lines.
func New(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w, "", 0), w: w}
}

// ReportError prints e in the teacher's `[VARIANT] message` REPL style,
// including any Wrapped sub-errors (spec.md's FailedUse wrapping) indented
// beneath it.
func (l *Logger) ReportError(e *langerr.Error) {
	l.reportIndented(e, 0)
}

func (l *Logger) reportIndented(e *langerr.Error, depth int) {
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += "  "
	}
	errColor.Fprintf(l.w, "%s%s\n", prefix, e.String())
	for _, wrapped := range e.Wrapped {
		l.reportIndented(wrapped, depth+1)
	}
}

// Warn prints a non-fatal diagnostic in yellow.
func (l *Logger) Warn(format string, args ...interface{}) {
	warnColor.Fprintf(l.w, format+"\n", args...)
}
