package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"tan-go/internal/diag"
	"tan-go/internal/langerr"
	"tan-go/internal/srcrange"
)

func TestReportErrorWritesVariantAndMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := diag.New(&buf)

	e := langerr.UndefinedSymbolErr("foo", srcrange.Range{Start: 0, End: 3})
	logger.ReportError(e)

	out := buf.String()
	assert.Contains(t, out, "undefined-symbol")
	assert.Contains(t, out, "`foo` is undefined")
}

func TestReportErrorIndentsWrappedSubErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := diag.New(&buf)

	inner := langerr.UndefinedSymbolErr("bar", srcrange.Range{})
	outer := langerr.FailedUseErr("@std/greeter", []*langerr.Error{inner})
	logger.ReportError(outer)

	out := buf.String()
	assert.Contains(t, out, "failed to load module")
	assert.Contains(t, out, "  [undefined-symbol]")
}

func TestWarnAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	logger := diag.New(&buf)
	logger.Warn("prelude %s missing", "@std/prelude")
	assert.Equal(t, "prelude @std/prelude missing\n", buf.String())
}
