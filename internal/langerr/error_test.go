package langerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/langerr"
	"tan-go/internal/srcrange"
)

func TestNewAtSetsFirstNoteRange(t *testing.T) {
	e := langerr.NewAt(langerr.Syntactic, "bad token", srcrange.Range{Start: 1, End: 2})
	require.Len(t, e.Notes, 1)
	assert.True(t, e.Notes[0].HasRange)
	assert.Equal(t, "bad token", e.Notes[0].Message)
}

func TestWithRangeOnlyFillsMissingRange(t *testing.T) {
	e := langerr.New(langerr.InvalidArgs, "oops")
	assert.False(t, e.Notes[0].HasRange)

	e.WithRange(srcrange.Range{Start: 5, End: 9})
	assert.True(t, e.Notes[0].HasRange)
	assert.Equal(t, 5, e.Notes[0].Range.Start)

	e.WithRange(srcrange.Range{Start: 100, End: 200})
	assert.Equal(t, 5, e.Notes[0].Range.Start, "WithRange must not overwrite an already-set range")
}

func TestAddNoteAppendsOutward(t *testing.T) {
	e := langerr.NewAt(langerr.UndefinedSymbol, "inner", srcrange.Range{})
	e.AddNote("outer call site", srcrange.Range{Start: 1, End: 2})
	require.Len(t, e.Notes, 2)
	assert.Equal(t, "inner", e.Notes[0].Message)
	assert.Equal(t, "outer call site", e.Notes[1].Message)
}

func TestWithFileOnlySetsOnce(t *testing.T) {
	e := langerr.New(langerr.Panic, "boom")
	e.WithFile("a.tan")
	e.WithFile("b.tan")
	assert.Equal(t, "a.tan", e.File)
}

func TestIsControlFlow(t *testing.T) {
	assert.True(t, langerr.Return(nil).IsControlFlow())
	assert.True(t, langerr.Break(nil).IsControlFlow())
	assert.True(t, langerr.Continue().IsControlFlow())
	assert.False(t, langerr.New(langerr.Panic, "x").IsControlFlow())
	var nilErr *langerr.Error
	assert.False(t, nilErr.IsControlFlow())
}

func TestErrorStringIncludesVariantAndNotes(t *testing.T) {
	e := langerr.UndefinedSymbolErr("foo", srcrange.Range{Start: 0, End: 3})
	s := e.Error()
	assert.Contains(t, s, "undefined-symbol")
	assert.Contains(t, s, "`foo` is undefined")
}

func TestFailedUseWrapsSubErrors(t *testing.T) {
	inner := langerr.UndefinedSymbolErr("bar", srcrange.Range{})
	e := langerr.FailedUseErr("@std/greeter", []*langerr.Error{inner})
	s := e.String()
	assert.Contains(t, s, "failed to load module")
	assert.Contains(t, s, "bar")
}
