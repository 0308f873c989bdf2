package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/expr"
	"tan-go/internal/lexer"
	"tan-go/internal/parser"
)

func parseSrc(t *testing.T, src string) ([]expr.Expression, []string) {
	t.Helper()
	toks, lexErrs := lexer.NewLexer(src).Lex()
	require.Empty(t, lexErrs)
	exprs, errs := parser.Parse(toks)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return exprs, msgs
}

// Property 1: every literal parses to the expected in-memory value.
func TestParseIntLiteral(t *testing.T) {
	exprs, errs := parseSrc(t, "42")
	require.Empty(t, errs)
	require.Len(t, exprs, 1)
	assert.Equal(t, expr.Int{Value: 42}, expr.Unpack(exprs[0]))
}

func TestParseNegativeIntLiteral(t *testing.T) {
	exprs, errs := parseSrc(t, "-7")
	require.Empty(t, errs)
	require.Len(t, exprs, 1)
	assert.Equal(t, expr.Int{Value: -7}, expr.Unpack(exprs[0]))
}

func TestParseFloatLiteral(t *testing.T) {
	exprs, errs := parseSrc(t, "3.14")
	require.Empty(t, errs)
	assert.Equal(t, expr.Float{Value: 3.14}, expr.Unpack(exprs[0]))
}

func TestParseHexIntLiteral(t *testing.T) {
	exprs, errs := parseSrc(t, "0xFF")
	require.Empty(t, errs)
	assert.Equal(t, expr.Int{Value: 255}, expr.Unpack(exprs[0]))
}

func TestParseUnderscoreSeparatedInt(t *testing.T) {
	exprs, errs := parseSrc(t, "1_000_000")
	require.Empty(t, errs)
	assert.Equal(t, expr.Int{Value: 1000000}, expr.Unpack(exprs[0]))
}

func TestParseStringLiteral(t *testing.T) {
	exprs, errs := parseSrc(t, `"abc"`)
	require.Empty(t, errs)
	assert.Equal(t, expr.String{Value: "abc"}, expr.Unpack(exprs[0]))
}

func TestParseBoolLiterals(t *testing.T) {
	exprs, errs := parseSrc(t, "true false")
	require.Empty(t, errs)
	require.Len(t, exprs, 2)
	assert.Equal(t, expr.True, expr.Unpack(exprs[0]))
	assert.Equal(t, expr.False, expr.Unpack(exprs[1]))
}

func TestParseKeySymbol(t *testing.T) {
	exprs, errs := parseSrc(t, ":foo")
	require.Empty(t, errs)
	assert.Equal(t, expr.KeySymbol{Name: "foo"}, expr.Unpack(exprs[0]))
}

func TestParseTypeVsSymbol(t *testing.T) {
	exprs, errs := parseSrc(t, "Foo foo")
	require.Empty(t, errs)
	require.Len(t, exprs, 2)
	assert.Equal(t, expr.Type{Name: "Foo"}, expr.Unpack(exprs[0]))
	assert.Equal(t, expr.Symbol{Name: "foo"}, expr.Unpack(exprs[1]))
}

func TestParseEmptyListIsUnit(t *testing.T) {
	exprs, errs := parseSrc(t, "()")
	require.Empty(t, errs)
	assert.Equal(t, expr.Unit, expr.Unpack(exprs[0]))
}

func TestParseListForm(t *testing.T) {
	exprs, errs := parseSrc(t, "(+ 1 2)")
	require.Empty(t, errs)
	list, ok := expr.Unpack(exprs[0]).(*expr.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	assert.Equal(t, expr.Symbol{Name: "+"}, expr.Unpack(list.Elements[0]))
}

func TestParseArrayFormDesugarsToArrayList(t *testing.T) {
	exprs, errs := parseSrc(t, "[1 2 3]")
	require.Empty(t, errs)
	list, ok := expr.Unpack(exprs[0]).(*expr.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 4)
	assert.Equal(t, expr.Type{Name: "Array"}, expr.Unpack(list.Elements[0]))
}

func TestParseMapFormDesugarsToMapList(t *testing.T) {
	exprs, errs := parseSrc(t, `{:a 1 :b 2}`)
	require.Empty(t, errs)
	list, ok := expr.Unpack(exprs[0]).(*expr.List)
	require.True(t, ok)
	assert.Equal(t, expr.Type{Name: "Map"}, expr.Unpack(list.Elements[0]))
	require.Len(t, list.Elements, 5)
}

func TestParseMapFormOddChildrenIsError(t *testing.T) {
	_, errs := parseSrc(t, `{:a 1 :b}`)
	require.NotEmpty(t, errs)
}

func TestParseQuoteShorthand(t *testing.T) {
	exprs, errs := parseSrc(t, "'x")
	require.Empty(t, errs)
	list, ok := expr.Unpack(exprs[0]).(*expr.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 2)
	assert.Equal(t, expr.Symbol{Name: "quot"}, expr.Unpack(list.Elements[0]))
}

func TestParseUnterminatedListIsError(t *testing.T) {
	_, errs := parseSrc(t, "(+ 1 2")
	require.NotEmpty(t, errs)
}

func TestParseUnexpectedClosingTokenRecovers(t *testing.T) {
	exprs, errs := parseSrc(t, ") 42")
	require.NotEmpty(t, errs)
	require.Len(t, exprs, 1)
	assert.Equal(t, expr.Int{Value: 42}, expr.Unpack(exprs[0]))
}

func TestParseBareAnnotationSetsFlag(t *testing.T) {
	exprs, errs := parseSrc(t, "#pure foo")
	require.Empty(t, errs)
	require.Len(t, exprs, 1)
	v, ok := expr.GetAnnotation(exprs[0], "pure")
	require.True(t, ok)
	assert.Equal(t, expr.True, v)
}

func TestParseUppercaseAnnotationSetsType(t *testing.T) {
	exprs, errs := parseSrc(t, "#Int foo")
	require.Empty(t, errs)
	require.Len(t, exprs, 1)
	v, ok := expr.GetAnnotation(exprs[0], "type")
	require.True(t, ok)
	assert.Equal(t, expr.Type{Name: "Int"}, v)
}

func TestParseRangeLiteral(t *testing.T) {
	exprs, errs := parseSrc(t, "1..5")
	require.Empty(t, errs)
	list, ok := expr.Unpack(exprs[0]).(*expr.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	assert.Equal(t, expr.Type{Name: "Range"}, expr.Unpack(list.Elements[0]))
	assert.Equal(t, expr.Int{Value: 1}, expr.Unpack(list.Elements[1]))
	assert.Equal(t, expr.Int{Value: 5}, expr.Unpack(list.Elements[2]))
}
