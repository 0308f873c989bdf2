package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/lexer"
)

func kinds(tokens []lexer.Token) []lexer.TokenKind {
	ks := make([]lexer.TokenKind, len(tokens))
	for i, t := range tokens {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexParens(t *testing.T) {
	toks, errs := lexer.NewLexer("(+ 1 2)").Lex()
	require.Empty(t, errs)
	assert.Equal(t, []lexer.TokenKind{
		lexer.LeftParen, lexer.Symbol, lexer.Number, lexer.Number, lexer.RightParen,
	}, kinds(toks))
}

func TestLexCommaIsWhitespace(t *testing.T) {
	toks, errs := lexer.NewLexer("(1, 2)").Lex()
	require.Empty(t, errs)
	assert.Equal(t, []lexer.TokenKind{
		lexer.LeftParen, lexer.Number, lexer.Number, lexer.RightParen,
	}, kinds(toks))
}

func TestLexString(t *testing.T) {
	toks, errs := lexer.NewLexer(`"hello\nworld"`).Lex()
	require.Empty(t, errs)
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.StringTok, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Text)
}

func TestLexUnterminatedStringReportsError(t *testing.T) {
	toks, errs := lexer.NewLexer(`"abc`).Lex()
	require.NotEmpty(t, errs)
	assert.Empty(t, toks)
}

func TestLexNegativeNumberVsSubtraction(t *testing.T) {
	toks, errs := lexer.NewLexer("(- 3 -4)").Lex()
	require.Empty(t, errs)
	require.Len(t, toks, 5)
	assert.Equal(t, lexer.Symbol, toks[1].Kind)
	assert.Equal(t, "-", toks[1].Text)
	assert.Equal(t, lexer.Number, toks[2].Kind)
	assert.Equal(t, lexer.Number, toks[3].Kind)
	assert.Equal(t, "-4", toks[3].Text)
}

func TestLexLineComments(t *testing.T) {
	toks, errs := lexer.NewLexer("; a comment\n(1)").Lex()
	require.Empty(t, errs)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, lexer.Comment, toks[0].Kind)
	assert.Equal(t, lexer.SemicolonComment, toks[0].CommentKind)
}

func TestLexDashComment(t *testing.T) {
	toks, errs := lexer.NewLexer("-- a dash comment\n1").Lex()
	require.Empty(t, errs)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, lexer.Comment, toks[0].Kind)
	assert.Equal(t, lexer.DashComment, toks[0].CommentKind)
}

func TestLexAnnotationBareSymbol(t *testing.T) {
	toks, errs := lexer.NewLexer("#deprecated foo").Lex()
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.Annotation, toks[0].Kind)
	assert.Equal(t, "deprecated", toks[0].Text)
}

func TestLexAnnotationParenthesized(t *testing.T) {
	toks, errs := lexer.NewLexer("#(since 1.0) foo").Lex()
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.Annotation, toks[0].Kind)
	assert.Equal(t, "(since 1.0)", toks[0].Text)
}

func TestLexMultiLineWhitespaceMarker(t *testing.T) {
	toks, errs := lexer.NewLexer("1\n\n\n2").Lex()
	require.Empty(t, errs)
	require.Len(t, toks, 3)
	assert.Equal(t, lexer.MultiLineWhitespace, toks[1].Kind)
}
