/*
Package lexer implements the first pipeline stage (spec.md §4.1): scanning
UTF-8 source text into an ordered token stream, each token carrying a
source range for diagnostics.
*/
package lexer

import "tan-go/internal/srcrange"

// TokenKind classifies a Token. Reserved words get no dedicated kind: they
// lex as plain Symbols and are recognized later by the parser/evaluator,
// matching the source's own design note that differentiating them at the
// lexer stage isn't worth it.
type TokenKind int

const (
	LeftParen TokenKind = iota
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Quote
	StringTok
	Symbol
	Number
	Annotation
	Comment
	MultiLineWhitespace
	EOF
)

var kindNames = map[TokenKind]string{
	LeftParen:           "(",
	RightParen:          ")",
	LeftBracket:         "[",
	RightBracket:        "]",
	LeftBrace:           "{",
	RightBrace:          "}",
	Quote:               "'",
	StringTok:           "string",
	Symbol:              "symbol",
	Number:               "number",
	Annotation:          "annotation",
	Comment:             "comment",
	MultiLineWhitespace: "multi-line-whitespace",
	EOF:                 "eof",
}

func (k TokenKind) String() string { return kindNames[k] }

// CommentKind distinguishes the two comment lexemes the spec allows.
type CommentKind int

const (
	SemicolonComment CommentKind = iota
	DashComment
)

// Token is a single lexeme with its classification and source range.
type Token struct {
	Kind        TokenKind
	Text        string // the raw lexeme, escapes already processed for strings
	CommentKind CommentKind
	Range       srcrange.Range
}
