/*
Package parser implements the second pipeline stage (spec.md §4.2): turning
a lexer.Token stream into an ordered slice of top-level Expressions. The
parser is single-pass with no backtracking; every syntactic form has a
fixed lookahead of at most one token.
*/
package parser

import (
	"strings"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/lexer"
	"tan-go/internal/srcrange"
)

// pendingAnn is a buffered `#...` annotation awaiting the next real
// expression it attaches to (spec.md §4.2: "Prefix annotations attach to
// the next expression parsed").
type pendingAnn struct {
	text string
	r    srcrange.Range
}

// Parser consumes a fixed token slice and accumulates errors, continuing
// past each one until it hits a structural gate it cannot cross (spec.md
// §7: "the parser continues past each error until it hits a structural
// gate (unterminated list) it cannot cross").
type Parser struct {
	toks   []lexer.Token
	pos    int
	errors []*langerr.Error
}

// NewParser builds a Parser over a token slice.
func NewParser(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes nothing itself; it consumes the token slice given at
// construction and returns every top-level expression it could recover,
// plus every error accumulated along the way.
func Parse(toks []lexer.Token) ([]expr.Expression, []*langerr.Error) {
	return NewParser(toks).parseTopLevel()
}

func (p *Parser) addErr(e *langerr.Error) { p.errors = append(p.errors, e) }

func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.toks) {
		return lexer.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) advance() (lexer.Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *Parser) parseTopLevel() ([]expr.Expression, []*langerr.Error) {
	var out []expr.Expression
	for {
		e, ok := p.parseNext()
		if !ok {
			break
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, p.errors
}

// parseNext consumes tokens until it has assembled one real expression
// (skipping Comment/MultiLineWhitespace and buffering Annotation tokens
// along the way), or the stream runs out. It returns (nil, false) only
// when there is nothing left to parse — normal end of input, or a
// structural gate already reported by a nested call.
func (p *Parser) parseNext() (expr.Expression, bool) {
	var pending []pendingAnn
	for {
		tok, ok := p.advance()
		if !ok {
			return nil, false
		}
		switch tok.Kind {
		case lexer.Comment, lexer.MultiLineWhitespace:
			continue
		case lexer.Annotation:
			pending = append(pending, pendingAnn{text: tok.Text, r: tok.Range})
			continue
		case lexer.RightParen, lexer.RightBracket, lexer.RightBrace:
			p.addErr(langerr.NewAt(langerr.Syntactic, "unexpected token "+tok.Kind.String(), tok.Range))
			continue
		default:
			e, fatal := p.parseAtomOrForm(tok)
			if fatal {
				return nil, false
			}
			if e == nil {
				continue
			}
			if len(pending) > 0 {
				e = p.attachAnnotations(e, pending)
			}
			return e, true
		}
	}
}

func (p *Parser) parseAtomOrForm(tok lexer.Token) (expr.Expression, bool) {
	switch tok.Kind {
	case lexer.StringTok:
		return expr.WithRange(expr.String{Value: tok.Text}, tok.Range), false
	case lexer.Symbol:
		return p.parseSymbol(tok), false
	case lexer.Number:
		return p.parseNumberToken(tok)
	case lexer.Quote:
		return p.parseQuote(tok)
	case lexer.LeftParen:
		return p.parseList(tok.Range)
	case lexer.LeftBracket:
		return p.parseArrayForm(tok.Range)
	case lexer.LeftBrace:
		return p.parseMapForm(tok.Range)
	default:
		p.addErr(langerr.NewAt(langerr.Syntactic, "unexpected token "+tok.Kind.String(), tok.Range))
		return nil, false
	}
}

func (p *Parser) parseQuote(tok lexer.Token) (expr.Expression, bool) {
	inner, ok := p.parseNext()
	if !ok || inner == nil {
		p.addErr(langerr.NewAt(langerr.Syntactic, "invalid quote", tok.Range))
		return nil, true
	}
	quoted := expr.NewList(expr.Symbol{Name: "quot"}, inner)
	return expr.WithRange(quoted, tok.Range), false
}

// parseList reads `(` … `)`. An empty list parses to Unit (spec.md §4.2).
func (p *Parser) parseList(openRange srcrange.Range) (expr.Expression, bool) {
	var elems []expr.Expression
	for {
		tok, ok := p.peek()
		if !ok {
			p.addErr(langerr.NewAt(langerr.Syntactic, "unterminated list", openRange))
			return nil, true
		}
		if tok.Kind == lexer.Comment || tok.Kind == lexer.MultiLineWhitespace {
			p.advance()
			continue
		}
		if tok.Kind == lexer.RightParen {
			p.advance()
			span := srcrange.Span(openRange, tok.Range)
			if len(elems) == 0 {
				return expr.WithRange(expr.Unit, span), false
			}
			return expr.WithRange(expr.NewList(elems...), span), false
		}
		e, ok := p.parseNext()
		if !ok {
			return nil, true
		}
		if e != nil {
			elems = append(elems, e)
		}
	}
}

// parseArrayForm reads `[` … `]`, desugaring to the `(Array …)` list form
// (spec.md §4.2), left for the optimizer to collapse into a native Array.
func (p *Parser) parseArrayForm(openRange srcrange.Range) (expr.Expression, bool) {
	elems, span, fatal := p.parseBracketed(openRange, lexer.RightBracket, "unterminated array")
	if fatal {
		return nil, true
	}
	head := expr.WithRange(expr.Type{Name: "Array"}, openRange)
	return expr.WithRange(expr.NewList(append([]expr.Expression{head}, elems...)...), span), false
}

// parseMapForm reads `{` k v k v … `}`, desugaring to the `(Map …)` list
// form. An odd number of children is a parse error (spec.md §4.2).
func (p *Parser) parseMapForm(openRange srcrange.Range) (expr.Expression, bool) {
	elems, span, fatal := p.parseBracketed(openRange, lexer.RightBrace, "unterminated map")
	if fatal {
		return nil, true
	}
	if len(elems)%2 != 0 {
		p.addErr(langerr.NewAt(langerr.Syntactic, "map literal has an odd number of children", span))
	}
	head := expr.WithRange(expr.Type{Name: "Map"}, openRange)
	return expr.WithRange(expr.NewList(append([]expr.Expression{head}, elems...)...), span), false
}

func (p *Parser) parseBracketed(openRange srcrange.Range, closing lexer.TokenKind, unterminatedMsg string) ([]expr.Expression, srcrange.Range, bool) {
	var elems []expr.Expression
	for {
		tok, ok := p.peek()
		if !ok {
			p.addErr(langerr.NewAt(langerr.Syntactic, unterminatedMsg, openRange))
			return nil, openRange, true
		}
		if tok.Kind == lexer.Comment || tok.Kind == lexer.MultiLineWhitespace {
			p.advance()
			continue
		}
		if tok.Kind == closing {
			p.advance()
			return elems, srcrange.Span(openRange, tok.Range), false
		}
		e, ok := p.parseNext()
		if !ok {
			return nil, openRange, true
		}
		if e != nil {
			elems = append(elems, e)
		}
	}
}

// parseSymbol classifies a Symbol lexeme per spec.md §4.2: `true`/`false`
// literals, leading-`:` KeySymbols, middle-`:` key-paths, leading-uppercase
// Types, and plain Symbols.
func (p *Parser) parseSymbol(tok lexer.Token) expr.Expression {
	text := tok.Text
	switch text {
	case "true":
		return expr.WithRange(expr.True, tok.Range)
	case "false":
		return expr.WithRange(expr.False, tok.Range)
	}
	if strings.HasPrefix(text, ":") {
		return expr.WithRange(expr.KeySymbol{Name: strings.TrimPrefix(text, ":")}, tok.Range)
	}
	if strings.Contains(text, ":") {
		return expr.WithRange(desugarKeyPath(text), tok.Range)
	}
	if isUpperStart(text) {
		return expr.WithRange(expr.Type{Name: text}, tok.Range)
	}
	return expr.WithRange(expr.Symbol{Name: text}, tok.Range)
}

func isUpperStart(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return r >= 'A' && r <= 'Z'
}

// attachAnnotations folds every buffered annotation onto e in reverse
// order of appearance: the innermost (closest to the expression) is
// applied first and the outermost last, so the outermost `#` shorthand
// wins on key conflicts — matching the source's
// own "outer annotation overrides" rule (internal/expr.Extract).
func (p *Parser) attachAnnotations(e expr.Expression, pending []pendingAnn) expr.Expression {
	for i := len(pending) - 1; i >= 0; i-- {
		e = p.attachOne(e, pending[i])
	}
	return e
}

// attachOne parses one annotation's payload text as its own tiny program
// and applies the shorthand rule from spec.md §4.2:
//   - `#Foo` (uppercase bare)   -> sets type: Foo
//   - `#flag` (lowercase bare) -> sets flag: true
//   - `#(key expr)`            -> sets key: expr
func (p *Parser) attachOne(e expr.Expression, ann pendingAnn) expr.Expression {
	toks, lexErrs := lexer.NewLexer(ann.text).Lex()
	p.errors = append(p.errors, lexErrs...)

	sub := NewParser(toks)
	exprs, subErrs := sub.parseTopLevel()
	p.errors = append(p.errors, subErrs...)

	if len(exprs) == 0 {
		p.addErr(langerr.NewAt(langerr.Syntactic, "malformed annotation", ann.r))
		return e
	}

	switch v := expr.Unpack(exprs[0]).(type) {
	case expr.Type:
		return expr.WithType(e, v.Name)
	case expr.Symbol:
		if v.Name == "" {
			p.addErr(langerr.NewAt(langerr.Syntactic, "malformed annotation", ann.r))
			return e
		}
		return expr.WithFlag(e, v.Name)
	case *expr.List:
		if len(v.Elements) >= 2 {
			if headSym, ok := expr.Unpack(v.Elements[0]).(expr.Symbol); ok {
				return expr.Annotate(e, headSym.Name, v.Elements[1])
			}
		}
		p.addErr(langerr.NewAt(langerr.Syntactic, "malformed annotation", ann.r))
		return e
	default:
		p.addErr(langerr.NewAt(langerr.Syntactic, "malformed annotation", ann.r))
		return e
	}
}
