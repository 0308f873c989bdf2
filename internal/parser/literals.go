package parser

import (
	"strconv"
	"strings"
	"unicode"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/lexer"
)

// desugarKeyPath expands a middle-`:` identifier into nested key-path
// accesses (spec.md §4.2): `user:detail:name` -> `((user :detail) :name)`,
// with purely numeric segments becoming Int keys. Grounded on the source's
// own `desugar_key_path`.
func desugarKeyPath(lexeme string) expr.Expression {
	segments := strings.Split(lexeme, ":")
	result := expr.Expression(expr.Symbol{Name: segments[0]})
	for _, seg := range segments[1:] {
		var key expr.Expression
		if isPotentialUint(seg) {
			n, err := strconv.ParseInt(seg, 10, 64)
			if err != nil {
				key = expr.KeySymbol{Name: seg}
			} else {
				key = expr.Int{Value: n}
			}
		} else {
			key = expr.KeySymbol{Name: seg}
		}
		result = expr.NewList(result, key)
	}
	return result
}

func isPotentialUint(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsDigit([]rune(s)[0])
}

// isPotentialNumber reports whether lexeme looks like it starts a numeric
// literal: a digit, or `-` followed by a digit. Grounded on the source's
// `is_potential_number`; used only to decide whether a range component
// parses as a literal or stays a Symbol to be resolved at evaluation time.
func isPotentialNumber(lexeme string) bool {
	runes := []rune(lexeme)
	if len(runes) == 0 {
		return false
	}
	if runes[0] == '-' {
		return len(runes) > 1 && unicode.IsDigit(runes[1])
	}
	return unicode.IsDigit(runes[0])
}

// parseNumberToken classifies a Number lexeme (spec.md §4.1, §4.2): a `..`
// run makes it a range literal; otherwise it is an Int or Float literal,
// with `_` separators stripped and `0x`/`0b`/`0o` radix prefixes honored
// for integers (the lexer hands the parser an undifferentiated lexeme —
// spec.md §4.1 — so this stage does the actual numeric parsing, mirroring
// how the source's own parser, not its lexer, interprets Token::Number).
func (p *Parser) parseNumberToken(tok lexer.Token) (expr.Expression, bool) {
	if strings.Contains(tok.Text, "..") {
		e, err := parseRangeLiteral(tok.Text)
		if err != nil {
			p.addErr(err.WithRange(tok.Range))
			return nil, false
		}
		return expr.WithRange(e, tok.Range), false
	}
	e, err := parseNumberLiteral(tok.Text)
	if err != nil {
		p.addErr(err.WithRange(tok.Range))
		return nil, false
	}
	return expr.WithRange(e, tok.Range), false
}

// parseNumberLiteral parses a non-range Number lexeme into an Int or
// Float.
func parseNumberLiteral(lexeme string) (expr.Expression, *langerr.Error) {
	cleaned := strings.ReplaceAll(lexeme, "_", "")

	if strings.Contains(cleaned, ".") {
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, langerr.New(langerr.Lexical, "malformed float literal: "+lexeme)
		}
		return expr.Float{Value: f}, nil
	}

	neg := strings.HasPrefix(cleaned, "-")
	body := strings.TrimPrefix(cleaned, "-")

	radix := 10
	switch {
	case strings.HasPrefix(body, "0x"), strings.HasPrefix(body, "0X"):
		radix, body = 16, body[2:]
	case strings.HasPrefix(body, "0b"), strings.HasPrefix(body, "0B"):
		radix, body = 2, body[2:]
	case strings.HasPrefix(body, "0o"), strings.HasPrefix(body, "0O"):
		radix, body = 8, body[2:]
	}

	n, err := strconv.ParseInt(body, radix, 64)
	if err != nil {
		return nil, langerr.New(langerr.Lexical, "malformed int literal: "+lexeme)
	}
	if neg {
		n = -n
	}
	return expr.Int{Value: n}, nil
}

// parseRangeLiteral parses `start..end` or `start..end|step` into the
// `(Range start end step?)` call form (spec.md §4.2). Bounds are parsed as
// literals when they look numeric, otherwise left as Symbols to be
// resolved at evaluation time — grounded on the source's own insight, in
// `recognize_range`, that range expressions must stay dynamic rather than
// collapsing to a static IntRange/FloatRange, since either bound may be a
// runtime value.
func parseRangeLiteral(lexeme string) (expr.Expression, *langerr.Error) {
	parts := strings.Split(lexeme, "|")
	if len(parts) > 2 {
		return nil, langerr.New(langerr.Syntactic, "malformed range literal: "+lexeme)
	}

	bounds := strings.Split(parts[0], "..")
	if len(bounds) != 2 {
		return nil, langerr.New(langerr.Syntactic, "malformed range literal: "+lexeme)
	}

	start, err := parseRangeComponent(bounds[0])
	if err != nil {
		return nil, err
	}
	end, err := parseRangeComponent(bounds[1])
	if err != nil {
		return nil, err
	}

	elems := []expr.Expression{expr.Type{Name: "Range"}, start, end}
	if len(parts) == 2 {
		step, err := parseRangeComponent(parts[1])
		if err != nil {
			return nil, err
		}
		elems = append(elems, step)
	}
	return expr.NewList(elems...), nil
}

func parseRangeComponent(lexeme string) (expr.Expression, *langerr.Error) {
	if lexeme == "" {
		return nil, langerr.New(langerr.Syntactic, "malformed range component")
	}
	if !isPotentialNumber(lexeme) {
		return expr.Symbol{Name: lexeme}, nil
	}
	if strings.Contains(lexeme, ".") {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, langerr.New(langerr.Syntactic, "malformed range component: "+lexeme)
		}
		return expr.Float{Value: f}, nil
	}
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil, langerr.New(langerr.Syntactic, "malformed range component: "+lexeme)
	}
	return expr.Int{Value: n}, nil
}
