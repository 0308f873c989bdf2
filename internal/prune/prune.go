/*
Package prune implements the third pipeline stage (spec.md §4.3): a tree
rewrite over one already-parsed Expression.

The source's Prune stage also elides free-standing Comment, TextSeparator
and Annotation nodes left over from parsing. This implementation's parser
(internal/parser) never materializes those as Expression nodes in the
first place — comments and whitespace are dropped during lexing/parsing,
and prefix annotations are folded onto their target expression at parse
time (internal/parser's attachAnnotations) — so there is nothing left for
Prune to elide by the time a tree reaches this stage. What remains, and
what this package actually does, is string interpolation: converting a
String literal containing `${expr}` markers into its `(String …)` call
form, recursively, depth-first.
*/
package prune

import (
	"strings"

	"tan-go/internal/expr"
	"tan-go/internal/lexer"
	"tan-go/internal/parser"
)

// stringInterpolationFunc is the call-form head used for a pruned
// interpolated string (spec.md §4.2, §4.3, §6: "`$expr` (in a string) …
// interpolates").
const stringInterpolationFunc = "String"

// Prune rewrites e and every expression nested inside it, expanding any
// interpolated string literal into its call form.
func Prune(e expr.Expression) expr.Expression {
	if ann, ok := e.(*expr.Annotated); ok {
		return &expr.Annotated{Inner: Prune(ann.Inner), Meta: ann.Meta}
	}
	switch v := e.(type) {
	case *expr.List:
		elems := make([]expr.Expression, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = Prune(el)
		}
		return &expr.List{Elements: elems}
	case expr.String:
		return pruneString(v)
	default:
		return e
	}
}

// All prunes every top-level expression produced by the parser.
func All(exprs []expr.Expression) []expr.Expression {
	out := make([]expr.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = Prune(e)
	}
	return out
}

// pruneString expands `${expr}` markers into alternating literal-text and
// parsed-expression arguments to `String`, grounded on the source's own
// `recognize_string_template`. A string with no marker is returned
// unchanged — it never becomes a call form (spec.md §4.3: "Converts
// string literals containing ${…}").
func pruneString(s expr.String) expr.Expression {
	text := s.Value
	if !strings.Contains(text, "${") {
		return s
	}

	elems := []expr.Expression{expr.Symbol{Name: stringInterpolationFunc}}
	previousEnd := 0

	for {
		idx := strings.Index(text[previousEnd:], "${")
		if idx < 0 {
			break
		}
		start := previousEnd + idx
		closeIdx := strings.Index(text[start:], "}")
		if closeIdx < 0 {
			// No closing brace: stop treating the rest as interpolation,
			// matching the source's own fallback.
			break
		}
		end := start + closeIdx + 1

		elems = append(elems, expr.String{Value: text[previousEnd:start]})

		fragment := text[start+2 : end-1]
		elems = append(elems, parseFragment(fragment))

		previousEnd = end
	}

	if previousEnd < len(text) {
		elems = append(elems, expr.String{Value: text[previousEnd:]})
	}

	return expr.NewList(elems...)
}

// parseFragment lexes and parses a single interpolation expression. A
// fragment that fails to parse is kept as a literal string rather than
// dropped, so a malformed interpolation surfaces at evaluation time
// (an undefined-symbol or syntax mismatch) rather than silently vanishing.
func parseFragment(src string) expr.Expression {
	toks, lexErrs := lexer.NewLexer(src).Lex()
	if len(lexErrs) > 0 {
		return expr.String{Value: src}
	}
	exprs, parseErrs := parser.Parse(toks)
	if len(parseErrs) > 0 || len(exprs) == 0 {
		return expr.String{Value: src}
	}
	return Prune(exprs[0])
}
