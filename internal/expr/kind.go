/*
Package expr implements Expression, the universal tagged value of the
language (spec.md §3): syntax and runtime value coincide, so the same sum
type flows through the lexer, parser and evaluator.

The sum is intentionally closed (spec.md §9, "Sum types over inheritance"):
dispatch anywhere in the runtime is a switch on Kind(), never a type
hierarchy. Func, Macro and ForeignFunc are implemented in the sibling
`callable` package (they need to reference a Scope/Context, and Scope lives
in a package that itself depends on expr) but still report one of the Kind
constants declared here, so code that only needs to discriminate variants
never has to import `callable`.
*/
package expr

// Kind identifies which variant of the Expression sum a value belongs to.
type Kind int

const (
	KindUnit Kind = iota
	KindNone
	KindNever
	KindBool
	KindInt
	KindFloat
	KindU8
	KindChar
	KindString
	KindSymbol
	KindKeySymbol
	KindType
	KindIntRange
	KindFloatRange
	KindList
	KindArray
	KindMap
	KindSet
	KindFunc
	KindMacro
	KindForeignFunc
	KindForeignStruct
	KindForeignStructMut
	KindError
	KindAnnotated
)

var kindNames = map[Kind]string{
	KindUnit:             "Unit",
	KindNone:             "None",
	KindNever:            "Never",
	KindBool:             "Bool",
	KindInt:              "Int",
	KindFloat:            "Float",
	KindU8:               "U8",
	KindChar:             "Char",
	KindString:           "String",
	KindSymbol:           "Symbol",
	KindKeySymbol:        "KeySymbol",
	KindType:             "Type",
	KindIntRange:         "IntRange",
	KindFloatRange:       "FloatRange",
	KindList:             "List",
	KindArray:            "Array",
	KindMap:              "Map",
	KindSet:              "Set",
	KindFunc:             "Func",
	KindMacro:            "Macro",
	KindForeignFunc:      "ForeignFunc",
	KindForeignStruct:    "ForeignStruct",
	KindForeignStructMut: "ForeignStructMut",
	KindError:            "Error",
	KindAnnotated:        "Annotated",
}

// String returns the type name used in dispatch signatures (spec.md §4.7,
// §8 property 6) and in `when` type-name pattern matching (spec.md §4.8).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Expression is implemented by every runtime value. Kind reports the
// variant for dispatch; String renders the canonical textual form used for
// printing and for the parse round-trip property (spec.md §8 property 1).
type Expression interface {
	Kind() Kind
	String() string
}

// TypeName returns the runtime type name of e after peeling annotations,
// the name used to build multiple-dispatch method keys and `when` patterns.
func TypeName(e Expression) string {
	return Unpack(e).Kind().String()
}
