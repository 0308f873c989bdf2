package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// Stdout is where print/println write to; a package variable rather than a
// Context field so tests can redirect it without threading a writer through
// every builtin (grounded on the teacher's Runtime-writer split in
// std/common.go, simplified since this language has no Runtime interface).
var Stdout io.Writer = os.Stdout

func init() {
	register("print", printFunc)
	register("println", printlnFunc)

	register("len", lenFunc)
	register("size", lenFunc)

	register("push", pushFunc)
	register("pop", popFunc)

	register("to_string", toStringFunc)
	register("typeof", typeofFunc)

	register("String", stringFunc)
}

// stringFunc implements the `(String …)` call form internal/prune emits for
// an interpolated string literal: the display text of every argument,
// concatenated with no separator.
func stringFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(displayText(a))
	}
	return expr.String{Value: b.String()}, nil
}

func displayText(e expr.Expression) string {
	v := expr.Unpack(e)
	if s, ok := v.(expr.String); ok {
		return s.Value
	}
	return v.String()
}

func printFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = displayText(a)
	}
	w := bufio.NewWriter(Stdout)
	fmt.Fprint(w, strings.Join(parts, " "))
	w.Flush()
	return expr.Unit, nil
}

func printlnFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = displayText(a)
	}
	w := bufio.NewWriter(Stdout)
	fmt.Fprintln(w, strings.Join(parts, " "))
	w.Flush()
	return expr.Unit, nil
}

// lenFunc implements `len`/`size` over String, Array, Map, and Set
// (spec.md §8 property: "`len` is defined over every container kind").
func lenFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.InvalidArguments("`len` requires exactly one argument", srcrange.Range{})
	}
	switch v := expr.Unpack(args[0]).(type) {
	case expr.String:
		return expr.Int{Value: int64(len([]rune(v.Value)))}, nil
	case *expr.Array:
		return expr.Int{Value: int64(v.Len())}, nil
	case *expr.Map:
		return expr.Int{Value: int64(v.Len())}, nil
	case *expr.SetValue:
		return expr.Int{Value: int64(v.Len())}, nil
	case *expr.List:
		return expr.Int{Value: int64(len(v.Elements))}, nil
	default:
		return nil, langerr.InvalidArguments(
			fmt.Sprintf("`len` is not defined for %s", expr.TypeName(args[0])), srcrange.Range{})
	}
}

// pushFunc mutates its Array argument in place (spec.md §8 scenario S5:
// `push` observed through an aliasing reference, exercising Array's
// reader-writer-lock-guarded shared-container semantics).
func pushFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.InvalidArguments("`push` requires an array and a value", srcrange.Range{})
	}
	arr, ok := expr.Unpack(args[0]).(*expr.Array)
	if !ok {
		return nil, langerr.InvalidArguments("`push` requires an Array as its first argument", srcrange.Range{})
	}
	arr.Push(args[1])
	return arr, nil
}

func popFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.InvalidArguments("`pop` requires exactly one argument", srcrange.Range{})
	}
	arr, ok := expr.Unpack(args[0]).(*expr.Array)
	if !ok {
		return nil, langerr.InvalidArguments("`pop` requires an Array argument", srcrange.Range{})
	}
	last, ok := arr.Pop()
	if !ok {
		return expr.None, nil
	}
	return last, nil
}

func toStringFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.InvalidArguments("`to_string` requires exactly one argument", srcrange.Range{})
	}
	return expr.String{Value: displayText(args[0])}, nil
}

func typeofFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.InvalidArguments("`typeof` requires exactly one argument", srcrange.Range{})
	}
	return expr.Type{Name: expr.TypeName(args[0])}, nil
}
