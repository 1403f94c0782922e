package codefmt

import (
	"fmt"
	"go/ast"
	"go/token"
	"io"

	"golang.org/x/tools/go/packages"
)

type (
	Pkger  interface{ Pkg() *packages.Package }
	Poser  interface{ Pos() token.Pos }
	Ender  interface{ End() token.Pos }
	Exprer interface{ Expr() ast.Expr }
)

// Sprintf is like fmt.Sprintf with two more verbs for source code:
//
//	%c: ast.Expr or Exprer - code form, like "TaskMachine[Draft]"
//	%b: token.Pos, token.Position or Poser - file:line:column form
//
// Other verbs format arguments as fmt does.
func (f Formatter) Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, f.wrap(args)...)
}

// Fprintf is like [Formatter.Sprintf] but writes to w.
func (f Formatter) Fprintf(w io.Writer, format string, args ...any) (int, error) {
	return fmt.Fprintf(w, format, f.wrap(args)...)
}

func (f Formatter) wrap(args []any) []any {
	wrapped := make([]any, len(args))
	for i, arg := range args {
		switch arg.(type) {
		case token.Pos, token.Position, ast.Expr, Poser, Exprer:
			wrapped[i] = codeArg{arg, f}
		default:
			wrapped[i] = arg
		}
	}
	return wrapped
}

// codeArg is an argument formatted by the verbs of [Formatter.Sprintf].
type codeArg struct {
	x any
	f Formatter
}

func (a codeArg) expr() (ast.Expr, bool) {
	switch x := a.x.(type) {
	case ast.Expr:
		return x, true
	case Exprer:
		return x.Expr(), true
	}
	return nil, false
}

func (a codeArg) position() (token.Position, bool) {
	if pos, ok := a.x.(token.Position); ok {
		return pos, true
	}

	var pos token.Pos
	switch x := a.x.(type) {
	case token.Pos:
		pos = x
	case Poser:
		pos = x.Pos()
	default:
		return token.Position{}, false
	}
	if a.f.Fset == nil {
		return token.Position{}, false
	}
	return a.f.Fset.Position(pos), true
}

// Format implements fmt.Formatter.
func (a codeArg) Format(s fmt.State, verb rune) {
	switch verb {
	case 'c':
		if expr, ok := a.expr(); ok {
			io.WriteString(s, a.f.Expr(expr))
			return
		}
	case 'b':
		if pos, ok := a.position(); ok {
			io.WriteString(s, FormatPosition(pos))
			return
		}
	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), a.x)
		return
	}
	fmt.Fprintf(s, "[%%%c cannot format %T]", verb, a.x)
}
