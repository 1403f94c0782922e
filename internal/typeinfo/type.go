package typeinfo

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// Type describes a type expression as written in the source, together with
// the imports of its file. Without type checking, this is all statum knows
// about a type: two types are the same if they are spelled the same once
// package qualifiers are resolved to import paths.
type Type struct {
	X       ast.Expr
	Imports Imports
}

// TypeOf wraps a type expression of a file with the given imports.
func TypeOf(x ast.Expr, imports Imports) Type {
	return Type{X: x, Imports: imports}
}

func (t Type) Expr() ast.Expr { return t.X }
func (t Type) Pos() token.Pos { return t.X.Pos() }
func (t Type) End() token.Pos { return t.X.End() }

// String returns the type expression as written.
func (t Type) String() string {
	if t.X == nil {
		return "<nil>"
	}
	return exprString(t.X)
}

// Key returns a canonical form of the type. Package qualifiers are replaced
// by their quoted import paths, so "t.Time" in a file importing t "time" and
// "time.Time" in another file have the same key.
//
// e.g., Type{time.Time}.Key() => `"time".Time`
func (t Type) Key() string {
	if t.X == nil {
		return ""
	}
	x := astutil.Apply(Clone(t.X), func(c *astutil.Cursor) bool {
		sel, ok := c.Node().(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		if path, ok := t.Imports[id.Name]; ok {
			// HACK: printer.Fprint does not validate the name of an Ident
			// node. A quoted import path never collides with a Go name.
			c.Replace(&ast.SelectorExpr{
				X:   &ast.Ident{Name: strconv.Quote(path)},
				Sel: &ast.Ident{Name: sel.Sel.Name},
			})
			return false
		}
		return true
	}, nil).(ast.Expr)
	return exprString(x)
}

// Identical reports whether t and u denote the same type syntactically.
func (t Type) Identical(u Type) bool {
	return t.Key() == u.Key()
}

// IsIdent reports whether the type is the predeclared or local identifier
// name.
func (t Type) IsIdent(name string) bool {
	id, ok := ast.Unparen(t.X).(*ast.Ident)
	return ok && id.Name == name
}

func (t Type) IsError() bool { return t.IsIdent("error") }
func (t Type) IsBool() bool  { return t.IsIdent("bool") }

// IsQualified reports whether the type is pkg.name where pkg is imported from
// path.
//
// e.g., t.IsQualified("context", "Context") for context.Context
func (t Type) IsQualified(path, name string) bool {
	sel, ok := ast.Unparen(t.X).(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	return ok && t.Imports[id.Name] == path
}

// IsContext reports whether the type is context.Context.
func (t Type) IsContext() bool {
	return t.IsQualified("context", "Context")
}

// IsPointer reports whether the type is *X.
func (t Type) IsPointer() bool {
	_, ok := ast.Unparen(t.X).(*ast.StarExpr)
	return ok
}

// Deref returns X for *X. Otherwise, it returns the type itself.
func (t Type) Deref() Type {
	if star, ok := ast.Unparen(t.X).(*ast.StarExpr); ok {
		return Type{star.X, t.Imports}
	}
	return t
}

// With returns a type of the same file for another expression.
func (t Type) With(x ast.Expr) Type {
	return Type{x, t.Imports}
}

// Instance describes a named type possibly instantiated with type arguments.
//
// e.g., "pkg.Machine[Draft, int]" => Instance{Qualifier: "pkg", Name:
// "Machine", Args: [Draft, int]}
type Instance struct {
	Qualifier string
	Name      string
	Args      []ast.Expr
}

// Instance decomposes the type as a named type instance. It reports false if
// the type is not a (possibly qualified and instantiated) type name.
func (t Type) Instance() (Instance, bool) {
	x := ast.Unparen(t.X)

	var args []ast.Expr
	switch idx := x.(type) {
	case *ast.IndexExpr:
		x = idx.X
		args = []ast.Expr{idx.Index}
	case *ast.IndexListExpr:
		x = idx.X
		args = idx.Indices
	}

	switch x := x.(type) {
	case *ast.Ident:
		return Instance{Name: x.Name, Args: args}, true
	case *ast.SelectorExpr:
		if pkg, ok := x.X.(*ast.Ident); ok {
			return Instance{Qualifier: pkg.Name, Name: x.Sel.Name, Args: args}, true
		}
	}
	return Instance{}, false
}

// Clone returns a deep copy of the expression without position information.
func Clone(x ast.Expr) ast.Expr {
	clone, err := parser.ParseExpr(exprString(x))
	if err != nil {
		panic(err) // should never happen because the printer emits valid Go
	}
	return clone
}

// Subst returns a copy of x in which every type name from is replaced by to.
// Field names, selectors and method names are left untouched.
//
// e.g., Subst([map[K]TaskState], "TaskState", [S]) => map[K]S
func Subst(x ast.Expr, from string, to ast.Expr) ast.Expr {
	return walkName(Clone(x), from, func(c *astutil.Cursor) {
		c.Replace(Clone(to))
	})
}

// Mentions reports whether x refers to the type name. It looks at the same
// identifiers that [Subst] replaces.
func Mentions(x ast.Expr, name string) bool {
	found := false
	walkName(x, name, func(*astutil.Cursor) { found = true })
	return found
}

// walkName calls fn for every identifier in x that refers to name as a type
// or value, not as a field, method or qualified name.
func walkName(x ast.Expr, name string, fn func(*astutil.Cursor)) ast.Expr {
	return astutil.Apply(x, func(c *astutil.Cursor) bool {
		id, ok := c.Node().(*ast.Ident)
		if !ok || id.Name != name {
			return true
		}
		switch c.Parent().(type) {
		case *ast.SelectorExpr:
			if c.Name() == "Sel" {
				return true
			}
		case *ast.Field:
			if c.Name() == "Names" {
				return true
			}
		case *ast.KeyValueExpr:
			if c.Name() == "Key" {
				return true
			}
		}
		fn(c)
		return true
	}, nil).(ast.Expr)
}

func exprString(x ast.Expr) string {
	var b strings.Builder
	if err := format.Node(&b, token.NewFileSet(), x); err != nil {
		panic(err) // should never happen because ast.Expr must be supported by the go/printer
	}
	return b.String()
}
