// Package codefmt writes generated Go code and reports errors positioned in
// the user's source code.
package codefmt

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Formatter renders expressions and positions of one package.
type Formatter struct {
	PkgPath string
	Fset    *token.FileSet
}

func New(pkg *packages.Package) Formatter {
	if pkg == nil {
		return Formatter{}
	}
	return Formatter{pkg.PkgPath, pkg.Fset}
}

// Expr renders an expression as Go source code.
func (f Formatter) Expr(expr ast.Expr) string {
	fset := f.Fset
	if fset == nil {
		fset = token.NewFileSet()
	}

	var b strings.Builder
	if err := format.Node(&b, fset, expr); err != nil {
		panic(err) // go/printer supports every ast.Expr
	}
	return b.String()
}

// wd is the cached working directory.
var wd, _ = os.Getwd()

// FormatPosition renders a position as file:line:column, with the file
// relative to the working directory if possible.
func FormatPosition(pos token.Position) string {
	if !pos.IsValid() {
		return "-:-"
	}
	filename := pos.Filename
	if rel, err := filepath.Rel(wd, filename); err == nil {
		filename = rel
	}
	return fmt.Sprintf("%s:%d:%d", filename, pos.Line, pos.Column)
}
