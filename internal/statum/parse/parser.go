// Package parse parses statum declarations from the syntax of a package into
// structured metadata. It never type-checks: the declarations reference
// names that only exist after generation.
package parse

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"

	"golang.org/x/tools/go/packages"

	"github.com/eboody/statum/internal/scope"
	"github.com/eboody/statum/internal/typeinfo"
)

// BuildTag is the build tag of files holding statum declarations.
const BuildTag = "statum"

// Parser parses an AST of the underlying package to collect statum
// declarations.
type Parser struct {
	pkg      *packages.Package
	resolver scope.Resolver
	imports  map[*ast.File]typeinfo.Imports
}

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser]. Declarations are keyed by the given resolver.
func New(pkg *packages.Package, resolver scope.Resolver) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if resolver == nil {
		resolver = scope.FileResolver{}
	}
	return &Parser{pkg: pkg, resolver: resolver, imports: make(map[*ast.File]typeinfo.Imports)}, nil
}

// Key resolves the scope key of a declaration at pos.
func (p *Parser) Key(pos token.Pos) scope.Key {
	return p.resolver.Resolve(p.pkg.PkgPath, p.pkg.Fset.Position(pos))
}

// Imports returns the import table of the file.
func (p *Parser) Imports(file *ast.File) typeinfo.Imports {
	imports, ok := p.imports[file]
	if !ok {
		imports = typeinfo.FileImports(file)
		p.imports[file] = imports
	}
	return imports
}

// typeOf wraps a type expression of the file.
func (p *Parser) typeOf(file *ast.File, x ast.Expr) typeinfo.Type {
	return typeinfo.TypeOf(x, p.Imports(file))
}

// StatumGoFiles returns the Go files that have a "//go:build statum"
// constraint.
func (p *Parser) StatumGoFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.Pkg().Syntax {
		if HasGoBuildStatum(file) {
			files = append(files, file)
		}
	}
	return files
}

// HasGoBuildStatum checks if the file has a "//go:build statum" constraint:
// the file builds with the statum tag and does not build without it. Other
// tags are assumed to be satisfied.
func HasGoBuildStatum(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			// Build constraints must appear before the package clause.
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				continue
			}
			with := expr.Eval(func(tag string) bool { return true })
			without := expr.Eval(func(tag string) bool { return tag != BuildTag })
			return with && !without
		}
	}
	return false
}
