package parse

import (
	"errors"
	"go/ast"

	"github.com/eboody/statum/internal/codefmt"
)

// Validate checks for directives outside expected places. It collects all
// errors instead of stopping at the first error.
//
// Directives on declarations are validated while parsing them. But a
// directive comment can also float anywhere in a file or live in a file
// without the statum build constraint. Such a directive would silently do
// nothing. That's what this function reports.
func (p *Parser) Validate(decls *Decls) error {
	var errs error
	for _, file := range p.Pkg().Syntax {
		errs = errors.Join(errs, p.validateConstraint(file))
		errs = errors.Join(errs, p.validateDirectives(file, decls))
	}
	return errs
}

// validateConstraint checks if files importing "github.com/eboody/statum" by
// the statum declarations have "//go:build statum" constraint. Generated
// code imports the runtime package, which is fine in any file.
func (p *Parser) validateConstraint(file *ast.File) error {
	if HasGoBuildStatum(file) {
		return nil // Constraint satisfied
	}

	for _, group := range file.Comments {
		for _, c := range group.List {
			if IsDirective(c) {
				return codefmt.Errorf(p, c, `file must have "//go:build %s" constraint to use statum directives`, BuildTag)
			}
		}
	}
	return nil
}

// validateDirectives checks that every directive comment in a statum file
// annotates a declaration.
func (p *Parser) validateDirectives(file *ast.File, decls *Decls) error {
	if !HasGoBuildStatum(file) {
		return nil
	}

	var errs error
	for _, group := range file.Comments {
		for _, c := range group.List {
			if !IsDirective(c) {
				continue
			}
			if _, ok := decls.Directives[c.Pos()]; ok {
				continue
			}
			errs = errors.Join(errs, codefmt.Errorf(p, c, "statum directive must be in the doc comment of a type or function declaration"))
		}
	}
	return errs
}
