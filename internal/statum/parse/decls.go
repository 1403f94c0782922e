package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"iter"

	"github.com/eboody/statum/internal/codefmt"
)

// Decls holds every statum declaration of a package in source order.
type Decls struct {
	States      []*StateInfo
	Machines    []*MachineInfo
	Transitions []*TransitionSpec
	Validators  []*ValidatorsSpec

	// Directives are the positions of all consumed directive comments.
	Directives map[token.Pos]Directive
}

// Len returns the number of declarations.
func (d *Decls) Len() int {
	return len(d.States) + len(d.Machines) + len(d.Transitions) + len(d.Validators)
}

// Parse finds and parses all statum declarations in the statum files. It
// collects all errors instead of stopping at the first error.
func (p *Parser) Parse() (*Decls, error) {
	decls := &Decls{Directives: make(map[token.Pos]Directive)}
	var errs error

	for _, file := range p.StatumGoFiles() {
		for decl := range FindDecls(file) {
			d, ok, err := p.findDirective(decl.Doc)
			if !ok {
				continue
			}
			for _, c := range decl.Doc.List {
				if IsDirective(c) {
					decls.Directives[c.Pos()] = d
				}
			}
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}

			errs = errors.Join(errs, p.parseDecl(decls, file, decl, d))
		}
	}

	errs = errors.Join(errs, p.Validate(decls))
	return decls, errs
}

func (p *Parser) parseDecl(decls *Decls, file *ast.File, decl Decl, d Directive) error {
	switch d.Kind {
	case KindState, KindMachine, KindValidators:
		if decl.Spec == nil {
			return codefmt.Errorf(p, d, "statum:%s must annotate a type declaration", d.Kind)
		}
	case KindTransition:
		if decl.Func == nil {
			return codefmt.Errorf(p, d, "statum:%s must annotate a function declaration", d.Kind)
		}
	}

	switch d.Kind {
	case KindState:
		state, err := p.ParseState(file, decl.Spec, decl.Doc, d)
		if err != nil {
			return err
		}
		decls.States = append(decls.States, state)

	case KindMachine:
		machine, err := p.ParseMachine(file, decl.Spec, decl.Doc, d)
		if err != nil {
			return err
		}
		decls.Machines = append(decls.Machines, machine)

	case KindTransition:
		transition, err := p.ParseTransition(file, decl.Func, d)
		if err != nil {
			return err
		}
		decls.Transitions = append(decls.Transitions, transition)

	case KindValidators:
		validators, err := p.ParseValidators(file, decl.Spec, d)
		if err != nil {
			return err
		}
		decls.Validators = append(decls.Validators, validators)
	}
	return nil
}

// Decl is a package-level declaration that can carry a directive. Exactly
// one of Spec, Func and Value is set.
type Decl struct {
	Doc *ast.CommentGroup

	Gen   *ast.GenDecl
	Spec  *ast.TypeSpec
	Value *ast.ValueSpec
	Func  *ast.FuncDecl
}

// FindDecls iterates package-level declarations with their doc comments. For
// an unparenthesized declaration, the doc comment belongs to the GenDecl.
func FindDecls(file *ast.File) iter.Seq[Decl] {
	return func(yield func(Decl) bool) {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if !yield(Decl{Doc: decl.Doc, Func: decl}) {
					return
				}

			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					d := Decl{Gen: decl}
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						d.Spec, d.Doc = spec, spec.Doc
					case *ast.ValueSpec:
						d.Value, d.Doc = spec, spec.Doc
					default:
						continue
					}
					if !decl.Lparen.IsValid() {
						d.Doc = decl.Doc
					}
					if !yield(d) {
						return
					}
				}
			}
		}
	}
}
