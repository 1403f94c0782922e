package parse

import (
	"go/ast"

	"github.com/eboody/statum/internal/codefmt"
)

// ParseTransition parses a transition function. Its first parameter is the
// machine by value, and its results name the next state.
//
//	//statum:transition
//	func Publish(m TaskMachine[InReview]) TaskMachine[Published]
//
// Methods cannot be transitions because a Go method cannot specialize on a
// type argument of its receiver.
func (p *Parser) ParseTransition(file *ast.File, fn *ast.FuncDecl, d Directive) (*TransitionSpec, error) {
	if err := p.checkOptions(d); err != nil {
		return nil, err
	}
	if len(d.Args) != 0 {
		return nil, codefmt.Errorf(p, d, "statum:transition takes no arguments; got %q", d.Args[0])
	}

	name := fn.Name.Name
	if fn.Recv != nil {
		return nil, codefmt.Errorf(p, fn.Recv, "transition %s must be a function taking the machine as its first parameter, not a method", name)
	}
	if fn.Body == nil {
		return nil, codefmt.Errorf(p, fn.Name, "transition %s must have a body", name)
	}

	params := fn.Type.Params.List
	if len(params) == 0 {
		return nil, codefmt.Errorf(p, fn.Type.Params, "transition %s must take the machine as its first parameter", name)
	}

	first := params[0].Type
	switch first := first.(type) {
	case *ast.StarExpr:
		return nil, codefmt.Errorf(p, first, "transition %s must take the machine by value; got %c", name, first)
	case *ast.Ellipsis:
		return nil, codefmt.Errorf(p, first, "transition %s must take the machine as its first parameter; got %c", name, first)
	}

	results := flatten(fn.Type.Results)
	if len(results) == 0 {
		return nil, codefmt.Errorf(p, fn.Name, "transition %s must return the machine in its next state", name)
	}

	spec := &TransitionSpec{
		Key:    p.Key(fn.Pos()),
		Name:   name,
		Source: p.typeOf(file, first),
		Func:   fn,
		File:   file,
	}
	for _, result := range results {
		spec.Results = append(spec.Results, p.typeOf(file, result))
	}
	return spec, nil
}
