package parse

import (
	"go/ast"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eboody/statum/internal/codefmt"
)

// PredicatePrefix starts the name of every predicate method.
const PredicatePrefix = "Is"

// ParseValidators parses a validators block: a domain type whose
// Is<Variant> methods classify its values into the states of a machine.
//
//	//statum:validators TaskMachine
//	type Row struct{ Status string }
//
//	func (r Row) IsDraft() error
//	func (r Row) IsInProgress(ctx context.Context) (Progress, error)
func (p *Parser) ParseValidators(file *ast.File, spec *ast.TypeSpec, d Directive) (*ValidatorsSpec, error) {
	if err := p.checkOptions(d); err != nil {
		return nil, err
	}
	if len(d.Args) != 1 {
		return nil, codefmt.Errorf(p, d, "statum:validators needs exactly one machine name, like //statum:validators TaskMachine")
	}

	name := spec.Name.Name
	if spec.TypeParams != nil && len(spec.TypeParams.List) != 0 {
		return nil, codefmt.Errorf(p, spec.TypeParams, "validators type %s must not have type parameters", name)
	}
	if spec.Assign.IsValid() {
		return nil, codefmt.Errorf(p, spec.Name, "validators type %s must be a defined type, not an alias", name)
	}

	v := &ValidatorsSpec{
		Key:       p.Key(spec.Pos()),
		Machine:   d.Args[0],
		Type:      name,
		Directive: d,
		Spec:      spec,
		File:      file,
	}
	for file, fn := range p.FindMethods(name) {
		if pred, ok := p.parsePredicate(file, fn); ok {
			v.Predicates = append(v.Predicates, pred)
		}
	}
	return v, nil
}

// FindMethods iterates the methods declared on the named type in every file
// of the package.
func (p *Parser) FindMethods(typeName string) iter.Seq2[*ast.File, *ast.FuncDecl] {
	return func(yield func(*ast.File, *ast.FuncDecl) bool) {
		for _, file := range p.Pkg().Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 {
					continue
				}
				recv, _ := recvTypeName(fn.Recv.List[0].Type)
				if recv != typeName {
					continue
				}
				if !yield(file, fn) {
					return
				}
			}
		}
	}
}

// parsePredicate parses a predicate-shaped method. Other methods report
// false.
//
//	func (D) IsX([ctx context.Context,] [fields...]) error
//	func (D) IsX([ctx context.Context,] [fields...]) (Payload, error)
func (p *Parser) parsePredicate(file *ast.File, fn *ast.FuncDecl) (Predicate, bool) {
	variant, ok := strings.CutPrefix(fn.Name.Name, PredicatePrefix)
	if !ok || variant == "" {
		return Predicate{}, false
	}
	if r, _ := utf8.DecodeRuneInString(variant); !unicode.IsUpper(r) {
		// e.g. "Issue" is not a predicate.
		return Predicate{}, false
	}

	results := flatten(fn.Type.Results)
	pred := Predicate{Name: fn.Name.Name, Variant: variant, Func: fn}

	switch len(results) {
	case 1:
		if !p.typeOf(file, results[0]).IsError() {
			return Predicate{}, false
		}
	case 2:
		if !p.typeOf(file, results[1]).IsError() {
			return Predicate{}, false
		}
		payload := p.typeOf(file, results[0])
		pred.Payload = &payload
	default:
		return Predicate{}, false
	}

	_, pred.PointerRecv = recvTypeName(fn.Recv.List[0].Type)

	params := flatten(fn.Type.Params)
	if len(params) != 0 && p.typeOf(file, params[0]).IsContext() {
		pred.Async = true
		params = params[1:]
	}
	for _, param := range params {
		pred.Params = append(pred.Params, p.typeOf(file, param))
	}
	return pred, true
}

// recvTypeName returns the base type name of a receiver type expression and
// whether it is a pointer receiver.
func recvTypeName(x ast.Expr) (string, bool) {
	pointer := false
	if star, ok := x.(*ast.StarExpr); ok {
		pointer = true
		x = star.X
	}
	switch x := ast.Unparen(x).(type) {
	case *ast.Ident:
		return x.Name, pointer
	case *ast.IndexExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			return id.Name, pointer
		}
	case *ast.IndexListExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			return id.Name, pointer
		}
	}
	return "", pointer
}

// flatten expands a field list into one type per value.
//
//	(a, b int, err error) => [int, int, error]
func flatten(fields *ast.FieldList) []ast.Expr {
	if fields == nil {
		return nil
	}
	var types []ast.Expr
	for _, field := range fields.List {
		for range max(len(field.Names), 1) {
			types = append(types, field.Type)
		}
	}
	return types
}
