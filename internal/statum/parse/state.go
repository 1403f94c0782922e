package parse

import (
	"go/ast"
	"go/token"

	"github.com/eboody/statum/internal/codefmt"
)

// ParseState parses a state description: an interface type whose methods
// are the variants.
//
//	//statum:state derive=Stringer
//	type TaskState interface {
//		Draft()
//		InProgress(Progress)
//	}
func (p *Parser) ParseState(file *ast.File, spec *ast.TypeSpec, doc *ast.CommentGroup, d Directive) (*StateInfo, error) {
	if err := p.checkOptions(d, "derive"); err != nil {
		return nil, err
	}
	if len(d.Args) != 0 {
		return nil, codefmt.Errorf(p, d, "statum:state takes no arguments; got %q", d.Args[0])
	}
	derives, err := p.parseDerives(d)
	if err != nil {
		return nil, err
	}

	name := spec.Name.Name
	if spec.TypeParams != nil && len(spec.TypeParams.List) != 0 {
		return nil, codefmt.Errorf(p, spec.TypeParams, "state %s must not have type parameters", name)
	}
	if spec.Assign.IsValid() {
		return nil, codefmt.Errorf(p, spec.Name, "state %s must be a defined interface type, not an alias", name)
	}

	iface, ok := spec.Type.(*ast.InterfaceType)
	if !ok {
		return nil, codefmt.Errorf(p, spec.Type, "state %s must be an interface listing its variants as methods; got %c", name, spec.Type)
	}
	if iface.Methods == nil || len(iface.Methods.List) == 0 {
		return nil, codefmt.Errorf(p, spec.Name, "state %s has no variants; declare at least one variant method", name)
	}

	state := &StateInfo{
		Key:      p.Key(spec.Pos()),
		Name:     name,
		Exported: ast.IsExported(name),
		Derives:  derives,
		Doc:      StripDirectives(doc),
		Spec:     spec,
		File:     file,
	}

	seen := make(map[string]token.Pos)
	for _, method := range iface.Methods.List {
		if len(method.Names) == 0 {
			return nil, codefmt.Errorf(p, method.Type, "state %s cannot embed %c; list its variants as methods", name, method.Type)
		}

		variant, err := p.parseVariant(file, name, method)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[variant.Name]; dup {
			return nil, codefmt.Errorf(p, method.Names[0], "duplicate variant %s in state %s; previous declaration at %b", variant.Name, name, prev)
		}
		seen[variant.Name] = variant.Pos()
		state.Variants = append(state.Variants, variant)
	}

	return state, nil
}

// parseVariant parses an interface method as a variant. A variant is a unit
// or carries exactly one payload.
//
//	Draft()               // unit
//	InProgress(Progress)  // payload
func (p *Parser) parseVariant(file *ast.File, state string, method *ast.Field) (Variant, error) {
	id := method.Names[0]
	fn, ok := method.Type.(*ast.FuncType)
	if !ok {
		// unreachable: named interface elements are methods
		return Variant{}, codefmt.Errorf(p, method.Type, "variant %s of state %s must be a method", id.Name, state)
	}

	if fn.Results != nil && fn.Results.NumFields() != 0 {
		return Variant{}, codefmt.Errorf(p, fn.Results, "variant %s of state %s must not return anything; a variant is a unit or carries exactly one payload", id.Name, state)
	}

	variant := Variant{Name: id.Name, Doc: method.Doc, pos: id.Pos()}

	switch n := fn.Params.NumFields(); n {
	case 0:
		return variant, nil

	case 1:
		payload := fn.Params.List[0].Type
		if ellipsis, ok := payload.(*ast.Ellipsis); ok {
			return Variant{}, codefmt.Errorf(p, ellipsis, "variant %s of state %s cannot take a variadic payload; use []%c", id.Name, state, ellipsis.Elt)
		}
		t := p.typeOf(file, payload)
		variant.Payload = &t
		return variant, nil

	default:
		return Variant{}, codefmt.Errorf(p, fn.Params, "variant %s of state %s has %d payloads; a variant is a unit or carries exactly one payload (wrap the values in a struct)", id.Name, state, n)
	}
}
