package parse

import (
	"go/ast"
	"go/token"

	"github.com/eboody/statum/internal/codefmt"
)

// ReservedField is the name of the synthesized field that holds the current
// state and its payload. User fields cannot take it.
const ReservedField = "stateData"

// ParseMachine parses a machine description: a generic struct whose first
// type parameter is the state.
//
//	//statum:machine derive=Stringer
//	type TaskMachine[TaskState any] struct {
//		Name     string
//		Priority int
//	}
func (p *Parser) ParseMachine(file *ast.File, spec *ast.TypeSpec, doc *ast.CommentGroup, d Directive) (*MachineInfo, error) {
	if err := p.checkOptions(d, "derive"); err != nil {
		return nil, err
	}
	if len(d.Args) != 0 {
		return nil, codefmt.Errorf(p, d, "statum:machine takes no arguments; got %q", d.Args[0])
	}
	derives, err := p.parseDerives(d)
	if err != nil {
		return nil, err
	}

	name := spec.Name.Name
	if spec.TypeParams == nil || len(spec.TypeParams.List) == 0 {
		return nil, codefmt.Errorf(p, spec.Name, "machine %s must have at least one type parameter for its state, like %s[State any]", name, name)
	}
	if spec.Assign.IsValid() {
		return nil, codefmt.Errorf(p, spec.Name, "machine %s must be a defined struct type, not an alias", name)
	}

	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, codefmt.Errorf(p, spec.Type, "machine %s must be a struct type; got %c", name, spec.Type)
	}

	machine := &MachineInfo{
		Key:        p.Key(spec.Pos()),
		Name:       name,
		Exported:   ast.IsExported(name),
		Derives:    derives,
		Doc:        StripDirectives(doc),
		TypeParams: spec.TypeParams,
		Spec:       spec,
		File:       file,
	}

	seen := make(map[string]token.Pos)
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			return nil, codefmt.Errorf(p, field.Type, "machine %s cannot embed %c; give the field a name", name, field.Type)
		}

		for _, id := range field.Names {
			switch id.Name {
			case ReservedField:
				return nil, codefmt.Errorf(p, id, "field name %s is reserved for the state of machine %s", id.Name, name)
			case "_":
				return nil, codefmt.Errorf(p, id, "machine %s cannot have blank fields; builders set every field", name)
			}
			if prev, dup := seen[id.Name]; dup {
				return nil, codefmt.Errorf(p, id, "duplicate field %s in machine %s; previous declaration at %b", id.Name, name, prev)
			}
			seen[id.Name] = id.Pos()

			machine.Fields = append(machine.Fields, Field{
				Name: id.Name,
				Type: p.typeOf(file, field.Type),
				Doc:  field.Doc,
				Tag:  field.Tag,
				pos:  id.Pos(),
			})
		}
	}

	return machine, nil
}
