package parse

import (
	"go/ast"
	"go/token"
	"slices"

	"github.com/eboody/statum/internal/scope"
	"github.com/eboody/statum/internal/typeinfo"
)

// Variant is one state variant: a unit variant or a variant carrying a
// single payload.
type Variant struct {
	Name    string
	Payload *typeinfo.Type
	Doc     *ast.CommentGroup
	pos     token.Pos
}

func (v Variant) Pos() token.Pos { return v.pos }

// HasPayload reports whether the variant carries a payload.
func (v Variant) HasPayload() bool { return v.Payload != nil }

// StateInfo describes a state: a closed, ordered set of variants. The order
// drives classification precedence.
type StateInfo struct {
	Key      scope.Key
	Name     string
	Exported bool
	Variants []Variant
	Derives  []string
	Doc      *ast.CommentGroup

	Spec *ast.TypeSpec
	File *ast.File
}

func (s *StateInfo) Pos() token.Pos { return s.Spec.Name.Pos() }
func (s *StateInfo) End() token.Pos { return s.Spec.Name.End() }

// Variant finds a variant by name.
func (s *StateInfo) Variant(name string) (Variant, bool) {
	i := slices.IndexFunc(s.Variants, func(v Variant) bool { return v.Name == name })
	if i < 0 {
		return Variant{}, false
	}
	return s.Variants[i], true
}

// VariantNames returns the variant names in declared order.
func (s *StateInfo) VariantNames() []string {
	names := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		names[i] = v.Name
	}
	return names
}

// Field is a state-independent field of a machine.
type Field struct {
	Name string
	Type typeinfo.Type
	Doc  *ast.CommentGroup
	Tag  *ast.BasicLit
	pos  token.Pos
}

func (f Field) Pos() token.Pos { return f.pos }

// MachineInfo describes a machine: a generic struct whose first type
// parameter is the current state.
type MachineInfo struct {
	Key      scope.Key
	Name     string
	Exported bool
	Fields   []Field
	Derives  []string
	Doc      *ast.CommentGroup

	// TypeParams is the raw type parameter clause. The first parameter is
	// reserved for the state marker and named after the paired state.
	TypeParams *ast.FieldList

	Spec *ast.TypeSpec
	File *ast.File
}

func (m *MachineInfo) Pos() token.Pos { return m.Spec.Name.Pos() }
func (m *MachineInfo) End() token.Pos { return m.Spec.Name.End() }

// StateParam returns the name of the first type parameter.
func (m *MachineInfo) StateParam() *ast.Ident {
	return m.TypeParams.List[0].Names[0]
}

// ExtraParams returns the type parameters after the state parameter, one
// name per entry.
func (m *MachineInfo) ExtraParams() []TypeParam {
	var params []TypeParam
	for i, field := range m.TypeParams.List {
		for j, name := range field.Names {
			if i == 0 && j == 0 {
				continue
			}
			params = append(params, TypeParam{name.Name, field.Type})
		}
	}
	return params
}

// TypeParam is a type parameter name and its constraint.
type TypeParam struct {
	Name       string
	Constraint ast.Expr
}

// TransitionSpec is a function moving a machine from one state to another.
type TransitionSpec struct {
	Key  scope.Key
	Name string

	// Source is the type of the first parameter, the machine by value.
	Source typeinfo.Type

	// Results are the declared results, one per value.
	Results []typeinfo.Type

	Func *ast.FuncDecl
	File *ast.File
}

func (t *TransitionSpec) Pos() token.Pos { return t.Func.Name.Pos() }
func (t *TransitionSpec) End() token.Pos { return t.Func.Name.End() }

// ValidatorsSpec is a validators block: predicates on a domain type
// classifying its values into the states of a machine.
type ValidatorsSpec struct {
	Key     scope.Key
	Machine string
	Type    string

	// Predicates are the predicate-shaped Is<Variant> methods of the type in
	// declaration order.
	Predicates []Predicate

	Directive Directive
	Spec      *ast.TypeSpec
	File      *ast.File
}

func (v *ValidatorsSpec) Pos() token.Pos { return v.Spec.Name.Pos() }
func (v *ValidatorsSpec) End() token.Pos { return v.Spec.Name.End() }

// Predicate is one Is<Variant> method of a validators block.
type Predicate struct {
	// Name is the method name: "Is" + Variant.
	Name    string
	Variant string

	// Async is true if the first parameter is a context.Context.
	Async bool

	// Params are the parameters after the context. They are empty or mirror
	// the machine fields.
	Params []typeinfo.Type

	// Payload is the success payload type. It is nil if the predicate only
	// returns an error.
	Payload *typeinfo.Type

	PointerRecv bool
	Func        *ast.FuncDecl
}

func (p Predicate) Pos() token.Pos { return p.Func.Name.Pos() }
func (p Predicate) End() token.Pos { return p.Func.Name.End() }
