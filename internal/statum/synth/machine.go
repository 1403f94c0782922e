package synth

import (
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"strings"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/lcs"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/validate"
	"github.com/eboody/statum/internal/typeinfo"
)

// machineGen renders type parameter lists of a machine. The state parameter
// of the declaration is renamed because the generated container constrains
// it by the state interface of the same name.
type machineGen struct {
	*validate.Machine
	s     *Synth
	param string // state parameter of generated generic declarations
}

func (s *Synth) machineGen(m *validate.Machine) machineGen {
	ns := s.w.NS().Clone()
	for _, p := range m.ExtraParams() {
		ns.Reserve(p.Name)
	}
	return machineGen{Machine: m, s: s, param: ns.Name("S")}
}

// typeParams renders a type parameter list. decl is the declaration of the
// state parameter like "S TaskState", or empty to declare the extra
// parameters only. state is what the user's state parameter stands for in
// the constraints of the extra parameters.
//
// e.g., typeParams("S TaskState", "S") => "[S TaskState, K comparable]"
func (g machineGen) typeParams(decl, state string) string {
	var params []string
	if decl != "" {
		params = append(params, decl)
	}
	for _, p := range g.ExtraParams() {
		c := typeinfo.Subst(p.Constraint, g.StateParam().Name, ast.NewIdent(state))
		params = append(params, p.Name+" "+g.s.w.Expr(c))
	}
	if len(params) == 0 {
		return ""
	}
	return "[" + strings.Join(params, ", ") + "]"
}

// typeArgs renders a type argument list. state is omitted if empty.
//
// e.g., typeArgs("Draft") => "[Draft, K]"
func (g machineGen) typeArgs(state string) string {
	var args []string
	if state != "" {
		args = append(args, state)
	}
	for _, p := range g.ExtraParams() {
		args = append(args, p.Name)
	}
	if len(args) == 0 {
		return ""
	}
	return "[" + strings.Join(args, ", ") + "]"
}

// instance renders the machine instantiated with a state.
//
// e.g., instance("Draft") => "TaskMachine[Draft, K]"
func (g machineGen) instance(state string) string {
	return g.Name + g.typeArgs(state)
}

// fieldType renders the type of a field.
func (g machineGen) fieldType(f parse.Field) string {
	return g.s.w.Expr(f.Type.X)
}

// writeMachine writes the container of a machine, its query methods, the
// derived methods and a staged builder per variant.
//
//	type TaskMachine[S TaskState] struct {
//		Name      string
//		stateData S
//	}
func (s *Synth) writeMachine(m *validate.Machine) {
	g := s.machineGen(m)
	n := namesOfMachine(m)
	state := m.State
	self := g.instance(g.param)

	s.writeDoc(m.Doc, "%s is a machine in the state S of %s.", m.Name, state.Name)
	s.w.Printf("type %s%s struct {\n", s.declare(m.Name), g.typeParams(g.param+" "+state.Name, g.param))
	for _, f := range m.Fields {
		if f.Tag != nil {
			s.w.Printf("%s %s %s\n", f.Name, g.fieldType(f), f.Tag.Value)
		} else {
			s.w.Printf("%s %s\n", f.Name, g.fieldType(f))
		}
	}
	s.w.Printf("%s %s\n", parse.ReservedField, g.param)
	s.w.Printf("}\n\n")

	if len(m.ExtraParams()) == 0 {
		s.w.Printf("// %s is a %s that is not built yet.\n", n.Uninitialized(), m.Name)
		s.w.Printf("type %s = %s\n\n", s.declare(n.Uninitialized()), g.instance(namesOfState(state).Uninitialized()))
	}

	recv := s.locals().Name("m")

	s.w.Printf("// State returns the current state marker of %s.\n", recv)
	s.w.Printf("func (%s %s) State() %s { return %s.%s }\n\n", recv, self, g.param, recv, parse.ReservedField)
	s.w.Printf("// StateName returns the name of the current state.\n")
	s.w.Printf("func (%s %s) StateName() string { return %s.%s.StateName() }\n\n", recv, self, recv, parse.ReservedField)

	for _, variant := range state.Variants {
		s.w.Printf("// %s%s reports whether the current state is %s.\n", parse.PredicatePrefix, variant.Name, variant.Name)
		s.w.Printf("func (%s %s) %s%s() bool {\n", recv, self, parse.PredicatePrefix, variant.Name)
		s.w.Printf("_, ok := any(%s.%s).(%s)\n", recv, parse.ReservedField, variant.Name)
		s.w.Printf("return ok\n")
		s.w.Printf("}\n\n")
	}

	for _, derive := range m.Derives {
		switch derive {
		case parse.DeriveStringer:
			g.writeString(recv, self)
		case parse.DeriveJSON:
			g.writeMarshalJSON(recv, self)
		}
	}

	for _, variant := range state.Variants {
		g.writeBuilder(variant)
	}
}

// writeString writes a String method listing the state and every field.
//
//	TaskMachine{state: Draft, Name: "x", Priority: 1}
func (g machineGen) writeString(recv, self string) {
	format := []string{"state: %v"}
	args := []string{recv + "." + parse.ReservedField}
	for _, f := range g.Fields {
		format = append(format, f.Name+": %#v")
		args = append(args, recv+"."+f.Name)
	}
	layout := strconv.Quote(g.Name + "{" + strings.Join(format, ", ") + "}")

	g.s.w.Printf("func (%s %s) String() string {\n", recv, self)
	g.s.w.Printf("return %s.Sprintf(%s, %s)\n", g.s.fmt, layout, strings.Join(args, ", "))
	g.s.w.Printf("}\n\n")
}

// writeMarshalJSON writes a MarshalJSON method encoding the exported fields
// with their tags and the state under "state".
func (g machineGen) writeMarshalJSON(recv, self string) {
	var values []string
	g.s.w.Printf("func (%s %s) MarshalJSON() ([]byte, error) {\n", recv, self)
	g.s.w.Printf("return %s.Marshal(struct {\n", g.s.json)
	for i, f := range g.Fields {
		if !ast.IsExported(f.Name) {
			continue
		}
		g.s.w.Printf("F%d %s %s\n", i, g.fieldType(f), jsonTag(f))
		values = append(values, recv+"."+f.Name)
	}
	g.s.w.Printf("State %s `json:\"state\"`\n", g.param)
	values = append(values, recv+"."+parse.ReservedField)
	g.s.w.Printf("}{%s})\n", strings.Join(values, ", "))
	g.s.w.Printf("}\n\n")
}

// writeBuilder writes the staged builder of a variant. Each stage sets one
// field and returns the next stage, so Build is only reachable once every
// field and the payload are set.
//
//	NewTaskMachineDraft().Name("x").Priority(1).Build()
func (g machineGen) writeBuilder(variant parse.Variant) {
	w := g.s.w
	n := namesOfMachine(g.Machine)
	v := variant.Name
	target := g.instance(v)
	decl := g.typeParams("", v)
	args := g.typeArgs("")

	// Stages in order. The first stage is returned by the constructor.
	var stages []string
	for _, f := range g.Fields {
		stages = append(stages, g.s.declare(n.Needs(v, f.Name)))
	}
	if variant.HasPayload() {
		stages = append(stages, g.s.declare(n.NeedsData(v)))
	}
	stages = append(stages, g.s.declare(n.Ready(v)))

	local := g.s.locals()
	for _, f := range g.Fields {
		local.Reserve(f.Name)
	}
	inner := local.Name("m")
	recv := local.Name("b")
	value := local.Name("v")

	newName := g.s.declare(n.New(v))
	w.Printf("// %s starts building a %s in state %s.\n", newName, g.Name, v)
	if variant.HasPayload() {
		w.Printf("func %s%s() %s%s { return %s%s{} }\n\n", newName, decl, stages[0], args, stages[0], args)
	} else {
		// Unit markers are zero values, so the state is set from the start.
		w.Printf("func %s%s() %s%s { return %s%s{%s{%s: %s{}}} }\n\n", newName, decl, stages[0], args, stages[0], args, target, parse.ReservedField, v)
	}

	for i, stage := range stages[:len(stages)-1] {
		next := stages[i+1] + args
		w.Printf("type %s%s struct{ %s %s }\n\n", stage, decl, inner, target)

		if i < len(g.Fields) {
			f := g.Fields[i]
			w.Printf("func (%s %s%s) %s(%s %s) %s {\n", recv, stage, args, f.Name, value, g.fieldType(f), next)
			w.Printf("%s.%s.%s = %s\n", recv, inner, f.Name, value)
		} else {
			w.Printf("func (%s %s%s) Data(%s %c) %s {\n", recv, stage, args, value, variant.Payload.X, next)
			w.Printf("%s.%s.%s = %s{%s}\n", recv, inner, parse.ReservedField, v, value)
		}
		w.Printf("return %s{%s.%s}\n", next, recv, inner)
		w.Printf("}\n\n")
	}

	ready := stages[len(stages)-1]
	w.Printf("type %s%s struct{ %s %s }\n\n", ready, decl, inner, target)
	w.Printf("// Build returns the %s.\n", target)
	w.Printf("func (%s %s%s) Build() %s { return %s.%s }\n\n", recv, ready, args, target, recv, inner)
}

// fieldParams declares one parameter per field in a local namespace and
// returns the parameter list and the names.
func (g machineGen) fieldParams(local codefmt.NS) (string, []string) {
	var params, names []string
	for _, f := range g.Fields {
		name := local.Name(lcs.LowerCamel(f.Name))
		names = append(names, name)
		params = append(params, name+" "+g.fieldType(f))
	}
	return strings.Join(params, ", "), names
}

// jsonTag renders the tag of a field with a json key. The key defaults to
// the field name, as encoding/json would do for the field itself.
func jsonTag(f parse.Field) string {
	var tag string
	if f.Tag != nil {
		tag, _ = strconv.Unquote(f.Tag.Value)
	}
	if _, ok := reflect.StructTag(tag).Lookup("json"); !ok {
		tag = strings.TrimSpace(fmt.Sprintf("%s json:%q", tag, f.Name))
	}
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}
