package synth

import (
	"strings"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/lcs"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/validate"
)

// writeValidators writes the classifier of a validators block: the super
// state of its machine once per machine, the To<Machine> method trying every
// predicate in variant order, a TryTo<Variant> method per variant and a
// batch function over a slice of domain values.
func (s *Synth) writeValidators(vs *validate.Validators) {
	if !s.supers[vs.Machine] {
		s.supers[vs.Machine] = true
		s.writeSuperState(vs.Machine)
	}
	s.writeToMachine(vs)
	for _, pred := range vs.Predicates {
		s.writeTryTo(vs, pred)
	}
	s.writeBatch(vs)
}

// writeSuperState writes a sealed interface implemented by the machine in
// every state.
//
//	type TaskMachineSuperState interface {
//		StateName() string
//		IsDraft() bool
//		taskMachineSuperState()
//	}
func (s *Synth) writeSuperState(m *validate.Machine) {
	g := s.machineGen(m)
	n := namesOfMachine(m)
	super := s.declare(n.SuperState())

	s.w.Printf("// %s is a %s in any state of %s. Switch on its type to get the\n", super, m.Name, m.State.Name)
	s.w.Printf("// machine in a specific state, like %s.\n", g.instance(m.State.Variants[0].Name))
	s.w.Printf("type %s interface {\n", super)
	s.w.Printf("StateName() string\n")
	for _, variant := range m.State.Variants {
		s.w.Printf("%s%s() bool\n", parse.PredicatePrefix, variant.Name)
	}
	s.w.Printf("%s()\n", n.superMark())
	s.w.Printf("}\n\n")

	s.w.Printf("func (%s) %s() {}\n\n", g.instance(g.param), n.superMark())
}

// classifier holds the local names of a generated classification function.
type classifier struct {
	vs     *validate.Validators
	recv   string
	ctx    string
	fields []string
	params string // field parameters
}

func (s *Synth) newClassifier(vs *validate.Validators, local codefmt.NS, async bool) classifier {
	c := classifier{vs: vs, recv: local.Name(lcs.Initial(vs.Type))}
	if async {
		c.ctx = local.Name("ctx")
	}
	c.params, c.fields = s.machineGen(vs.Machine).fieldParams(local)
	return c
}

// recvDecl renders the receiver of a generated method.
func (c classifier) recvDecl() string {
	if c.vs.PointerRecv {
		return c.recv + " *" + c.vs.Type
	}
	return c.recv + " " + c.vs.Type
}

// signature renders the parameters of a generated method.
func (s *Synth) signature(c classifier) string {
	var params []string
	if c.ctx != "" {
		params = append(params, c.ctx+" "+s.context+".Context")
	}
	if c.params != "" {
		params = append(params, c.params)
	}
	return strings.Join(params, ", ")
}

// call renders a predicate call.
//
// e.g., call(IsInProgress) => "r.IsInProgress(ctx, name, priority)"
func (c classifier) call(pred parse.Predicate) string {
	var args []string
	if pred.Async {
		args = append(args, c.ctx)
	}
	if len(pred.Params) != 0 {
		args = append(args, c.fields...)
	}
	return c.recv + "." + pred.Name + "(" + strings.Join(args, ", ") + ")"
}

// build renders a builder chain of a variant.
//
// e.g., build(InProgress, "data") => "NewTaskMachineInProgress().Name(name).Data(data).Build()"
func (c classifier) build(variant string, data string) string {
	m := c.vs.Machine
	var b strings.Builder
	b.WriteString(namesOfMachine(m).New(variant) + "()")
	for i, f := range m.Fields {
		b.WriteString("." + f.Name + "(" + c.fields[i] + ")")
	}
	if data != "" {
		b.WriteString(".Data(" + data + ")")
	}
	b.WriteString(".Build()")
	return b.String()
}

// writeToMachine writes the classification method.
//
//	func (r Row) ToTaskMachine(name string) (TaskMachineSuperState, error) {
//		if err := r.IsDraft(); err == nil {
//			return NewTaskMachineDraft().Name(name).Build(), nil
//		}
//		...
//		return nil, statum.ErrInvalidState
//	}
func (s *Synth) writeToMachine(vs *validate.Validators) {
	m := vs.Machine
	local := s.locals()
	c := s.newClassifier(vs, local, vs.Async)
	data := local.Name("data")
	errName := local.Name("err")
	method := validate.ToMethod(m)
	super := namesOfMachine(m).SuperState()

	s.w.Printf("// %s classifies %s into the first state of %s whose predicate succeeds,\n", method, c.recv, m.State.Name)
	s.w.Printf("// trying %s in this order. It returns %s.ErrInvalidState if none succeeds.\n", predicateNames(vs.Predicates), s.statum)
	s.w.Printf("func (%s) %s(%s) (%s, error) {\n", c.recvDecl(), method, s.signature(c), super)
	for _, pred := range vs.Predicates {
		variant, _ := m.State.Variant(pred.Variant)
		if variant.HasPayload() {
			s.w.Printf("if %s, %s := %s; %s == nil {\n", data, errName, c.call(pred), errName)
			s.w.Printf("return %s, nil\n", c.build(variant.Name, data))
		} else {
			s.w.Printf("if %s := %s; %s == nil {\n", errName, c.call(pred), errName)
			s.w.Printf("return %s, nil\n", c.build(variant.Name, ""))
		}
		s.w.Printf("}\n")
	}
	s.w.Printf("return nil, %s.ErrInvalidState\n", s.statum)
	s.w.Printf("}\n\n")
}

// writeTryTo writes a method running the predicate of one variant.
func (s *Synth) writeTryTo(vs *validate.Validators, pred parse.Predicate) {
	m := vs.Machine
	local := s.locals()
	c := s.newClassifier(vs, local, pred.Async)
	data := local.Name("data")
	errName := local.Name("err")
	variant, _ := m.State.Variant(pred.Variant)
	method := validate.TryToMethod(m, variant)
	target := machineGen{Machine: m}.instance(variant.Name)

	s.w.Printf("// %s builds a %s if %s succeeds. Otherwise, the error of the\n", method, target, pred.Name)
	s.w.Printf("// predicate is returned as a %s.Rejection.\n", s.statum)
	s.w.Printf("func (%s) %s(%s) (%s, error) {\n", c.recvDecl(), method, s.signature(c), target)
	if variant.HasPayload() {
		s.w.Printf("%s, %s := %s\n", data, errName, c.call(pred))
	} else {
		data = ""
		s.w.Printf("%s := %s\n", errName, c.call(pred))
	}
	s.w.Printf("if %s != nil {\n", errName)
	s.w.Printf("return %s{}, %s.Reject(%s)\n", target, s.statum, errName)
	s.w.Printf("}\n")
	s.w.Printf("return %s, nil\n", c.build(variant.Name, data))
	s.w.Printf("}\n\n")
}

// writeBatch writes a function classifying a slice of domain values. The
// result at index i is the classification of the value at index i.
func (s *Synth) writeBatch(vs *validate.Validators) {
	m := vs.Machine
	local := s.locals()
	items := local.Name(lcs.LowerCamel(vs.Type) + "s")
	c := s.newClassifier(vs, local, vs.Async)
	n := namesOfMachine(m)
	fn := s.declare(n.Batch(vs.Type))
	super := n.SuperState()

	var params []string
	if c.ctx != "" {
		params = append(params, c.ctx+" "+s.context+".Context")
	}
	params = append(params, items+" []"+vs.Type)
	if c.params != "" {
		params = append(params, c.params)
	}

	call := c.recv + "." + validate.ToMethod(m) + "(" + strings.Join(append(optional(c.ctx), c.fields...), ", ") + ")"

	s.w.Printf("// %s classifies every %s with %s. Results are in the\n", fn, vs.Type, validate.ToMethod(m))
	if vs.Async {
		s.w.Printf("// order of %s, although the values are classified concurrently.\n", items)
	} else {
		s.w.Printf("// order of %s.\n", items)
	}
	s.w.Printf("func %s(%s) []%s.Result[%s] {\n", fn, strings.Join(params, ", "), s.statum, super)
	if vs.Async {
		s.w.Printf("return %s.BatchContext(%s, %s, func(%s %s.Context, %s %s) (%s, error) {\n", s.statum, c.ctx, items, c.ctx, s.context, c.recv, vs.Type, super)
	} else {
		s.w.Printf("return %s.Batch(%s, func(%s %s) (%s, error) {\n", s.statum, items, c.recv, vs.Type, super)
	}
	s.w.Printf("return %s\n", call)
	s.w.Printf("})\n")
	s.w.Printf("}\n\n")
}

func optional(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func predicateNames(preds []parse.Predicate) string {
	names := make([]string, len(preds))
	for i, pred := range preds {
		names[i] = pred.Name
	}
	return strings.Join(names, ", ")
}
