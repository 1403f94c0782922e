package synth

import (
	"strings"

	"github.com/eboody/statum/internal/statum/match"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/validate"
)

// writeTransitions writes, per target variant of the transition graph, a
// constraint interface implemented by every source variant and a generic
// function moving a machine to the target. The transition functions
// themselves are user code and are kept as they are.
//
//	type TaskMachineTransitionToDone interface {
//		TaskState
//		taskMachineTransitionToDone()
//	}
//
//	func (InProgress) taskMachineTransitionToDone() {}
//
//	func TaskMachineToDone[S TaskMachineTransitionToDone](m TaskMachine[S]) TaskMachine[Done]
func (s *Synth) writeTransitions(m *validate.Machine, graph *match.Graph) {
	if graph == nil {
		return
	}
	for _, variant := range m.State.Variants {
		sources := graph.Sources(variant.Name)
		if len(sources) == 0 {
			continue
		}
		s.writeTransition(m, variant, sources)
	}
}

func (s *Synth) writeTransition(m *validate.Machine, to parse.Variant, sources []string) {
	g := s.machineGen(m)
	n := namesOfMachine(m)
	v := to.Name

	iface := n.TransitionTo(v)
	if to.HasPayload() {
		iface = n.TransitionWith(v)
	}
	mark := n.edgeMark(v)

	s.w.Printf("// %s is implemented by the states of %s that can transition to %s: %s.\n", iface, m.Name, v, strings.Join(sources, ", "))
	s.w.Printf("type %s interface {\n", s.declare(iface))
	s.w.Printf("%s\n", m.State.Name)
	s.w.Printf("%s()\n", mark)
	s.w.Printf("}\n\n")

	for _, src := range sources {
		s.w.Printf("func (%s) %s() {}\n", src, mark)
	}
	s.w.Printf("\n")

	local := s.locals()
	local.Reserve(g.param)
	for _, p := range m.ExtraParams() {
		local.Reserve(p.Name)
	}
	from := local.Name("m")
	data := local.Name("data")

	params := from + " " + g.instance(g.param)
	state := v + "{}"
	if to.HasPayload() {
		params += s.w.Sprintf(", %s %c", data, to.Payload.X)
		state = v + "{" + data + "}"
	}

	values := make([]string, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		values = append(values, f.Name+": "+from+"."+f.Name)
	}
	values = append(values, parse.ReservedField+": "+state)

	fn := s.declare(n.To(v))
	target := g.instance(v)
	if to.HasPayload() {
		s.w.Printf("// %s moves %s to %s with its payload. Every field is copied.\n", fn, from, v)
	} else {
		s.w.Printf("// %s moves %s to %s. Every field is copied.\n", fn, from, v)
	}
	s.w.Printf("func %s%s(%s) %s {\n", fn, g.typeParams(g.param+" "+iface, g.param), params, target)
	s.w.Printf("return %s{%s}\n", target, strings.Join(values, ", "))
	s.w.Printf("}\n\n")
}
