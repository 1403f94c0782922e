package validate

import (
	"fmt"
	"go/ast"
	"strings"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/lcs"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/typeinfo"
)

func (v *Validator) validateTransition(spec *parse.TransitionSpec, machines map[*parse.MachineInfo]*Machine) (*Transition, error) {
	src, ok := spec.Source.Instance()
	if !ok || src.Qualifier != "" || len(src.Args) == 0 {
		return nil, codefmt.Errorf(v, spec.Source, "transition %s must take a machine of this package as its first parameter, like TaskMachine[Draft]; got %c", spec.Name, spec.Source)
	}
	info, ok := v.reg.FindMachine(spec.Key, src.Name)
	if !ok {
		return nil, codefmt.Errorf(v, spec.Source, "cannot find machine %s for transition %s", src.Name, spec.Name)
	}
	machine, ok := machines[info]
	if !ok {
		// The machine is invalid and already reported.
		return nil, nil
	}

	from, err := v.variantOf(machine, spec.Source, src)
	if err != nil {
		return nil, err
	}

	depth := typeinfo.Depth(spec.Results, v.isMachine(spec, machine.Name))
	switch {
	case depth > 1:
		return nil, codefmt.Errorf(v, spec.Results[0], "result of transition %s is nested more than one level; got %s, expected %s", spec.Name, results(spec.Results), shapes(machine.Name))
	case depth < 0:
		if other := typeinfo.Depth(spec.Results, v.isMachine(spec, "")); other >= 0 {
			return nil, codefmt.Errorf(v, spec.Results[0], "transition %s must return %s, the machine it takes; got %s", spec.Name, machine.Name, results(spec.Results))
		}
		return nil, codefmt.Errorf(v, spec.Results[0], "transition %s must return %s in its next state; got %s, expected %s", spec.Name, machine.Name, results(spec.Results), shapes(machine.Name))
	}

	var shape typeinfo.Shape
	if depth == 0 {
		shape, _ = typeinfo.Results(spec.Results)
	} else {
		shape, _ = typeinfo.Peel(spec.Results)
	}
	dst, _ := shape.Type.Instance()
	to, err := v.variantOf(machine, shape.Type, dst)
	if err != nil {
		return nil, err
	}

	return &Transition{
		TransitionSpec: spec,
		Machine:        machine,
		From:           from,
		To:             to,
		Wrapper:        shape.Wrapper,
	}, nil
}

// isMachine returns a matcher for instances of the named machine. If name is
// empty, it matches any machine of the package.
func (v *Validator) isMachine(spec *parse.TransitionSpec, name string) func(typeinfo.Type) bool {
	return func(t typeinfo.Type) bool {
		inst, ok := t.Instance()
		if !ok || inst.Qualifier != "" || len(inst.Args) == 0 {
			return false
		}
		if name != "" {
			return inst.Name == name
		}
		_, ok = v.reg.FindMachine(spec.Key, inst.Name)
		return ok
	}
}

// variantOf resolves the state argument of a machine instance to a variant.
func (v *Validator) variantOf(machine *Machine, t typeinfo.Type, inst typeinfo.Instance) (parse.Variant, error) {
	want := 1 + len(machine.ExtraParams())
	if len(inst.Args) != want {
		return parse.Variant{}, codefmt.Errorf(v, t, "%c must have %d type arguments like its declaration %s", t, want, machine.Name)
	}

	arg := inst.Args[0]
	id, ok := arg.(*ast.Ident)
	if !ok {
		return parse.Variant{}, codefmt.Errorf(v, arg, "state of %c must be a variant of %s; got %c", t, machine.State.Name, arg)
	}
	variant, ok := machine.State.Variant(id.Name)
	if !ok {
		msg := fmt.Sprintf("%s is not a variant of state %s", id.Name, machine.State.Name)
		if hint, ok := lcs.Closest(id.Name, machine.State.VariantNames()); ok {
			msg += "; did you mean " + hint + "?"
		}
		return parse.Variant{}, codefmt.Errorf(v, id, "%s", msg)
	}
	return variant, nil
}

// shapes describes the accepted result shapes of a transition.
func shapes(machine string) string {
	x := machine + "[X]"
	return fmt.Sprintf("one of %s, *%s, (%s, error), (%s, bool) or Result[%s]", x, x, x, x, x)
}

func results(ts []typeinfo.Type) string {
	if len(ts) == 1 {
		return ts[0].String()
	}
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = t.String()
	}
	return "(" + strings.Join(ss, ", ") + ")"
}
