package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/lcs"
	"github.com/eboody/statum/internal/statum/match"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/typeinfo"
)

func (v *Validator) validateValidators(spec *parse.ValidatorsSpec, machines map[*parse.MachineInfo]*Machine) (*Validators, error) {
	info, ok := v.reg.FindMachine(spec.Key, spec.Machine)
	if !ok {
		msg := fmt.Sprintf("cannot find machine %s for validators %s", spec.Machine, spec.Type)
		if hint, ok := lcs.Closest(spec.Machine, v.machineNames(spec)); ok {
			msg += "; did you mean " + hint + "?"
		}
		return nil, codefmt.Errorf(v, spec.Directive, "%s", msg)
	}
	machine, ok := machines[info]
	if !ok {
		// The machine is invalid and already reported.
		return nil, nil
	}
	if extra := machine.ExtraParams(); len(extra) != 0 {
		return nil, codefmt.Errorf(v, spec.Directive, "validators %s cannot classify into machine %s because it has type parameters other than its state: %s", spec.Type, machine.Name, extra[0].Name)
	}

	state := machine.State
	m := match.NewMatcher(func(variant string) string { return parse.PredicatePrefix + variant })
	for _, variant := range state.Variants {
		m.AddX(match.NewEntry(variant.Name, variant.Name, variant.Pos()))
	}
	preds := make(map[string]parse.Predicate, len(spec.Predicates))
	for _, pred := range spec.Predicates {
		m.AddY(match.NewEntry(pred.Name, pred.Variant, pred.Pos()))
		preds[pred.Variant] = pred
	}

	res := m.Match()
	if !res.OK() {
		var names []string
		for _, x := range res.Missing {
			names = append(names, x.Name)
		}
		for _, y := range res.Extra {
			names = append(names, y.Name)
		}
		return nil, codefmt.Errorf(v, spec.Directive, "validators %s must have exactly one predicate per variant of %s (%s):\n%s", spec.Type, state.Name, strings.Join(names, ", "), res.Table())
	}

	vs := &Validators{ValidatorsSpec: spec, Machine: machine}
	var errs error
	for _, pair := range res.Pairs {
		pred := preds[pair.X.Key]
		variant, _ := state.Variant(pair.X.Key)

		if err := v.checkPayload(pred, variant); err != nil {
			errs = errors.Join(errs, err)
		}
		if err := v.checkParams(pred, machine); err != nil {
			errs = errors.Join(errs, err)
		}

		vs.Predicates = append(vs.Predicates, pred)
		vs.Async = vs.Async || pred.Async
		vs.PointerRecv = vs.PointerRecv || pred.PointerRecv
	}

	generated := []string{ToMethod(machine)}
	for _, variant := range state.Variants {
		generated = append(generated, TryToMethod(machine, variant))
	}
	for _, fn := range v.p.FindMethods(spec.Type) {
		for _, name := range generated {
			if fn.Name.Name == name {
				errs = errors.Join(errs, codefmt.Errorf(v, fn.Name, "method %s of %s collides with a method generated for validators of %s", name, spec.Type, machine.Name))
			}
		}
	}

	if errs != nil {
		return nil, errs
	}
	return vs, nil
}

// checkPayload checks that the success payload of a predicate is the payload
// of its variant.
func (v *Validator) checkPayload(pred parse.Predicate, variant parse.Variant) error {
	switch {
	case variant.Payload == nil && pred.Payload != nil:
		return codefmt.Errorf(v, pred, "predicate %s must return error because variant %s has no payload; got (%s, error)", pred.Name, variant.Name, pred.Payload)
	case variant.Payload != nil && pred.Payload == nil:
		return codefmt.Errorf(v, pred, "predicate %s must return (%s, error) because variant %s carries %s; got error", pred.Name, variant.Payload, variant.Name, variant.Payload)
	case variant.Payload != nil && !pred.Payload.Identical(*variant.Payload):
		return codefmt.Errorf(v, pred, "predicate %s must return the payload of variant %s: expected (%s, error), found (%s, error)", pred.Name, variant.Name, variant.Payload, pred.Payload)
	}
	return nil
}

// checkParams checks that the parameters of a predicate after its context
// are empty or mirror the machine fields.
func (v *Validator) checkParams(pred parse.Predicate, machine *Machine) error {
	if len(pred.Params) == 0 {
		return nil
	}

	ok := len(pred.Params) == len(machine.Fields)
	for i := 0; ok && i < len(pred.Params); i++ {
		ok = pred.Params[i].Identical(machine.Fields[i].Type)
	}
	if ok {
		return nil
	}

	want := make([]typeinfo.Type, len(machine.Fields))
	for i, field := range machine.Fields {
		want[i] = field.Type
	}
	return codefmt.Errorf(v, pred, "parameters of predicate %s must be empty or the fields of %s: expected (%s), found (%s)", pred.Name, machine.Name, list(want), list(pred.Params))
}

func (v *Validator) machineNames(spec *parse.ValidatorsSpec) []string {
	var names []string
	for _, machine := range v.reg.Machines() {
		if machine.Key.SiblingOf(spec.Key) {
			names = append(names, machine.Name)
		}
	}
	return names
}

func list(ts []typeinfo.Type) string {
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = t.String()
	}
	return strings.Join(ss, ", ")
}

// ToMethod is the name of the classification method generated on a domain
// type. It is exported if the machine is.
func ToMethod(machine *Machine) string {
	return codefmt.Exported(machine.Exported, codefmt.Join("to", machine.Name))
}

// TryToMethod is the name of the method generated on a domain type to run
// the predicate of a single variant.
func TryToMethod(machine *Machine, variant parse.Variant) string {
	return codefmt.Exported(machine.Exported, codefmt.Join("tryTo", variant.Name))
}
