package validate

import (
	"errors"
	"go/token"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/statum/parse"
)

// StateNames derives the package-level names generated for a state. They
// follow the export of the state.
type StateNames struct{ *parse.StateInfo }

func (n StateNames) RequiresPayload() string { return codefmt.Join(n.Name, "RequiresPayload") }
func (n StateNames) NoPayload() string       { return codefmt.Join(n.Name, "NoPayload") }

func (n StateNames) Uninitialized() string {
	return codefmt.Exported(n.Exported, codefmt.Join("uninitialized", n.Name))
}

// MachineNames derives the package-level names generated for a machine.
type MachineNames struct{ *Machine }

func (n MachineNames) Uninitialized() string {
	return codefmt.Exported(n.Exported, codefmt.Join("uninitialized", n.Name))
}

func (n MachineNames) New(variant string) string {
	return codefmt.Exported(n.Exported, codefmt.Join("new", n.Name, variant))
}

func (n MachineNames) Needs(variant, field string) string {
	return codefmt.Join(n.Name, variant, "Needs", field)
}

func (n MachineNames) NeedsData(variant string) string {
	return codefmt.Join(n.Name, variant, "NeedsData")
}

func (n MachineNames) Ready(variant string) string {
	return codefmt.Join(n.Name, variant, "Ready")
}

func (n MachineNames) TransitionTo(variant string) string {
	return codefmt.Join(n.Name, "TransitionTo", variant)
}

func (n MachineNames) TransitionWith(variant string) string {
	return codefmt.Join(n.Name, "TransitionWith", variant)
}

func (n MachineNames) To(variant string) string {
	return codefmt.Join(n.Name, "To", variant)
}

func (n MachineNames) SuperState() string { return codefmt.Join(n.Name, "SuperState") }

func (n MachineNames) Batch(domain string) string {
	return codefmt.Join(n.Name+"s", "From", domain)
}

// generatedName is a package-level name the generated code declares, with
// the declaration it is generated for.
type generatedName struct {
	name  string
	owner string   // e.g. "machine TaskMachine"
	at    token.Pos // the declaration it is derived from
}

// generatedNames lists every package-level name generated for res, in the
// order they are written.
func generatedNames(res *Result) []generatedName {
	var names []generatedName
	add := func(name, owner string, at token.Pos) {
		names = append(names, generatedName{name, owner, at})
	}

	for _, state := range res.States {
		owner := "state " + state.Name
		n := StateNames{state}
		add(state.Name, owner, state.Pos())
		add(n.RequiresPayload(), owner, state.Pos())
		add(n.NoPayload(), owner, state.Pos())
		add(n.Uninitialized(), owner, state.Pos())
		for _, variant := range state.Variants {
			add(variant.Name, owner, variant.Pos())
		}
	}

	for _, m := range res.Machines {
		owner := "machine " + m.Name
		n := MachineNames{m}
		add(m.Name, owner, m.Pos())
		if len(m.ExtraParams()) == 0 {
			add(n.Uninitialized(), owner, m.Pos())
		}
		for _, variant := range m.State.Variants {
			for _, f := range m.Fields {
				add(n.Needs(variant.Name, f.Name), owner, f.Pos())
			}
			if variant.HasPayload() {
				add(n.NeedsData(variant.Name), owner, m.Pos())
			}
			add(n.Ready(variant.Name), owner, m.Pos())
			add(n.New(variant.Name), owner, m.Pos())
		}

		graph := res.Graphs[m.Name]
		for _, variant := range m.State.Variants {
			if graph == nil || len(graph.Sources(variant.Name)) == 0 {
				continue
			}
			if variant.HasPayload() {
				add(n.TransitionWith(variant.Name), owner, m.Pos())
			} else {
				add(n.TransitionTo(variant.Name), owner, m.Pos())
			}
			add(n.To(variant.Name), owner, m.Pos())
		}
	}

	supers := make(map[*Machine]bool)
	for _, vs := range res.Validators {
		owner := "validators " + vs.Type
		n := MachineNames{vs.Machine}
		if !supers[vs.Machine] {
			supers[vs.Machine] = true
			add(n.SuperState(), owner, vs.Pos())
		}
		add(n.Batch(vs.Type), owner, vs.Pos())
	}
	return names
}

// checkNames reports generated names that collide with each other or with
// user declarations that stay in the package.
func (v *Validator) checkNames(res *Result, declared map[string]token.Pos) error {
	var errs error
	seen := make(map[string]generatedName)
	for _, gen := range generatedNames(res) {
		if pos, ok := declared[gen.name]; ok {
			errs = errors.Join(errs, codefmt.Errorf(v, genPos(gen.at), "generated %s of %s collides with %s declared at %b", gen.name, gen.owner, gen.name, pos))
			continue
		}
		if prev, ok := seen[gen.name]; ok {
			errs = errors.Join(errs, codefmt.Errorf(v, genPos(gen.at), "generated %s of %s collides with the generated %s of %s at %b", gen.name, gen.owner, prev.name, prev.owner, prev.at))
			continue
		}
		seen[gen.name] = gen
	}
	return errs
}

// genPos is a position as a [codefmt.Poser].
type genPos token.Pos

func (p genPos) Pos() token.Pos { return token.Pos(p) }
