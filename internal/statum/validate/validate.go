// Package validate checks the declarations of a package against each other
// and against the registry, and resolves the references between them.
package validate

import (
	"errors"
	"go/ast"
	"go/token"
	"iter"

	"golang.org/x/tools/go/packages"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/statum/match"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/registry"
	"github.com/eboody/statum/internal/typeinfo"
)

// Machine is a machine paired with its state.
type Machine struct {
	*parse.MachineInfo
	State *parse.StateInfo
}

// Transition is a transition whose machine and variants are resolved.
type Transition struct {
	*parse.TransitionSpec
	Machine  *Machine
	From, To parse.Variant

	// Wrapper is the layer around the returned machine.
	Wrapper typeinfo.Wrapper
}

// Validators is a validators block whose machine is resolved and whose
// predicates cover the variants of the state one to one.
type Validators struct {
	*parse.ValidatorsSpec
	Machine *Machine

	// Predicates are in the declared order of the variants, which is the
	// order of classification.
	Predicates []parse.Predicate

	// Async is true if any predicate takes a context.
	Async bool

	// PointerRecv is true if any predicate has a pointer receiver.
	PointerRecv bool
}

// Result is a package whose declarations are all consistent.
type Result struct {
	States      []*parse.StateInfo
	Machines    []*Machine
	Transitions []*Transition
	Validators  []*Validators

	// Graphs are the transition edges by machine name.
	Graphs map[string]*match.Graph
}

// Validator validates the declarations of one package. The registry must
// hold the states and machines of every loaded package.
type Validator struct {
	p   *parse.Parser
	reg *registry.Registry
}

// New creates a validator.
func New(p *parse.Parser, reg *registry.Registry) *Validator {
	return &Validator{p: p, reg: reg}
}

func (v *Validator) Pkg() *packages.Package { return v.p.Pkg() }

// Validate validates and resolves the declarations. It collects all errors
// instead of stopping at the first error. Declarations that depend on an
// invalid declaration are skipped silently because the invalid one is
// already reported.
func (v *Validator) Validate(decls *parse.Decls) (*Result, error) {
	res := &Result{Graphs: make(map[string]*match.Graph)}
	var errs error

	declared := userNames(v.Pkg().Syntax, decls)
	states, err := v.validateStates(decls, declared)
	errs = errors.Join(errs, err)
	res.States = states

	valid := make(map[*parse.StateInfo]bool, len(states))
	for _, state := range states {
		valid[state] = true
	}

	machines := make(map[*parse.MachineInfo]*Machine)
	for _, info := range decls.Machines {
		if stored, _ := v.reg.LookupMachine(info.Key); stored != info {
			errs = errors.Join(errs, codefmt.Errorf(v, info, "machine %s is shadowed by machine %s in the same scope; declare one machine per file", info.Name, stored.Name))
			continue
		}

		machine, err := v.validateMachine(info)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if !valid[machine.State] {
			// The state is invalid and already reported.
			continue
		}

		machines[info] = machine
		res.Machines = append(res.Machines, machine)
		res.Graphs[machine.Name] = match.NewGraph()
	}

	for _, spec := range decls.Transitions {
		t, err := v.validateTransition(spec, machines)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if t == nil {
			continue
		}
		res.Transitions = append(res.Transitions, t)
		res.Graphs[t.Machine.Name].Add(t.From.Name, t.To.Name)
	}

	for _, spec := range decls.Validators {
		vs, err := v.validateValidators(spec, machines)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if vs != nil {
			res.Validators = append(res.Validators, vs)
		}
	}

	if errs == nil {
		// Names are only complete once every declaration is valid.
		errs = v.checkNames(res, declared)
	}
	return res, errs
}

// userNames maps the package-level names of user declarations that stay in
// the package to their positions. States and machines are replaced by
// generated code, so their names are not included.
func userNames(files []*ast.File, decls *parse.Decls) map[string]token.Pos {
	replaced := make(map[token.Pos]bool)
	for _, state := range decls.States {
		replaced[state.Spec.Name.Pos()] = true
	}
	for _, machine := range decls.Machines {
		replaced[machine.Spec.Name.Pos()] = true
	}
	declared := make(map[string]token.Pos)
	for id := range topLevelIdents(files) {
		if !replaced[id.Pos()] {
			declared[id.Name] = id.Pos()
		}
	}
	return declared
}

// validateStates drops shadowed states and checks that variant marker names
// are free in the package.
func (v *Validator) validateStates(decls *parse.Decls, declared map[string]token.Pos) ([]*parse.StateInfo, error) {
	var errs error
	var states []*parse.StateInfo

	variants := make(map[string]*parse.StateInfo)
	for _, state := range decls.States {
		if stored, _ := v.reg.LookupState(state.Key); stored != state {
			errs = errors.Join(errs, codefmt.Errorf(v, state, "state %s is shadowed by state %s in the same scope; declare one state per file", state.Name, stored.Name))
			continue
		}

		var stateErrs error
		for _, variant := range state.Variants {
			if pos, ok := declared[variant.Name]; ok {
				stateErrs = errors.Join(stateErrs, codefmt.Errorf(v, variant, "variant %s of state %s collides with %s declared at %b", variant.Name, state.Name, variant.Name, pos))
				continue
			}
			if other, ok := variants[variant.Name]; ok {
				stateErrs = errors.Join(stateErrs, codefmt.Errorf(v, variant, "variant %s of state %s collides with variant %s of state %s", variant.Name, state.Name, variant.Name, other.Name))
				continue
			}
			variants[variant.Name] = state
		}

		if stateErrs != nil {
			errs = errors.Join(errs, stateErrs)
			continue
		}
		states = append(states, state)
	}
	return states, errs
}

// topLevelIdents yields the identifiers of package-level declarations.
func topLevelIdents(files []*ast.File) iter.Seq[*ast.Ident] {
	return func(yield func(*ast.Ident) bool) {
		for _, file := range files {
			for _, decl := range file.Decls {
				switch decl := decl.(type) {
				case *ast.FuncDecl:
					if decl.Recv == nil && !yield(decl.Name) {
						return
					}
				case *ast.GenDecl:
					for _, spec := range decl.Specs {
						switch spec := spec.(type) {
						case *ast.TypeSpec:
							if !yield(spec.Name) {
								return
							}
						case *ast.ValueSpec:
							for _, name := range spec.Names {
								if name.Name != "_" && !yield(name) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}
