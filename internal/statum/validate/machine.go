package validate

import (
	"errors"
	"slices"
	"strings"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/typeinfo"
)

// MachineMethods are the methods generated on every machine regardless of
// its state. Is<Variant> methods are generated too.
var MachineMethods = []string{"State", "StateName", "String", "MarshalJSON"}

func (v *Validator) validateMachine(info *parse.MachineInfo) (*Machine, error) {
	state, err := v.pair(info)
	if err != nil {
		return nil, err
	}

	var errs error
	for _, derive := range info.Derives {
		if !slices.Contains(state.Derives, derive) {
			errs = errors.Join(errs, codefmt.Errorf(v, info, "machine %s derives %s but its state %s does not; derives of %s: [%s]", info.Name, derive, state.Name, state.Name, strings.Join(state.Derives, ", ")))
		}
	}

	methods := slices.Clone(MachineMethods)
	for _, variant := range state.Variants {
		methods = append(methods, parse.PredicatePrefix+variant.Name)
	}
	param := info.StateParam().Name
	for _, field := range info.Fields {
		if typeinfo.Mentions(field.Type.X, param) {
			errs = errors.Join(errs, codefmt.Errorf(v, field.Type, "field %s of machine %s cannot depend on the state parameter %s; transitions copy fields between states", field.Name, info.Name, param))
		}
		if slices.Contains(methods, field.Name) {
			errs = errors.Join(errs, codefmt.Errorf(v, field, "field %s of machine %s collides with the generated method %s.%s", field.Name, info.Name, info.Name, field.Name))
		}
	}

	if errs != nil {
		return nil, errs
	}
	return &Machine{MachineInfo: info, State: state}, nil
}

// pair finds the state of a machine. The state is named after the first type
// parameter of the machine. It is found in the scope of the machine or in a
// sibling scope.
func (v *Validator) pair(info *parse.MachineInfo) (*parse.StateInfo, error) {
	param := info.StateParam()
	if state, ok := v.reg.FindState(info.Key, param.Name); ok {
		return state, nil
	}

	if state, ok := v.reg.LookupState(info.Key); ok {
		return nil, codefmt.Errorf(v, param, "machine %s must be parameterized by its state first: expected %s[%s ...], found %s[%s ...]", info.Name, info.Name, state.Name, info.Name, param.Name)
	}
	return nil, codefmt.Errorf(v, param, "cannot find state %s for machine %s; declare it with //statum:state in this package", param.Name, info.Name)
}
