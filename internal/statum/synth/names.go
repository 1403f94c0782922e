package synth

import (
	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/validate"
)

// UninitializedName is the state name of a machine that is not built yet.
const UninitializedName = "Uninitialized"

// stateNames adds the sealing methods of a state to its package-level names.
// Sealing methods are always unexported.
type stateNames struct{ validate.StateNames }

func namesOfState(state *parse.StateInfo) stateNames {
	return stateNames{validate.StateNames{StateInfo: state}}
}

func (n stateNames) sealed() string       { return codefmt.Join("is", n.Name) }
func (n stateNames) requiresMark() string { return codefmt.Join("requires", n.Name, "Payload") }
func (n stateNames) noPayloadMark() string {
	return codefmt.Join("no", n.Name, "Payload")
}

// machineNames adds the sealing methods of a machine to its package-level
// names.
type machineNames struct{ validate.MachineNames }

func namesOfMachine(m *validate.Machine) machineNames {
	return machineNames{validate.MachineNames{Machine: m}}
}

// edgeMark is the sealed method a source variant implements for each target
// it can transition to.
func (n machineNames) edgeMark(variant string) string {
	return codefmt.Exported(false, codefmt.Join(n.Name, "TransitionTo", variant))
}

func (n machineNames) superMark() string {
	return codefmt.Exported(false, codefmt.Join(n.Name, "SuperState"))
}
