package synth

import (
	"strconv"

	"github.com/eboody/statum/internal/statum/parse"
)

// writeState writes the state interface, its payload capabilities, the
// uninitialized marker and one marker type per variant in declared order.
//
//	type TaskState interface {
//		StateName() string
//		isTaskState()
//	}
//
//	type Draft struct{}
//	type InProgress struct{ data Progress }
func (s *Synth) writeState(state *parse.StateInfo) {
	n := namesOfState(state)

	s.writeDoc(state.Doc, "%s is a state with the variants of its marker types.", state.Name)
	s.w.Printf("type %s interface {\n", s.declare(state.Name))
	s.w.Printf("StateName() string\n")
	s.w.Printf("%s()\n", n.sealed())
	s.w.Printf("}\n\n")

	s.w.Printf("// %s is implemented by the variants of %s that carry a payload.\n", n.RequiresPayload(), state.Name)
	s.w.Printf("type %s interface {\n", s.declare(n.RequiresPayload()))
	s.w.Printf("%s\n", state.Name)
	s.w.Printf("%s()\n", n.requiresMark())
	s.w.Printf("}\n\n")

	s.w.Printf("// %s is implemented by the variants of %s without a payload.\n", n.NoPayload(), state.Name)
	s.w.Printf("type %s interface {\n", s.declare(n.NoPayload()))
	s.w.Printf("%s\n", state.Name)
	s.w.Printf("%s()\n", n.noPayloadMark())
	s.w.Printf("}\n\n")

	s.w.Printf("// %s is the %s of a machine that is not built yet.\n", n.Uninitialized(), state.Name)
	s.writeVariant(state, parse.Variant{Name: n.Uninitialized()}, UninitializedName)

	for _, variant := range state.Variants {
		s.writeDoc(variant.Doc, "%s is a variant of %s.", variant.Name, state.Name)
		s.writeVariant(state, variant, variant.Name)
	}
}

// writeVariant writes a marker type and its methods. name is the state name
// the marker reports.
func (s *Synth) writeVariant(state *parse.StateInfo, variant parse.Variant, name string) {
	n := namesOfState(state)
	typ := s.declare(variant.Name)
	recv := s.locals().Name("v")
	quoted := strconv.Quote(name)

	if variant.HasPayload() {
		s.w.Printf("type %s struct{ data %c }\n\n", typ, variant.Payload.X)
		s.w.Printf("// Data returns the payload of %s.\n", name)
		s.w.Printf("func (%s %s) Data() %c { return %s.data }\n\n", recv, typ, variant.Payload.X, recv)
	} else {
		s.w.Printf("type %s struct{}\n\n", typ)
	}

	s.w.Printf("func (%s) StateName() string { return %s }\n", typ, quoted)
	s.w.Printf("func (%s) %s() {}\n", typ, n.sealed())
	if variant.HasPayload() {
		s.w.Printf("func (%s) %s() {}\n", typ, n.requiresMark())
	} else {
		s.w.Printf("func (%s) %s() {}\n", typ, n.noPayloadMark())
	}
	s.w.Printf("\n")

	for _, derive := range state.Derives {
		switch derive {
		case parse.DeriveStringer:
			if variant.HasPayload() {
				s.w.Printf("func (%s %s) String() string { return %s.Sprintf(%s, %s.data) }\n\n", recv, typ, s.fmt, strconv.Quote(name+"(%v)"), recv)
			} else {
				s.w.Printf("func (%s) String() string { return %s }\n\n", typ, quoted)
			}

		case parse.DeriveJSON:
			if variant.HasPayload() {
				s.w.Printf("func (%s %s) MarshalJSON() ([]byte, error) {\n", recv, typ)
				s.w.Printf("return %s.Marshal(struct {\n", s.json)
				s.w.Printf("State string `json:\"state\"`\n")
				s.w.Printf("Data %c `json:\"data\"`\n", variant.Payload.X)
				s.w.Printf("}{%s, %s.data})\n", quoted, recv)
				s.w.Printf("}\n\n")
			} else {
				s.w.Printf("func (%s) MarshalJSON() ([]byte, error) { return %s.Marshal(%s) }\n\n", typ, s.json, quoted)
			}
		}
	}
}
