// Package synth writes the Go code of validated statum declarations: state
// markers, machine containers and builders, transition constraints and
// validator classifiers.
package synth

import (
	"go/ast"
	"slices"
	"strings"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/validate"
)

// RuntimePath is the import path of the package generated code depends on.
const RuntimePath = "github.com/eboody/statum"

// Synth writes the code of one package. Imports of generated code are
// registered on the writer up front, so that local names never shadow them.
type Synth struct {
	w   *codefmt.Writer
	res *validate.Result

	// Import names. They are empty if the import is not needed.
	json, fmt, context, statum string

	supers map[*validate.Machine]bool
}

// New creates a [Synth] writing to w. Call [codefmt.Writer.ImportFile] for
// the source files before New so that their imports take precedence.
func New(w *codefmt.Writer, res *validate.Result) *Synth {
	s := &Synth{w: w, res: res, supers: make(map[*validate.Machine]bool)}

	var derives []string
	for _, state := range res.States {
		derives = append(derives, state.Derives...)
	}
	for _, m := range res.Machines {
		derives = append(derives, m.Derives...)
	}

	if slices.Contains(derives, parse.DeriveJSON) {
		s.json = w.Import("encoding/json", "")
	}
	if slices.Contains(derives, parse.DeriveStringer) {
		s.fmt = w.Import("fmt", "")
	}
	if len(res.Validators) != 0 {
		s.statum = w.Import(RuntimePath, "")
	}
	for _, vs := range res.Validators {
		if vs.Async {
			s.context = w.Import("context", "")
			break
		}
	}
	return s
}

// Write writes the code of every declaration: states first, then machines
// with their transitions, then validators. Each group is in source order.
func (s *Synth) Write() {
	for _, state := range s.res.States {
		s.w.Printf("// statum: state %s\n\n", state.Name)
		s.writeState(state)
	}
	for _, m := range s.res.Machines {
		s.w.Printf("// statum: machine %s\n\n", m.Name)
		s.writeMachine(m)
		s.writeTransitions(m, s.res.Graphs[m.Name])
	}
	for _, vs := range s.res.Validators {
		s.w.Printf("// statum: validators %s of %s\n\n", vs.Type, vs.Machine.Name)
		s.writeValidators(vs)
	}
}

// locals returns a namespace for the local names of a generated function.
// Package-level names and imports are reserved in it.
func (s *Synth) locals() codefmt.NS {
	ns := s.w.NS().Clone()
	for name := range s.w.Imports() {
		ns.Reserve(name)
	}
	return ns
}

// declare reserves a generated package-level name.
func (s *Synth) declare(name string) string {
	s.w.Reserve(name)
	return name
}

// writeDoc writes the doc comment of a user declaration, or the fallback if
// it has none.
func (s *Synth) writeDoc(doc *ast.CommentGroup, fallback string, args ...any) {
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		s.w.Printf("// "+fallback+"\n", args...)
		return
	}
	for line := range strings.SplitSeq(text, "\n") {
		if line == "" {
			s.w.Printf("//\n")
		} else {
			s.w.Printf("// %s\n", line)
		}
	}
}
