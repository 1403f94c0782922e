package codefmt

import (
	"fmt"
	"go/token"
)

// CodeError is an error at a position in the user's source code. Analyzers
// report it as a diagnostic at Pos.
type CodeError struct {
	err  error
	pos  token.Pos
	end  token.Pos
	fset *token.FileSet
}

// Unwrap returns the message without the position.
func (e CodeError) Unwrap() error { return e.err }

// Pos returns the position where the error occurred. It may be invalid.
func (e CodeError) Pos() token.Pos { return e.pos }

// End returns the end position of the error. It may be invalid.
func (e CodeError) End() token.Pos { return e.end }

// Position resolves Pos against the file set of the package.
func (e CodeError) Position() token.Position {
	if e.fset == nil || !e.pos.IsValid() {
		return token.Position{}
	}
	return e.fset.Position(e.pos)
}

// Error prefixes the message with the position if it is known.
func (e CodeError) Error() string {
	if e.err == nil {
		return ""
	}
	pos := e.Position()
	if !pos.IsValid() {
		return e.err.Error()
	}
	return FormatPosition(pos) + ": " + e.err.Error()
}

// Errorf formats a [CodeError] at the position of poser, which may be nil.
// Format verbs are those of [Formatter.Sprintf]. Errors cannot be wrapped
// with %w: a CodeError is a leaf of joined errors.
func (f Formatter) Errorf(poser Poser, format string, args ...any) error {
	for _, arg := range args {
		if _, ok := arg.(error); ok {
			panic("CodeError cannot wrap error")
		}
	}

	var pos, end token.Pos
	if poser != nil {
		pos = poser.Pos()
		if ender, ok := poser.(Ender); ok {
			end = ender.End()
		}
	}
	return &CodeError{fmt.Errorf(format, f.wrap(args)...), pos, end, f.Fset}
}

// Errorf is [Formatter.Errorf] with the formatter of the package of pkger.
func Errorf(pkger Pkger, poser Poser, format string, args ...any) error {
	if pkger == nil {
		return Formatter{}.Errorf(poser, format, args...)
	}
	return New(pkger.Pkg()).Errorf(poser, format, args...)
}
