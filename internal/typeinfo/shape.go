package typeinfo

import (
	"go/ast"
	"slices"
)

// Wrapper is a kind of layer wrapping a value in a function result.
type Wrapper int

const (
	// Direct is no wrapper: T.
	Direct Wrapper = iota
	// Pointer is an optional value: *T.
	Pointer
	// ErrorPair is a fallible result: (T, error).
	ErrorPair
	// OKPair is an optional result: (T, bool).
	OKPair
	// Generic is a generic wrapper type: Result[T], Option[T] and so on.
	Generic
)

func (w Wrapper) String() string {
	switch w {
	case Direct:
		return "direct"
	case Pointer:
		return "pointer"
	case ErrorPair:
		return "(T, error)"
	case OKPair:
		return "(T, bool)"
	case Generic:
		return "generic wrapper"
	}
	return "unknown"
}

// GenericWrappers are the names of generic types recognized as optional or
// result-like wrappers, regardless of their package.
var GenericWrappers = []string{"Result", "Option", "Optional", "Maybe"}

// Shape is a value type peeled from a function result.
type Shape struct {
	Type    Type
	Wrapper Wrapper
}

// Results returns the shape of function results as written, without peeling
// any wrapper. It reports false unless there is exactly one result.
func Results(results []Type) (Shape, bool) {
	if len(results) != 1 {
		return Shape{}, false
	}
	return Shape{results[0], Direct}, true
}

// Peel removes exactly one wrapper layer from function results. It reports
// false if the results are not wrapped in any known way.
//
//	*T            => T (Pointer)
//	(T, error)    => T (ErrorPair)
//	(T, bool)     => T (OKPair)
//	pkg.Result[T] => T (Generic)
func Peel(results []Type) (Shape, bool) {
	switch len(results) {
	case 1:
		t := results[0]
		if star, ok := ast.Unparen(t.X).(*ast.StarExpr); ok {
			return Shape{t.With(star.X), Pointer}, true
		}
		if inst, ok := t.Instance(); ok && len(inst.Args) == 1 && slices.Contains(GenericWrappers, inst.Name) {
			return Shape{t.With(inst.Args[0]), Generic}, true
		}

	case 2:
		switch {
		case results[1].IsError():
			return Shape{results[0], ErrorPair}, true
		case results[1].IsBool():
			return Shape{results[0], OKPair}, true
		}
	}
	return Shape{}, false
}

// Depth counts how many wrapper layers can be peeled from the results until
// match reports true. It returns -1 if no layer matches.
func Depth(results []Type, match func(Type) bool) int {
	for depth := 0; ; depth++ {
		if shape, ok := Results(results); ok && match(shape.Type) {
			return depth
		}
		shape, ok := Peel(results)
		if !ok {
			return -1
		}
		results = []Type{shape.Type}
	}
}
