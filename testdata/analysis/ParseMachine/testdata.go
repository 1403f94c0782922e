//go:build statum

package testdata

//statum:machine
type NoParams struct{} // want `machine NoParams must have at least one type parameter for its state, like NoParams\[State any\]`

//statum:machine
type NotStruct[S any] int // want `machine NotStruct must be a struct type; got int`

type Base struct{}

//statum:machine
type Embedded[S any] struct {
	Base // want `machine Embedded cannot embed Base; give the field a name`
}

//statum:machine
type Reserved[S any] struct {
	stateData int // want `field name stateData is reserved for the state of machine Reserved`
}

//statum:machine
type Blank[S any] struct {
	_ int // want `machine Blank cannot have blank fields`
}

//statum:machine
type Duplicate[S any] struct {
	A int
	A string // want `duplicate field A in machine Duplicate`
}
