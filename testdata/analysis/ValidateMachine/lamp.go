//go:build statum

package testdata

//statum:state
type LampState interface {
	On()
	Off()
}

//statum:machine
type Lamp[Power any] struct{} // want `machine Lamp must be parameterized by its state first: expected Lamp\[LampState \.\.\.\], found Lamp\[Power \.\.\.\]`
