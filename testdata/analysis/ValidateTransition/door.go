//go:build statum

package testdata

//statum:state
type DoorState interface {
	Open()
	Closed()
	Locked(int)
}

//statum:machine
type Door[DoorState any] struct{ Name string }

//statum:transition
func Close(d Door[Open]) Door[Closed] { return DoorToClosed(d) } // ok

//statum:transition
func Lock(d Door[Closed], code int) (Door[Locked], error) { return DoorToLocked(d, code), nil } // ok

//statum:transition
func Jam(d Door[Open]) (*Door[Closed], error) { return nil, nil } // want `result of transition Jam is nested more than one level`

//statum:transition
func Slam(d Door[Opne]) Door[Closed] { return Door[Closed]{} } // want `Opne is not a variant of state DoorState`

//statum:transition
func Fold(d Door[Open, int]) Door[Closed] { return Door[Closed]{} } // want `Door\[Open, int\] must have 1 type arguments like its declaration Door`

//statum:transition
func Paint(d Door[Open]) string { return "" } // want `transition Paint must return Door in its next state; got string`

//statum:transition
func Warp(d Door[Open]) Window[Shut] { return Window[Shut]{} } // want `transition Warp must return Door, the machine it takes`

//statum:transition
func Haunt(g Ghost[Open]) Ghost[Closed] { return Ghost[Closed]{} } // want `cannot find machine Ghost for transition Haunt`
