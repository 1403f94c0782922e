//go:build statum

package testdata

//statum:state derive=Stringer
type DoorState interface {
	Open()
	Closed()
}

//statum:machine derive=Stringer,JSON
type Door[DoorState any] struct { // want `machine Door derives JSON but its state DoorState does not; derives of DoorState: \[Stringer\]`
	Prev   DoorState // want `field Prev of machine Door cannot depend on the state parameter DoorState; transitions copy fields between states`
	State  string    // want `field State of machine Door collides with the generated method Door.State`
	IsOpen bool      // want `field IsOpen of machine Door collides with the generated method Door.IsOpen`
	Name   string    // ok
}
