//go:build statum

package testdata

type opener struct{}

//statum:transition
func (opener) Open(d Door[Closed]) Door[Open] { return DoorToOpen(d) } // want `transition Open must be a function taking the machine as its first parameter, not a method`

//statum:transition
func Kick(d *Door[Open]) Door[Closed] { return DoorToClosed(*d) } // want `transition Kick must take the machine by value; got \*Door\[Open\]`

//statum:transition
func Spin(ds ...Door[Open]) Door[Open] { return ds[0] } // want `transition Spin must take the machine as its first parameter; got \.\.\.Door\[Open\]`

//statum:transition
func Wait(d Door[Open]) {} // want `transition Wait must return the machine in its next state`
