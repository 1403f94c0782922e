//go:build statum

package main

import (
	"errors"
	"fmt"
)

//statum:state
type DoorState interface {
	Open()
	Closed()
	Locked(int)
}

//statum:machine
type Door[DoorState any] struct{ Name string }

type Result[T any] struct {
	Value T
	Err   error
}

//statum:transition
func Close(d Door[Open]) *Door[Closed] {
	closed := DoorToClosed(d)
	return &closed
}

//statum:transition
func Lock(d Door[Closed], code int) (Door[Locked], error) {
	if code < 1000 {
		return Door[Locked]{}, errors.New("code too short")
	}
	return DoorToLocked(d, code), nil
}

//statum:transition
func Unlock(d Door[Locked], code int) (Door[Closed], bool) {
	if d.State().Data() != code {
		return Door[Closed]{}, false
	}
	return DoorToClosed(d), true
}

//statum:transition
func Force(d Door[Locked]) Result[Door[Open]] {
	return Result[Door[Open]]{Value: DoorToOpen(d)}
}

func main() {
	closed := Close(NewDoorOpen().Name("front").Build())
	fmt.Println(closed.StateName())

	if _, err := Lock(*closed, 12); err != nil {
		fmt.Println("lock:", err)
	}
	locked, _ := Lock(*closed, 1234)
	fmt.Println(locked.StateName(), locked.State().Data())

	if _, ok := Unlock(locked, 1); !ok {
		fmt.Println("wrong code")
	}
	again, _ := Unlock(locked, 1234)
	fmt.Println(again.StateName(), again.Name)

	forced := Force(locked)
	fmt.Println(forced.Value.StateName(), forced.Err)
}
