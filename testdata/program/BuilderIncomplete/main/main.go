//go:build statum

package main

import "fmt"

//statum:state
type TaskState interface {
	Draft()
}

//statum:machine
type Task[TaskState any] struct {
	Name     string
	Priority int
}

func main() {
	// Build is only reachable after every field is set.
	fmt.Println(NewTaskDraft().Name("x").Build())
}
