//go:build statum

package main

import "fmt"

//statum:state
type TaskState interface {
	Draft()
	InProgress()
	Done()
}

//statum:machine
type Task[TaskState any] struct{}

//statum:transition
func Start(t Task[Draft]) Task[InProgress] { return TaskToInProgress(t) }

//statum:transition
func Finish(t Task[InProgress]) Task[Done] { return TaskToDone(t) }

func main() {
	// Only InProgress can transition to Done.
	fmt.Println(TaskToDone(NewTaskDraft().Build()).StateName())
}
