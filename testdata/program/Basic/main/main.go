//go:build statum

package main

import "fmt"

// TaskState is the lifecycle of a task.
//
//statum:state derive=Stringer
type TaskState interface {
	Draft()
	InProgress(Progress)
	Done()
}

type Progress struct{ Percent int }

//statum:machine derive=Stringer
type Task[TaskState any] struct {
	Name     string
	Priority int
}

// Start starts working on a draft.
//
//statum:transition
func Start(t Task[Draft], p Progress) Task[InProgress] {
	return TaskToInProgress(t, p)
}

//statum:transition
func Finish(t Task[InProgress]) Task[Done] {
	return TaskToDone(t)
}

func main() {
	draft := NewTaskDraft().Name("write docs").Priority(2).Build()
	fmt.Println(draft.StateName(), draft.IsDraft(), draft.IsDone(), draft.State())

	started := Start(draft, Progress{Percent: 10})
	fmt.Println(started.State().Data().Percent, started.State())

	done := Finish(started)
	fmt.Println(done)

	direct := NewTaskInProgress().Name("review").Priority(1).Data(Progress{Percent: 90}).Build()
	fmt.Println(direct)

	var u UninitializedTask
	fmt.Println(u.StateName())
}
