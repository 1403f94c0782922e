//go:build statum

package testdata

import "context"

//statum:state
type TaskState interface {
	Draft()
	InProgress(int)
	Done()
}

//statum:machine
type Task[TaskState any] struct {
	Name string
}

//statum:validators Task
type Row struct{ Status string }

func (r Row) IsDraft() (int, error) { return 0, nil } // want `predicate IsDraft must return error because variant Draft has no payload; got \(int, error\)`

func (r Row) IsInProgress(ctx context.Context, name string, extra int) (int, error) { // want `parameters of predicate IsInProgress must be empty or the fields of Task: expected \(string\), found \(string, int\)`
	return 0, nil
}

func (r Row) IsDone() error { return nil } // ok

func (r Row) ToTask() {} // want `method ToTask of Row collides with a method generated for validators of Task`
