//go:build statum

package main

import "errors"

//statum:state
type TaskState interface {
	Draft()
	InProgress(int)
	Done()
}

//statum:machine
type Task[TaskState any] struct{}

//statum:validators Task
type Row struct{ Status string }

func (r Row) IsDraft() error { return errors.New("no") }

func (r Row) IsInProgress() (int, error) { return 0, errors.New("no") }

func main() {}
