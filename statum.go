// Package statum is the runtime of typestate code generated by statum.
//
// Statum turns a few declarations into a typestate machine: a generic struct
// whose type argument is its current state, so calling a transition from the
// wrong state is a compile error rather than a runtime check.
//
// To start with statum, add a build constraint to files containing statum
// directives:
//
//	//go:build statum
//
// A state is an interface listing its variants as methods. A variant without
// parameters is a unit, and a variant with one parameter carries a payload:
//
//	//statum:state derive=Stringer
//	type TaskState interface {
//		Draft()
//		InProgress(Progress)
//		Done()
//	}
//
// A machine is a generic struct parameterized by its state first:
//
//	//statum:machine
//	type TaskMachine[TaskState any] struct {
//		Name string
//	}
//
// A transition is a function taking the machine in one state and returning
// it in another. It moves the machine with the generated To functions, which
// only accept the source states declared by transitions:
//
//	//statum:transition
//	func Start(m TaskMachine[Draft], p Progress) TaskMachine[InProgress] {
//		return TaskMachineToInProgress(m, p)
//	}
//
// After declaring them, run the statum command. It generates statum_gen.go
// for your package with the marker types, the machine container, a staged
// builder per state and the transition constraints:
//
//	go run github.com/eboody/statum/cmd/statum
//
//	// generated: (simplified)
//	m := NewTaskMachineDraft().Name("write docs").Build()
//	m2 := Start(m, Progress{Percent: 10}) // TaskMachine[InProgress]
//	Start(m2, Progress{})                 // compile error
//
// # Validators
//
// Persisted data does not know its typestate. A validators block classifies
// a domain value into a machine by one predicate per variant:
//
//	//statum:validators TaskMachine
//	type TaskRow struct{ Status string }
//
//	func (r TaskRow) IsDraft() error { ... }
//	func (r TaskRow) IsInProgress() (Progress, error) { ... }
//	func (r TaskRow) IsDone() error { ... }
//
// The generated TaskRow.ToTaskMachine tries the predicates in the declared
// order of the variants and returns the first match as a
// TaskMachineSuperState, or [ErrInvalidState] if none matches. This package
// holds what generated classifiers share: the errors, [Result] and the
// batch helpers [Batch] and [BatchContext].
package statum

import (
	"context"
	"errors"
	"sync"
)

// ErrInvalidState is returned when a domain value matches no state of a
// machine.
var ErrInvalidState = errors.New("statum: invalid state")

// Rejection is the error of a predicate that rejected a domain value while
// classifying it into one specific state. It matches [ErrInvalidState] with
// errors.Is, and unwraps to the predicate's error.
type Rejection struct {
	Err error
}

// Reject wraps the error of a predicate. It returns nil if err is nil.
func Reject(err error) error {
	if err == nil {
		return nil
	}
	return &Rejection{Err: err}
}

func (r *Rejection) Error() string {
	return "statum: invalid state: " + r.Err.Error()
}

func (r *Rejection) Unwrap() error { return r.Err }

// Is reports whether target is [ErrInvalidState].
func (r *Rejection) Is(target error) bool {
	return target == ErrInvalidState
}

// Result is the outcome of classifying one value of a batch.
type Result[T any] struct {
	Value T
	Err   error
}

// Get returns the value and the error.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// Batch applies fn to every item in order. The result at index i is the
// outcome of the item at index i. An error does not stop the batch.
func Batch[T, R any](items []T, fn func(T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	for i, item := range items {
		value, err := fn(item)
		results[i] = Result[R]{value, err}
	}
	return results
}

// BatchContext applies fn to every item concurrently and waits for all of
// them. The result at index i is the outcome of the item at index i,
// regardless of completion order. An error does not cancel the other items;
// fn decides what a canceled ctx means for its item.
func BatchContext[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		go func() {
			defer wg.Done()
			value, err := fn(ctx, item)
			results[i] = Result[R]{value, err}
		}()
	}
	wg.Wait()
	return results
}
