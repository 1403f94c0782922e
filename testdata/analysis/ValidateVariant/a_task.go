//go:build statum

package testdata

//statum:state
type TaskState interface {
	Draft() // want `variant Draft of state TaskState collides with Draft declared at`
	Done()
}

type Draft struct{}
