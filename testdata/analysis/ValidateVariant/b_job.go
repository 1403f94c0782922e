//go:build statum

package testdata

//statum:state
type JobState interface {
	Queued()
	Done() // want `variant Done of state JobState collides with variant Done of state TaskState`
}
