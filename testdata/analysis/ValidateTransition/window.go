//go:build statum

package testdata

//statum:state
type WindowState interface {
	Shut()
	Ajar()
}

//statum:machine
type Window[WindowState any] struct{}
