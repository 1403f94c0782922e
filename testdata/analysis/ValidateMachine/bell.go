//go:build statum

package testdata

//statum:state
type BellState interface{ Ring() }

//statum:machine
type Bell[BellState any] struct{} // want `machine Bell is shadowed by machine Chime in the same scope; declare one machine per file`

//statum:machine
type Chime[BellState any] struct{}
