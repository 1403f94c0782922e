//go:build statum

package testdata

//statum:machine
type Fan[FanState any] struct{} // want `cannot find state FanState for machine Fan; declare it with //statum:state in this package`
