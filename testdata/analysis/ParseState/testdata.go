//go:build statum

package testdata

//statum:state
type Generic[T any] interface{ A() } // want `state Generic must not have type parameters`

//statum:state
type Alias = interface{ A() } // want `state Alias must be a defined interface type, not an alias`

//statum:state
type NotInterface struct{} // want `state NotInterface must be an interface listing its variants as methods; got struct\{\}`

//statum:state
type Empty interface{} // want `state Empty has no variants; declare at least one variant method`

//statum:state
type Embeds interface {
	error // want `state Embeds cannot embed error; list its variants as methods`
}

//statum:state
type Returns interface {
	A() int // want `variant A of state Returns must not return anything`
}

//statum:state
type TwoPayloads interface {
	A(int, string) // want `variant A of state TwoPayloads has 2 payloads`
}

//statum:state
type Variadic interface {
	A(...int) // want `variant A of state Variadic cannot take a variadic payload; use \[\]int`
}

//statum:state
type Duplicate interface {
	A()
	A() // want `duplicate variant A in state Duplicate`
}

//statum:state
type Fine interface { // ok
	Draft()
	InProgress(int)
}
