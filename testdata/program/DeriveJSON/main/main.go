//go:build statum

package main

import (
	"encoding/json"
	"fmt"
)

//statum:state derive=JSON
type OrderState interface {
	Pending()
	Shipped(Tracking)
}

type Tracking struct {
	Carrier string `json:"carrier"`
	Code    string `json:"code"`
}

//statum:machine derive=JSON
type Order[OrderState any] struct {
	ID    int `json:"id"`
	Items []string
	note  string
}

//statum:transition
func Ship(o Order[Pending], t Tracking) Order[Shipped] {
	return OrderToShipped(o, t)
}

func main() {
	pending := NewOrderPending().ID(7).Items([]string{"book"}).note("fragile").Build()
	b, _ := json.Marshal(pending)
	fmt.Println(string(b))

	shipped := Ship(pending, Tracking{Carrier: "ups", Code: "1Z"})
	b, _ = json.Marshal(shipped)
	fmt.Println(string(b))

	// Unexported fields are kept but not encoded.
	fmt.Println(shipped.note)
}
