//go:build statum

package main

import "fmt"

//statum:state derive=Stringer
type CacheState interface {
	Cold()
	Warm()
}

//statum:machine
type Cache[CacheState any, K comparable, V any] struct {
	Entries map[K]V
}

//statum:transition
func Fill[K comparable, V any](c Cache[Cold, K, V], k K, v V) Cache[Warm, K, V] {
	c.Entries[k] = v
	return CacheToWarm(c)
}

func main() {
	cold := NewCacheCold[string, int]().Entries(map[string]int{}).Build()
	fmt.Println(cold.StateName(), len(cold.Entries))

	warm := Fill(cold, "a", 1)
	fmt.Println(warm.StateName(), warm.State(), warm.IsWarm(), warm.Entries["a"])
}
