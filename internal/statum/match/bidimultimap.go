package match

import (
	"iter"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// bidiMultiMap relates keys to values many-to-many. Lookups work in both
// directions and return entries in the order they were first added.
type bidiMultiMap[K, V comparable] struct {
	fwd index[K, V]
	bwd index[V, K]
}

func newBidiMultiMap[K, V comparable]() *bidiMultiMap[K, V] {
	return &bidiMultiMap[K, V]{
		fwd: index[K, V]{linkedhashmap.New()},
		bwd: index[V, K]{linkedhashmap.New()},
	}
}

func (m *bidiMultiMap[K, V]) Has(k K, v V) bool {
	set := m.fwd.set(k, false)
	return set != nil && set.Contains(v)
}

// Add relates k and v. It reports false if they were already related.
func (m *bidiMultiMap[K, V]) Add(k K, v V) bool {
	if m.Has(k, v) {
		return false
	}
	m.fwd.set(k, true).Add(v)
	m.bwd.set(v, true).Add(k)
	return true
}

// Get returns the values related to k.
func (m *bidiMultiMap[K, V]) Get(k K) []V { return m.fwd.list(k) }

// GetKeys returns the keys related to v.
func (m *bidiMultiMap[K, V]) GetKeys(v V) []K { return m.bwd.list(v) }

// All iterates every related pair, grouped by key.
func (m *bidiMultiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := m.fwd.m.Iterator(); it.Next(); {
			for _, v := range m.fwd.list(it.Key().(K)) {
				if !yield(it.Key().(K), v) {
					return
				}
			}
		}
	}
}

// index maps an A to an insertion-ordered set of Bs.
type index[A, B comparable] struct {
	m *linkedhashmap.Map
}

func (ix index[A, B]) set(a A, create bool) *linkedhashset.Set {
	if set, ok := ix.m.Get(a); ok {
		return set.(*linkedhashset.Set)
	}
	if !create {
		return nil
	}
	set := linkedhashset.New()
	ix.m.Put(a, set)
	return set
}

func (ix index[A, B]) list(a A) []B {
	set := ix.set(a, false)
	if set == nil {
		return nil
	}
	bs := make([]B, 0, set.Size())
	for it := set.Iterator(); it.Next(); {
		bs = append(bs, it.Value().(B))
	}
	return bs
}
