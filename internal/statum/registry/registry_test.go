package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eboody/statum/internal/scope"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/registry"
)

func state(key scope.Key, name string, variants ...string) *parse.StateInfo {
	s := &parse.StateInfo{Key: key, Name: name}
	for _, v := range variants {
		s.Variants = append(s.Variants, parse.Variant{Name: v})
	}
	return s
}

func TestLookupMissing(t *testing.T) {
	r := registry.New()

	_, ok := r.LookupState("example.com/p#a")
	assert.False(t, ok)
	_, ok = r.LookupMachine("example.com/p#a")
	assert.False(t, ok)
	assert.Empty(t, r.States())
}

func TestStoreStateLastWriteWins(t *testing.T) {
	r := registry.New()
	key := scope.Key("example.com/p#a")

	first := state(key, "First", "A", "B")
	second := state(key, "Second", "C")

	_, replaced := r.StoreState(first)
	assert.False(t, replaced)

	prev, replaced := r.StoreState(second)
	assert.True(t, replaced)
	assert.Same(t, first, prev)

	got, ok := r.LookupState(key)
	require.True(t, ok)
	assert.Same(t, second, got, "only the second description is visible")
	assert.Equal(t, []string{"C"}, got.VariantNames(), "descriptions are not merged")
	assert.Len(t, r.States(), 1)
}

func TestStoreMachine(t *testing.T) {
	r := registry.New()
	m := &parse.MachineInfo{Key: "example.com/p#a", Name: "M"}
	r.StoreMachine(m)

	got, ok := r.LookupMachine("example.com/p#a")
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, []*parse.MachineInfo{m}, r.Machines())
}

func TestFindSibling(t *testing.T) {
	r := registry.New()
	a := state("example.com/p#a", "TaskState", "Draft")
	b := state("example.com/p#b", "OrderState", "Open")
	other := state("example.com/q#b", "OrderState", "Open")
	r.StoreState(a)
	r.StoreState(other)
	r.StoreState(b)

	got, ok := r.FindState("example.com/p#a", "TaskState")
	require.True(t, ok)
	assert.Same(t, a, got)

	got, ok = r.FindState("example.com/p#a", "OrderState")
	require.True(t, ok)
	assert.Same(t, b, got, "siblings are searched within the package only")

	_, ok = r.FindState("example.com/p#a", "Missing")
	assert.False(t, ok)

	m := &parse.MachineInfo{Key: "example.com/p#b", Name: "OrderMachine"}
	r.StoreMachine(m)
	gotM, ok := r.FindMachine("example.com/p#a", "OrderMachine")
	require.True(t, ok)
	assert.Same(t, m, gotM)
}

func TestSnapshotOrder(t *testing.T) {
	r := registry.New()
	for i := range 5 {
		r.StoreState(state(scope.Key(fmt.Sprintf("p#%d", i)), fmt.Sprint(i)))
	}
	r.StoreState(state("p#1", "replaced"))

	var names []string
	for _, s := range r.States() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"0", "replaced", "2", "3", "4"}, names)
}

// TestConcurrentAccess races stores, lookups and snapshots. Run it with -race.
func TestConcurrentAccess(t *testing.T) {
	r := registry.New()
	const n = 64

	var wg sync.WaitGroup
	for i := range n {
		key := scope.Key(fmt.Sprintf("example.com/p#%d", i%8))
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.StoreState(state(key, fmt.Sprint(i), "A"))
			r.StoreMachine(&parse.MachineInfo{Key: key, Name: fmt.Sprint(i)})
		}()
		go func() {
			defer wg.Done()
			if s, ok := r.LookupState(key); ok {
				// Entries are never observed half-written.
				assert.Equal(t, []string{"A"}, s.VariantNames())
			}
			r.FindMachine(key, "0")
		}()
		go func() {
			defer wg.Done()
			for _, s := range r.States() {
				assert.NotNil(t, s)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, r.States(), 8)
	assert.Len(t, r.Machines(), 8)
}
