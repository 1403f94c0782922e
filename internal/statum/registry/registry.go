// Package registry stores parsed state and machine descriptions by scope key
// so that declarations processed independently can find each other.
package registry

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/eboody/statum/internal/scope"
	"github.com/eboody/statum/internal/statum/parse"
)

// Registry maps scope keys to state and machine descriptions. It is safe for
// concurrent use. A store replaces the previous entry of the same key as a
// whole; entries are never merged.
//
// Iteration order is the order in which keys were first stored, so snapshots
// are deterministic for a deterministic sequence of stores.
type Registry struct {
	mu       sync.RWMutex
	states   *linkedhashmap.Map // key: scope.Key, value: *parse.StateInfo
	machines *linkedhashmap.Map // key: scope.Key, value: *parse.MachineInfo
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		states:   linkedhashmap.New(),
		machines: linkedhashmap.New(),
	}
}

// StoreState registers a state under its scope key. It returns the state it
// replaced, if any.
func (r *Registry) StoreState(state *parse.StateInfo) (*parse.StateInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.states.Get(state.Key)
	r.states.Put(state.Key, state)
	if !ok {
		return nil, false
	}
	return prev.(*parse.StateInfo), true
}

// StoreMachine registers a machine under its scope key. It returns the
// machine it replaced, if any.
func (r *Registry) StoreMachine(machine *parse.MachineInfo) (*parse.MachineInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.machines.Get(machine.Key)
	r.machines.Put(machine.Key, machine)
	if !ok {
		return nil, false
	}
	return prev.(*parse.MachineInfo), true
}

// LookupState returns the state stored under the key. It reports false if
// there is none yet.
func (r *Registry) LookupState(key scope.Key) (*parse.StateInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states.Get(key)
	if !ok {
		return nil, false
	}
	return state.(*parse.StateInfo), true
}

// LookupMachine returns the machine stored under the key. It reports false
// if there is none yet.
func (r *Registry) LookupMachine(key scope.Key) (*parse.MachineInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	machine, ok := r.machines.Get(key)
	if !ok {
		return nil, false
	}
	return machine.(*parse.MachineInfo), true
}

// States returns a snapshot of all states.
func (r *Registry) States() []*parse.StateInfo {
	r.mu.RLock()
	values := r.states.Values()
	r.mu.RUnlock()

	states := make([]*parse.StateInfo, len(values))
	for i, v := range values {
		states[i] = v.(*parse.StateInfo)
	}
	return states
}

// Machines returns a snapshot of all machines.
func (r *Registry) Machines() []*parse.MachineInfo {
	r.mu.RLock()
	values := r.machines.Values()
	r.mu.RUnlock()

	machines := make([]*parse.MachineInfo, len(values))
	for i, v := range values {
		machines[i] = v.(*parse.MachineInfo)
	}
	return machines
}

// FindState searches a snapshot for a state with the name in a sibling scope
// of key. A state in key itself wins over siblings.
func (r *Registry) FindState(key scope.Key, name string) (*parse.StateInfo, bool) {
	if state, ok := r.LookupState(key); ok && state.Name == name {
		return state, true
	}
	for _, state := range r.States() {
		if state.Key.SiblingOf(key) && state.Name == name {
			return state, true
		}
	}
	return nil, false
}

// FindMachine searches a snapshot for a machine with the name in a sibling
// scope of key. A machine in key itself wins over siblings.
func (r *Registry) FindMachine(key scope.Key, name string) (*parse.MachineInfo, bool) {
	if machine, ok := r.LookupMachine(key); ok && machine.Name == name {
		return machine, true
	}
	for _, machine := range r.Machines() {
		if machine.Key.SiblingOf(key) && machine.Name == name {
			return machine, true
		}
	}
	return nil, false
}
