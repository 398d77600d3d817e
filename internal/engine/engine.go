// Package engine implements a demand-driven, dependency-tracking memoization
// cache. It has no notion of modules, sources, or compilers: callers register
// compute functions under a query name and demand values by key. Everything
// downstream (internal/db) is a client of this package.
package engine

import (
	"fmt"
	"reflect"
)

// Revision is a monotonically increasing logical clock. It advances exactly
// once per input mutation (SetInput).
type Revision uint64

// Key identifies a single memoized cell: a query name plus an arbitrary,
// comparable key value.
type Key struct {
	Query string
	Arg   any
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%v)", k.Query, k.Arg)
}

// CycleError is returned when a demand chain re-enters a key that is already
// on the active computation stack.
type CycleError struct {
	Stack []Key
}

func (e *CycleError) Error() string {
	s := "cycle detected:"
	for _, k := range e.Stack {
		s += " -> " + k.String()
	}
	return s
}

type entry struct {
	value      any
	err        error
	changedAt  Revision
	verifiedAt Revision
	deps       []Key
	isInput    bool
}

// Compute produces the value for a derived query's key. It must read other
// values only through Engine.Demand so that the engine can record the read
// set; it must not retain db across calls.
type Compute func(e *Engine, key Key) (any, error)

// Engine is a single logical database: one owner, one revision counter, one
// cache. It is not safe for concurrent use — the whole point of the design
// this implements is that a single top-level demand observes one fixed
// revision, so all mutation and demand happens from one goroutine.
type Engine struct {
	revision Revision
	cache    map[Key]*entry
	computes map[string]Compute
	stack    []Key
	stackSet map[Key]bool
	readLog  [][]Key
}

// New returns an empty engine with the given derived-query registry. Query
// names not present in computes are assumed to be input queries and must be
// populated via SetInput before being demanded; demanding one that was never
// set returns an error.
func New(computes map[string]Compute) *Engine {
	return &Engine{
		cache:    make(map[Key]*entry),
		computes: computes,
		stackSet: make(map[Key]bool),
	}
}

// SetInput assigns an input cell, advancing the revision counter. It is the
// only way a value enters the engine other than derivation.
func (e *Engine) SetInput(key Key, value any) {
	e.revision++
	old, ok := e.cache[key]
	if ok && equalValues(old.value, value) {
		old.verifiedAt = e.revision
		old.value = value
		return
	}
	e.cache[key] = &entry{
		value:      value,
		changedAt:  e.revision,
		verifiedAt: e.revision,
		isInput:    true,
	}
}

// HasInput reports whether an input cell currently has a value.
func (e *Engine) HasInput(key Key) bool {
	ent, ok := e.cache[key]
	return ok && ent.isInput
}

// Revision returns the engine's current logical revision.
func (e *Engine) Revision() Revision {
	return e.revision
}

// Demand reads a query's value at the current revision, computing or
// revalidating as needed. If called while computing another query, the
// calling query's dependency set records this key.
func (e *Engine) Demand(key Key) (any, error) {
	if e.stackSet[key] {
		stack := append(append([]Key{}, e.stack...), key)
		return nil, &CycleError{Stack: stack}
	}

	ent, ok := e.cache[key]
	if ok && ent.isInput {
		e.recordRead(key)
		return ent.value, ent.err
	}
	if ok && ent.verifiedAt == e.revision {
		e.recordRead(key)
		return ent.value, ent.err
	}
	if ok && e.validate(ent) {
		ent.verifiedAt = e.revision
		e.recordRead(key)
		return ent.value, ent.err
	}

	return e.compute(key)
}

// validate recursively checks whether every recorded dependency of ent is
// unchanged since ent was last verified, revalidating (or recomputing) those
// dependencies as a side effect so their changedAt reflects the current
// revision.
func (e *Engine) validate(ent *entry) bool {
	for _, dep := range ent.deps {
		depEnt, ok := e.cache[dep]
		if !ok {
			return false
		}
		if !depEnt.isInput && depEnt.verifiedAt != e.revision {
			if e.validate(depEnt) {
				depEnt.verifiedAt = e.revision
			} else {
				e.computeRaw(dep)
				depEnt = e.cache[dep]
			}
		}
		if depEnt.changedAt > ent.verifiedAt {
			return false
		}
	}
	return true
}

func (e *Engine) compute(key Key) (any, error) {
	value, err := e.computeRaw(key)
	e.recordRead(key)
	return value, err
}

func (e *Engine) computeRaw(key Key) (any, error) {
	fn, ok := e.computes[key.Query]
	if !ok {
		return nil, fmt.Errorf("engine: no compute registered for query %q and no input set for %s", key.Query, key)
	}

	e.stack = append(e.stack, key)
	e.stackSet[key] = true
	frameStart := len(e.readLog)
	e.readLog = append(e.readLog, nil)
	frameIdx := len(e.readLog) - 1

	value, err := fn(e, key)

	deps := e.readLog[frameIdx]
	e.readLog = e.readLog[:frameStart]
	e.stack = e.stack[:len(e.stack)-1]
	delete(e.stackSet, key)

	old := e.cache[key]
	changedAt := e.revision
	if old != nil && err == nil && old.err == nil && equalValues(old.value, value) {
		changedAt = old.changedAt
	}
	if old != nil && err != nil && old.err != nil && sameErrorShape(old.err, err) {
		changedAt = old.changedAt
	}

	e.cache[key] = &entry{
		value:      value,
		err:        err,
		changedAt:  changedAt,
		verifiedAt: e.revision,
		deps:       deps,
	}
	return value, err
}

// recordRead appends key to the dependency set of whichever computation is
// currently on top of the stack, if any.
func (e *Engine) recordRead(key Key) {
	if len(e.readLog) == 0 {
		return
	}
	top := len(e.readLog) - 1
	e.readLog[top] = append(e.readLog[top], key)
}

func equalValues(a, b any) bool {
	if eq, ok := a.(interface{ Equal(any) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

func sameErrorShape(a, b error) bool {
	return a.Error() == b.Error()
}
