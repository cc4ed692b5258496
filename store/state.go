package store

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// State: one cora runtime instance
// ---------------------------------------------------------------------------

// Handle is a stable integer reference to a live object in a State. A
// handle survives arena growth, shrinkage, and relocation; it is only
// invalidated by Free or by closing the state.
type Handle uint64

// NilHandle names the nil object. Every state owns exactly one.
const NilHandle Handle = 0

// Errors reported by store operations.
//
// ErrNoMemory is the only recoverable failure: the operation reports it and
// leaves all visible state unchanged. ErrBadHandle and ErrTypeMismatch are
// contract violations by the caller; the store rejects them defensively
// instead of reading stale bytes.
var (
	ErrNoMemory     = errors.New("store: out of memory")
	ErrBadHandle    = errors.New("store: undefined handle")
	ErrTypeMismatch = errors.New("store: type mismatch")
)

// State is a single cora runtime instance: the arena, the handle table,
// the global binding table, and the native function registry.
//
// A State is single-threaded. Exactly one caller may operate on it at a
// time; callers needing concurrent access must serialize externally.
type State struct {
	arena   arena
	objects []entry
	free    []span

	// globals is the root binding table, itself a map object in the
	// arena so that bindings survive image snapshots.
	globals Handle

	natives map[string]NativeFunc
}

// New creates a State backed by the given grower. The grower must be set
// before any other operation; New rejects a nil grower.
func New(grow Grower) (*State, error) {
	if grow == nil {
		return nil, errors.New("store: grower must be set before use")
	}
	st := &State{
		arena:   arena{grow: grow},
		natives: make(map[string]NativeFunc),
	}

	// Handle 0 is the nil object.
	st.objects = append(st.objects, entry{tag: TypeNil, live: true})

	globals, err := st.NewMap()
	if err != nil {
		return nil, fmt.Errorf("store: cannot allocate globals: %w", err)
	}
	st.globals = globals
	return st, nil
}

// Close releases the arena (a zero-length resize through the grower) and
// invalidates every handle issued by this state.
func (st *State) Close() {
	st.arena.release()
	st.objects = nil
	st.free = nil
	st.natives = nil
	st.globals = NilHandle
}

// Globals returns the handle of the root binding table.
func (st *State) Globals() Handle {
	return st.globals
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats describes the memory footprint of a state.
type Stats struct {
	ArenaBytes  int // current arena capacity
	UsedBytes   int // high-water offset of the used region
	FreeBytes   int // reclaimable bytes inside the used region
	LiveObjects int // live handle count, including the nil object
}

// Stats returns the current memory footprint.
func (st *State) Stats() Stats {
	s := Stats{
		ArenaBytes: st.arena.cap(),
		UsedBytes:  st.arena.used,
	}
	for _, f := range st.free {
		s.FreeBytes += f.size
	}
	for i := range st.objects {
		if st.objects[i].live {
			s.LiveObjects++
		}
	}
	return s
}
