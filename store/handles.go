package store

import (
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------------
// Handle table: stable identifiers over relocatable byte ranges
// ---------------------------------------------------------------------------

// entry describes where one live object's encoded bytes currently live.
// Offsets move under relocation and compaction; the entry's index in
// State.objects (its handle) never does.
type entry struct {
	off  int
	size int
	tag  Type
	live bool
}

// span is a free byte range inside the used region.
type span struct {
	off  int
	size int
}

// minArenaBytes is the smallest capacity requested from the grower.
const minArenaBytes = 256

// alloc reserves a fresh handle over size bytes tagged with tag. On
// ErrNoMemory no handle is created and the arena is left as it was.
//
// Handles are never reused: the table only grows, so a freed handle can
// never alias a later allocation.
func (st *State) alloc(size int, tag Type) (Handle, error) {
	off, ok := st.reserve(size)
	if !ok {
		return NilHandle, ErrNoMemory
	}
	h := Handle(len(st.objects))
	st.objects = append(st.objects, entry{off: off, size: size, tag: tag, live: true})
	return h, nil
}

// resolve returns the table entry for a live handle. The returned pointer
// is invalidated by the next alloc; callers re-resolve after any
// operation that can allocate.
func (st *State) resolve(h Handle) (*entry, error) {
	if int(h) >= len(st.objects) || !st.objects[h].live {
		return nil, fmt.Errorf("%w: %d", ErrBadHandle, h)
	}
	return &st.objects[h], nil
}

// payload returns e's bytes. Valid only until the next allocation,
// resize, or compaction.
func (st *State) payload(e *entry) []byte {
	return st.arena.mem[e.off : e.off+e.size]
}

// Free marks h dead and reclaims its byte range for future allocations.
// Freeing the nil handle is a no-op. The store performs no reachability
// tracing; any container slot or binding still naming h is now dangling
// and the caller is responsible for having removed them first.
func (st *State) Free(h Handle) error {
	if h == NilHandle {
		return nil
	}
	e, err := st.resolve(h)
	if err != nil {
		return err
	}
	e.live = false
	st.addFree(e.off, e.size)
	return nil
}

// resizeObject grows or shrinks h's payload, preserving the first
// min(old, new) bytes. The handle is unchanged; only its table entry
// moves. Other live handles resolve to byte-identical contents before
// and after, and on ErrNoMemory h itself is untouched.
func (st *State) resizeObject(h Handle, newSize int) error {
	e, err := st.resolve(h)
	if err != nil {
		return err
	}
	old := e.size

	switch {
	case newSize == old:
		return nil

	case newSize < old:
		e.size = newSize
		st.addFree(e.off+newSize, old-newSize)
		return nil
	}

	// Grow in place when the object ends the used region. Compaction
	// during ensureTail keeps relative order, so the object stays last.
	if old > 0 && e.off+old == st.arena.used {
		if !st.ensureTail(newSize - old) {
			return ErrNoMemory
		}
		e = &st.objects[h]
		st.arena.used = e.off + newSize
		e.size = newSize
		return nil
	}

	// Relocate: reserve the new range before touching the old one so a
	// refused growth leaves the object where it was.
	newOff, ok := st.reserve(newSize)
	if !ok {
		return ErrNoMemory
	}
	e = &st.objects[h]
	copy(st.arena.mem[newOff:newOff+old], st.arena.mem[e.off:e.off+old])
	st.addFree(e.off, old)
	e.off = newOff
	e.size = newSize
	return nil
}

// ---------------------------------------------------------------------------
// Free space management
// ---------------------------------------------------------------------------

// reserve finds room for size bytes: free-list first fit, then the arena
// tail, compacting and growing as needed. Zero-size objects share offset 0.
func (st *State) reserve(size int) (int, bool) {
	if size == 0 {
		return 0, true
	}
	if off, ok := st.takeFree(size); ok {
		return off, true
	}
	if !st.ensureTail(size) {
		return 0, false
	}
	off := st.arena.used
	st.arena.used += size
	return off, true
}

// ensureTail makes room for size more bytes at the end of the used
// region. It compacts before growing, so fragmentation never fails an
// allocation that total free space could satisfy.
func (st *State) ensureTail(size int) bool {
	if st.arena.used+size <= st.arena.cap() {
		return true
	}
	st.compact()
	if st.arena.used+size <= st.arena.cap() {
		return true
	}

	want := 2 * st.arena.cap()
	if want < minArenaBytes {
		want = minArenaBytes
	}
	if want < st.arena.used+size {
		want = st.arena.used + size
	}
	if st.arena.expand(want) {
		return true
	}
	// The doubling request may exceed what the host allows even though
	// the exact request fits.
	return st.arena.expand(st.arena.used + size)
}

// takeFree removes a first-fit range of at least size bytes from the free
// list, splitting the span when it is larger.
func (st *State) takeFree(size int) (int, bool) {
	for i, s := range st.free {
		if s.size < size {
			continue
		}
		off := s.off
		if s.size == size {
			st.free = append(st.free[:i], st.free[i+1:]...)
		} else {
			st.free[i] = span{off: s.off + size, size: s.size - size}
		}
		return off, true
	}
	return 0, false
}

// addFree returns a byte range to the free list, coalescing with
// neighbouring spans. A range ending at the used mark shrinks the used
// region instead, absorbing any free spans newly exposed at the tail.
func (st *State) addFree(off, size int) {
	if size == 0 {
		return
	}
	if off+size == st.arena.used {
		st.arena.used = off
		for n := len(st.free); n > 0; n = len(st.free) {
			last := st.free[n-1]
			if last.off+last.size != st.arena.used {
				break
			}
			st.arena.used = last.off
			st.free = st.free[:n-1]
		}
		return
	}

	i := sort.Search(len(st.free), func(i int) bool { return st.free[i].off > off })
	st.free = append(st.free, span{})
	copy(st.free[i+1:], st.free[i:])
	st.free[i] = span{off: off, size: size}

	if i+1 < len(st.free) && off+size == st.free[i+1].off {
		st.free[i].size += st.free[i+1].size
		st.free = append(st.free[:i+1], st.free[i+2:]...)
	}
	if i > 0 && st.free[i-1].off+st.free[i-1].size == off {
		st.free[i-1].size += st.free[i].size
		st.free = append(st.free[:i], st.free[i+1:]...)
	}
}

// compact slides every live object down over the free gaps, leaving all
// free space at the tail. Handles are untouched; only entry offsets move
// and byte contents are preserved.
func (st *State) compact() {
	if len(st.free) == 0 {
		return
	}
	order := make([]int, 0, len(st.objects))
	for i := range st.objects {
		if st.objects[i].live && st.objects[i].size > 0 {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		return st.objects[order[a]].off < st.objects[order[b]].off
	})

	dst := 0
	for _, i := range order {
		e := &st.objects[i]
		if e.off != dst {
			copy(st.arena.mem[dst:dst+e.size], st.arena.mem[e.off:e.off+e.size])
			e.off = dst
		}
		dst += e.size
	}
	st.arena.used = dst
	st.free = st.free[:0]
}
