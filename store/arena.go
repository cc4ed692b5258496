package store

// ---------------------------------------------------------------------------
// Arena: the relocatable byte buffer backing all values
// ---------------------------------------------------------------------------

// Grower is the host-supplied resize callback. It is asked for a buffer
// newLen bytes long with the first min(len(old), newLen) bytes of old
// copied into it, and returns nil if the request cannot be satisfied.
// The returned buffer may be the old one or a completely new allocation;
// nothing outside the arena may hold a reference into it across a call.
//
// A newLen of 0 releases the buffer; the grower's return value is ignored
// in that case so hosts backed by mapped or foreign memory can free it.
//
// The grower must not re-enter the store.
type Grower func(old []byte, newLen int) []byte

// SliceGrower returns a Grower backed by ordinary Go allocation. A max of
// 0 means unbounded; otherwise requests beyond max bytes are refused,
// which is how the CLI enforces manifest memory limits and how tests
// provoke out-of-memory conditions.
func SliceGrower(max int) Grower {
	return func(old []byte, newLen int) []byte {
		if newLen == 0 {
			return nil
		}
		if max > 0 && newLen > max {
			return nil
		}
		buf := make([]byte, newLen)
		copy(buf, old)
		return buf
	}
}

// arena is the raw buffer plus the logical high-water mark. The buffer's
// identity changes across expand calls; every component reaches bytes
// through the handle table rather than caching slices.
type arena struct {
	mem  []byte
	used int
	grow Grower
}

func (a *arena) cap() int {
	return len(a.mem)
}

// expand resizes the buffer to newLen bytes, preserving the first
// min(old, new) bytes at their offsets. Shrinking below the used region
// is refused; releasing entirely goes through release.
func (a *arena) expand(newLen int) bool {
	if newLen < a.used {
		return false
	}
	buf := a.grow(a.mem, newLen)
	if buf == nil || len(buf) < newLen {
		return false
	}
	a.mem = buf[:newLen]
	return true
}

// release frees the buffer through the grower and drops it. Every offset
// into the arena is invalid afterwards.
func (a *arena) release() {
	if a.grow != nil && a.mem != nil {
		a.grow(a.mem, 0)
	}
	a.mem = nil
	a.used = 0
}
