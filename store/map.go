package store

import "encoding/binary"

// ---------------------------------------------------------------------------
// Map container
// ---------------------------------------------------------------------------

// Map payload layout: a 32-bit pair count followed by (name handle,
// value handle) pairs of 64 bits each. Names are string objects owned by
// the map; values are caller-owned handles. Pairs stay in insertion
// order, so iteration is deterministic absent mutation, and lookup is a
// linear scan. That trades lookup speed for simplicity, which suits the
// small maps the runtime sees.
const (
	mapHeaderSize = 4
	mapPairSize   = 16
	mapMinPairs   = 4
)

// NewMap allocates an empty map.
func (st *State) NewMap() (Handle, error) {
	h, err := st.alloc(mapHeaderSize, TypeMap)
	if err != nil {
		return NilHandle, err
	}
	binary.LittleEndian.PutUint32(st.payload(&st.objects[h]), 0)
	return h, nil
}

func mapCount(p []byte) int {
	return int(binary.LittleEndian.Uint32(p))
}

func mapNameAt(p []byte, i int) Handle {
	return Handle(binary.LittleEndian.Uint64(p[mapHeaderSize+i*mapPairSize:]))
}

func mapValueAt(p []byte, i int) Handle {
	return Handle(binary.LittleEndian.Uint64(p[mapHeaderSize+i*mapPairSize+8:]))
}

func setMapPair(p []byte, i int, name, value Handle) {
	binary.LittleEndian.PutUint64(p[mapHeaderSize+i*mapPairSize:], uint64(name))
	binary.LittleEndian.PutUint64(p[mapHeaderSize+i*mapPairSize+8:], uint64(value))
}

// mapFind returns the pair index of name, or -1.
func (st *State) mapFind(p []byte, name string) int {
	n := mapCount(p)
	for i := 0; i < n; i++ {
		s, err := st.StringValue(mapNameAt(p, i))
		if err == nil && s == name {
			return i
		}
	}
	return -1
}

// MapLength returns the number of pairs in m, or 0 if m is not a live map.
func (st *State) MapLength(m Handle) int {
	p, err := st.typedPayload(m, TypeMap)
	if err != nil {
		return 0
	}
	return mapCount(p)
}

// MapGet returns the value bound to name, or (NilHandle, false).
func (st *State) MapGet(m Handle, name string) (Handle, bool) {
	p, err := st.typedPayload(m, TypeMap)
	if err != nil {
		return NilHandle, false
	}
	i := st.mapFind(p, name)
	if i < 0 {
		return NilHandle, false
	}
	return mapValueAt(p, i), true
}

// MapInsert binds name to value. An existing name has its value handle
// replaced in place: the map keeps its length and the replaced handle
// is not freed, ownership of it stays with the caller. On ErrNoMemory
// the map is unchanged.
func (st *State) MapInsert(m Handle, name string, value Handle) error {
	if _, err := st.resolve(value); err != nil {
		return err
	}
	p, err := st.typedPayload(m, TypeMap)
	if err != nil {
		return err
	}
	if i := st.mapFind(p, name); i >= 0 {
		binary.LittleEndian.PutUint64(p[mapHeaderSize+i*mapPairSize+8:], uint64(value))
		return nil
	}

	// Grow capacity before allocating the name string: if the name
	// allocation fails the spare capacity is invisible, so the failed
	// insert leaves no partial state.
	n := mapCount(p)
	if err := st.ensureMapPairs(m, n+1); err != nil {
		return err
	}
	nameH, err := st.String(name)
	if err != nil {
		return err
	}
	p = st.payload(&st.objects[m])
	setMapPair(p, n, nameH, value)
	binary.LittleEndian.PutUint32(p, uint32(n+1))
	return nil
}

// MapDel removes the pair for name. A missing name is a no-op, not an
// error. The map-owned name string is freed; the value handle is not.
func (st *State) MapDel(m Handle, name string) error {
	p, err := st.typedPayload(m, TypeMap)
	if err != nil {
		return err
	}
	i := st.mapFind(p, name)
	if i < 0 {
		return nil
	}
	n := mapCount(p)
	nameH := mapNameAt(p, i)

	copy(p[mapHeaderSize+i*mapPairSize:mapHeaderSize+(n-1)*mapPairSize],
		p[mapHeaderSize+(i+1)*mapPairSize:mapHeaderSize+n*mapPairSize])
	binary.LittleEndian.PutUint32(p, uint32(n-1))

	// Freeing only touches the handle table and free list; the map
	// payload cannot move, so p staying stale is fine after this.
	return st.Free(nameH)
}

// MapPairs returns the names and values of m in insertion order. Both
// slices are snapshots with the same non-mutation contract as ListItems.
// A handle that is not a live map yields (nil, nil).
func (st *State) MapPairs(m Handle) ([]string, []Handle) {
	p, err := st.typedPayload(m, TypeMap)
	if err != nil {
		return nil, nil
	}
	n := mapCount(p)
	names := make([]string, n)
	values := make([]Handle, n)
	for i := 0; i < n; i++ {
		names[i], _ = st.StringValue(mapNameAt(p, i))
		values[i] = mapValueAt(p, i)
	}
	return names, values
}

// ensureMapPairs grows m's payload, doubling capacity, until it holds at
// least want pairs.
func (st *State) ensureMapPairs(m Handle, want int) error {
	e := &st.objects[m]
	pairs := (e.size - mapHeaderSize) / mapPairSize
	if want <= pairs {
		return nil
	}
	newPairs := pairs * 2
	if newPairs < mapMinPairs {
		newPairs = mapMinPairs
	}
	if newPairs < want {
		newPairs = want
	}
	return st.resizeObject(m, mapHeaderSize+newPairs*mapPairSize)
}
