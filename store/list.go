package store

import (
	"encoding/binary"
	"fmt"
)

// ---------------------------------------------------------------------------
// List container
// ---------------------------------------------------------------------------

// List payload layout: a 32-bit element count followed by 64-bit handle
// slots. Capacity is derived from the entry size and may exceed the count
// to amortize growth; it is retained on delete.
const (
	listHeaderSize = 4
	listSlotSize   = 8
	listMinSlots   = 4
)

// NewList allocates an empty list.
func (st *State) NewList() (Handle, error) {
	h, err := st.alloc(listHeaderSize, TypeList)
	if err != nil {
		return NilHandle, err
	}
	binary.LittleEndian.PutUint32(st.payload(&st.objects[h]), 0)
	return h, nil
}

func listCount(p []byte) int {
	return int(binary.LittleEndian.Uint32(p))
}

func listSlot(p []byte, i int) Handle {
	return Handle(binary.LittleEndian.Uint64(p[listHeaderSize+i*listSlotSize:]))
}

func setListSlot(p []byte, i int, h Handle) {
	binary.LittleEndian.PutUint64(p[listHeaderSize+i*listSlotSize:], uint64(h))
}

// ListLength returns the number of elements in l, or 0 if l is not a
// live list.
func (st *State) ListLength(l Handle) int {
	p, err := st.typedPayload(l, TypeList)
	if err != nil {
		return 0
	}
	return listCount(p)
}

// ListItems returns the element handles of l in order, or nil if l is
// not a live list. The slice is a snapshot: mutating it does not touch
// the list, and structural changes go through ListAppend/ListInsert/
// ListDel so the count always matches the occupied slots.
func (st *State) ListItems(l Handle) []Handle {
	p, err := st.typedPayload(l, TypeList)
	if err != nil {
		return nil
	}
	n := listCount(p)
	items := make([]Handle, n)
	for i := range items {
		items[i] = listSlot(p, i)
	}
	return items
}

// ListGet returns the element at index.
func (st *State) ListGet(l Handle, index int) (Handle, error) {
	p, err := st.typedPayload(l, TypeList)
	if err != nil {
		return NilHandle, err
	}
	if index < 0 || index >= listCount(p) {
		return NilHandle, fmt.Errorf("store: list index %d out of range [0, %d)", index, listCount(p))
	}
	return listSlot(p, index), nil
}

// ListSet replaces the element at index with x. The replaced handle is
// not freed; ownership stays with the caller.
func (st *State) ListSet(l Handle, index int, x Handle) error {
	if _, err := st.resolve(x); err != nil {
		return err
	}
	p, err := st.typedPayload(l, TypeList)
	if err != nil {
		return err
	}
	if index < 0 || index >= listCount(p) {
		return fmt.Errorf("store: list index %d out of range [0, %d)", index, listCount(p))
	}
	setListSlot(p, index, x)
	return nil
}

// ListAppend inserts x at the end of l. Amortized O(1); on ErrNoMemory
// the list keeps its pre-call length.
func (st *State) ListAppend(l, x Handle) error {
	return st.ListInsert(l, x, st.ListLength(l))
}

// ListInsert inserts x at index, shifting later elements up. An index
// past the end is clamped to append-at-end; a negative index is clamped
// to 0.
func (st *State) ListInsert(l, x Handle, index int) error {
	if _, err := st.resolve(x); err != nil {
		return err
	}
	p, err := st.typedPayload(l, TypeList)
	if err != nil {
		return err
	}
	n := listCount(p)
	if index > n {
		index = n
	}
	if index < 0 {
		index = 0
	}

	if err := st.ensureListSlots(l, n+1); err != nil {
		return err
	}
	p = st.payload(&st.objects[l])

	copy(p[listHeaderSize+(index+1)*listSlotSize:listHeaderSize+(n+1)*listSlotSize],
		p[listHeaderSize+index*listSlotSize:listHeaderSize+n*listSlotSize])
	setListSlot(p, index, x)
	binary.LittleEndian.PutUint32(p, uint32(n+1))
	return nil
}

// ListDel removes the element at index, shifting later elements down.
// An index past the end is a no-op, not an error. The removed handle is
// not freed.
func (st *State) ListDel(l Handle, index int) error {
	p, err := st.typedPayload(l, TypeList)
	if err != nil {
		return err
	}
	n := listCount(p)
	if index < 0 || index >= n {
		return nil
	}
	copy(p[listHeaderSize+index*listSlotSize:listHeaderSize+(n-1)*listSlotSize],
		p[listHeaderSize+(index+1)*listSlotSize:listHeaderSize+n*listSlotSize])
	binary.LittleEndian.PutUint32(p, uint32(n-1))
	return nil
}

// ensureListSlots grows l's payload, doubling capacity, until it holds at
// least want slots. The payload may relocate; callers re-fetch it.
func (st *State) ensureListSlots(l Handle, want int) error {
	e := &st.objects[l]
	slots := (e.size - listHeaderSize) / listSlotSize
	if want <= slots {
		return nil
	}
	newSlots := slots * 2
	if newSlots < listMinSlots {
		newSlots = listMinSlots
	}
	if newSlots < want {
		newSlots = want
	}
	return st.resizeObject(l, listHeaderSize+newSlots*listSlotSize)
}
