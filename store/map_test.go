package store

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// Map basics
// ---------------------------------------------------------------------------

func TestMapInsertAndGet(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	m, err := st.NewMap()
	if err != nil {
		t.Fatal(err)
	}
	a, _ := st.Int(1)
	b, _ := st.Int(2)
	if err := st.MapInsert(m, "a", a); err != nil {
		t.Fatalf("MapInsert: %v", err)
	}
	if err := st.MapInsert(m, "b", b); err != nil {
		t.Fatalf("MapInsert: %v", err)
	}

	if n := st.MapLength(m); n != 2 {
		t.Errorf("MapLength = %d, want 2", n)
	}
	if got, ok := st.MapGet(m, "a"); !ok || got != a {
		t.Errorf("MapGet(a) = %d, %v; want %d, true", got, ok, a)
	}
	if _, ok := st.MapGet(m, "missing"); ok {
		t.Error("MapGet(missing) = true")
	}
}

func TestMapReplaceKeepsLength(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	m, _ := st.NewMap()
	v1, _ := st.Int(1)
	v2, _ := st.Int(2)

	if err := st.MapInsert(m, "k", v1); err != nil {
		t.Fatal(err)
	}
	if err := st.MapInsert(m, "k", v2); err != nil {
		t.Fatal(err)
	}

	if n := st.MapLength(m); n != 1 {
		t.Errorf("MapLength after replace = %d, want 1", n)
	}
	if got, _ := st.MapGet(m, "k"); got != v2 {
		t.Errorf("MapGet(k) = %d, want %d", got, v2)
	}
	// The replaced value handle still belongs to the caller.
	if x, err := st.IntValue(v1); err != nil || x != 1 {
		t.Errorf("replaced value = %d, %v; want 1, nil", x, err)
	}
}

func TestMapDel(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	m, _ := st.NewMap()
	v, _ := st.Int(1)
	if err := st.MapInsert(m, "k", v); err != nil {
		t.Fatal(err)
	}
	if err := st.MapDel(m, "k"); err != nil {
		t.Fatalf("MapDel: %v", err)
	}
	if n := st.MapLength(m); n != 0 {
		t.Errorf("MapLength after del = %d, want 0", n)
	}
	// Missing names are a silent no-op.
	if err := st.MapDel(m, "k"); err != nil {
		t.Errorf("MapDel(missing) = %v, want nil", err)
	}
	// The value handle is the caller's; deleting the pair did not free it.
	if x, err := st.IntValue(v); err != nil || x != 1 {
		t.Errorf("value after del = %d, %v; want 1, nil", x, err)
	}
}

func TestMapPairsInsertionOrder(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	m, _ := st.NewMap()
	var wantNames []string
	var wantValues []Handle
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("key-%02d", i)
		v, err := st.Int(int64(i))
		if err != nil {
			t.Fatal(err)
		}
		if err := st.MapInsert(m, name, v); err != nil {
			t.Fatal(err)
		}
		wantNames = append(wantNames, name)
		wantValues = append(wantValues, v)
	}

	// Iteration is deterministic and in insertion order, repeatedly.
	for round := 0; round < 2; round++ {
		names, values := st.MapPairs(m)
		if len(names) != len(wantNames) {
			t.Fatalf("MapPairs length = %d, want %d", len(names), len(wantNames))
		}
		for i := range wantNames {
			if names[i] != wantNames[i] || values[i] != wantValues[i] {
				t.Errorf("pair %d = (%q, %d), want (%q, %d)",
					i, names[i], values[i], wantNames[i], wantValues[i])
			}
		}
	}
}

func TestMapDelPreservesOrder(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	m, _ := st.NewMap()
	v, _ := st.Int(0)
	for _, name := range []string{"a", "b", "c", "d"} {
		if err := st.MapInsert(m, name, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.MapDel(m, "b"); err != nil {
		t.Fatal(err)
	}
	names, _ := st.MapPairs(m)
	want := []string{"a", "c", "d"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Failure atomicity
// ---------------------------------------------------------------------------

func TestMapInsertOutOfMemoryAtomic(t *testing.T) {
	st, err := New(SliceGrower(minArenaBytes))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	m, err := st.NewMap()
	if err != nil {
		t.Fatal(err)
	}
	v, err := st.Int(1)
	if err != nil {
		t.Fatal(err)
	}

	var beforeNames []string
	for i := 0; ; i++ {
		beforeNames, _ = st.MapPairs(m)
		err := st.MapInsert(m, fmt.Sprintf("key-%d", i), v)
		if err != nil {
			if !errors.Is(err, ErrNoMemory) {
				t.Fatalf("insert error = %v, want ErrNoMemory", err)
			}
			break
		}
		if i > 100 {
			t.Fatal("inserts never hit the memory limit")
		}
	}

	names, _ := st.MapPairs(m)
	if len(names) != len(beforeNames) {
		t.Fatalf("MapLength after failed insert = %d, want %d", len(names), len(beforeNames))
	}
	for i := range beforeNames {
		if names[i] != beforeNames[i] {
			t.Errorf("pair %d = %q, want %q", i, names[i], beforeNames[i])
		}
	}
}

func TestMapRejectsWrongKind(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	l, _ := st.NewList()
	v, _ := st.Int(1)
	if err := st.MapInsert(l, "k", v); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("MapInsert on list = %v, want ErrTypeMismatch", err)
	}
	if names, values := st.MapPairs(l); names != nil || values != nil {
		t.Error("MapPairs on list returned non-nil views")
	}
}
