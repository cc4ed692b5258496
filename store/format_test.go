package store

import (
	"math"
	"testing"
)

func TestFormatScalars(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	n, _ := st.Int(-42)
	f, _ := st.Float(0.5)
	whole, _ := st.Float(-5)
	inf, _ := st.Float(math.Inf(1))
	c, _ := st.Char('λ')
	s, _ := st.String("a\"b")
	yes, _ := st.Bool(true)

	cases := []struct {
		h    Handle
		want string
	}{
		{NilHandle, "nil"},
		{n, "-42"},
		{f, "0.5"},
		{whole, "-5.0"},
		{inf, "+Inf"},
		{c, `#\λ`},
		{s, `"a\"b"`},
		{yes, "true"},
	}
	for _, tc := range cases {
		if got := Format(st, tc.h); got != tc.want {
			t.Errorf("Format = %q, want %q", got, tc.want)
		}
	}
}

func TestFormatContainers(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	lst, _ := intList(t, st, 1, 2, 3)
	if got := Format(st, lst); got != "(1 2 3)" {
		t.Errorf("list formats as %q", got)
	}

	empty, _ := st.NewList()
	if got := Format(st, empty); got != "()" {
		t.Errorf("empty list formats as %q", got)
	}

	m, _ := st.NewMap()
	a, _ := st.Int(1)
	if err := st.MapInsert(m, "a", a); err != nil {
		t.Fatal(err)
	}
	if err := st.MapInsert(m, "b", lst); err != nil {
		t.Fatal(err)
	}
	if got := Format(st, m); got != "{a: 1, b: (1 2 3)}" {
		t.Errorf("map formats as %q", got)
	}
}

func TestFormatSelfReference(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	lst, _ := st.NewList()
	if err := st.ListAppend(lst, lst); err != nil {
		t.Fatal(err)
	}
	// Must terminate; the exact rendering only needs the truncation mark.
	got := Format(st, lst)
	if len(got) == 0 {
		t.Fatal("empty rendering for cyclic list")
	}
}

func TestFormatInvalidHandle(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	if got := Format(st, Handle(9999)); got != "#<invalid>" {
		t.Errorf("Format(invalid) = %q", got)
	}
}
