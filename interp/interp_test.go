package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aeldidi/cora/store"
)

func newTestState(t *testing.T) *store.State {
	t.Helper()
	st, err := store.New(store.SliceGrower(0))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := RegisterStd(st); err != nil {
		t.Fatalf("RegisterStd: %v", err)
	}
	return st
}

func evalInt(t *testing.T, st *store.State, source string) int64 {
	t.Helper()
	h, err := Run(st, source)
	if err != nil {
		t.Fatalf("Run(%q): %v", source, err)
	}
	x, err := st.IntValue(h)
	if err != nil {
		t.Fatalf("Run(%q) result: %v", source, err)
	}
	return x
}

// ---------------------------------------------------------------------------
// Evaluation
// ---------------------------------------------------------------------------

func TestEvalLiterals(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	h, err := Run(st, `"hello"`)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := st.StringValue(h); s != "hello" {
		t.Errorf("string literal = %q", s)
	}

	h, err = Run(st, "nil")
	if err != nil {
		t.Fatal(err)
	}
	if h != store.NilHandle {
		t.Errorf("nil literal = %d", h)
	}

	h, err = Run(st, "2.5")
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := st.FloatValue(h); f != 2.5 {
		t.Errorf("float literal = %g", f)
	}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   int64
	}{
		{"(+ 1 2)", 3},
		{"(+ 1 2 3 4)", 10},
		{"(- 10 3 2)", 5},
		{"(* 2 3 4)", 24},
		{"(/ 20 2 5)", 2},
		{"(+ 1 (* 2 3))", 7},
	}
	for _, tt := range tests {
		st := newTestState(t)
		if got := evalInt(t, st, tt.source); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.source, got, tt.want)
		}
		st.Close()
	}
}

func TestEvalFloatContagion(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	h, err := Run(st, "(+ 1 0.5)")
	if err != nil {
		t.Fatal(err)
	}
	if tp, _ := st.TypeOf(h); tp != store.TypeFloat {
		t.Errorf("(+ 1 0.5) has type %s", tp)
	}
	if f, _ := st.FloatValue(h); f != 1.5 {
		t.Errorf("(+ 1 0.5) = %g", f)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	if _, err := Run(st, "(/ 1 0)"); err == nil {
		t.Error("(/ 1 0) succeeded")
	}
}

func TestDefineAndReference(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	got := evalInt(t, st, "(define x 20)\n(define y 22)\n(+ x y)")
	if got != 42 {
		t.Errorf("x + y = %d, want 42", got)
	}

	// Redefinition replaces the binding.
	if got := evalInt(t, st, "(define x 1)\nx"); got != 1 {
		t.Errorf("redefined x = %d, want 1", got)
	}
}

func TestUnboundSymbol(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	_, err := Run(st, "(+ 1 nothere)")
	if err == nil {
		t.Fatal("unbound symbol evaluated")
	}
	if !strings.Contains(err.Error(), "nothere") {
		t.Errorf("error does not name the symbol: %v", err)
	}
}

func TestNotCallable(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	if _, err := Run(st, "(frobnicate 1)"); err == nil {
		t.Error("call to undefined function succeeded")
	}
}

func TestListAndMapForms(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	h, err := Run(st, "(list 1 2 (+ 1 2))")
	if err != nil {
		t.Fatal(err)
	}
	if got := store.Format(st, h); got != "(1 2 3)" {
		t.Errorf("list form built %s", got)
	}

	h, err = Run(st, `(map "a" 1 b 2)`)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.Format(st, h); got != "{a: 1, b: 2}" {
		t.Errorf("map form built %s", got)
	}

	if _, err := Run(st, `(map "odd")`); err == nil {
		t.Error("odd map form succeeded")
	}
}

func TestParseErrorBeforeEvaluation(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	// The define precedes the syntax error but must not run.
	if _, err := Run(st, "(define leaked 1)\n(broken"); err == nil {
		t.Fatal("syntax error not reported")
	}
	if _, ok := st.Lookup("leaked"); ok {
		t.Error("form before syntax error was evaluated")
	}
}

// ---------------------------------------------------------------------------
// Built-ins
// ---------------------------------------------------------------------------

func TestBuiltinLenAndGet(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	if got := evalInt(t, st, `(len (list 1 2 3))`); got != 3 {
		t.Errorf("len list = %d", got)
	}
	if got := evalInt(t, st, `(len "four")`); got != 4 {
		t.Errorf("len string = %d", got)
	}
	if got := evalInt(t, st, `(get (list 5 6 7) 1)`); got != 6 {
		t.Errorf("get list = %d", got)
	}
	if got := evalInt(t, st, `(get (map "k" 9) "k")`); got != 9 {
		t.Errorf("get map = %d", got)
	}

	h, err := Run(st, `(get (map "k" 9) "missing")`)
	if err != nil {
		t.Fatal(err)
	}
	if h != store.NilHandle {
		t.Errorf("missing map key = %d, want nil handle", h)
	}

	if _, err := Run(st, `(get (list 1) 5)`); err == nil {
		t.Error("out of range get succeeded")
	}
}

func TestBuiltinPrint(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()

	if _, err := Run(st, `(print "x" 42 (list 1))`); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\"x\" 42 (1)\n" {
		t.Errorf("print wrote %q", got)
	}
}

func TestBuiltinStr(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	h, err := Run(st, "(str (list 1 2))")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := st.StringValue(h); s != "(1 2)" {
		t.Errorf("str = %q", s)
	}
}

func TestStdModule(t *testing.T) {
	st := newTestState(t)
	defer st.Close()

	src := `
(define xs (list 1 2))
(std.append xs 3)
(std.insert xs 0 0)
(std.del xs 1)
xs`
	h, err := Run(st, src)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.Format(st, h); got != "(0 2 3)" {
		t.Errorf("edited list = %s", got)
	}

	src = `
(define m (map "a" 1))
(std.put m "b" 2)
(std.del m "a")
(std.keys m)`
	h, err = Run(st, src)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.Format(st, h); got != `("b")` {
		t.Errorf("keys = %s", got)
	}

	h, err = Run(st, `(std.type (list))`)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := st.StringValue(h); s != "list" {
		t.Errorf("std.type = %q", s)
	}
}
