package interp

import (
	"fmt"

	"github.com/aeldidi/cora/store"
)

// ---------------------------------------------------------------------------
// Evaluator
// ---------------------------------------------------------------------------

// Run parses and evaluates source against st, returning the value of
// the last top-level form. Parse errors are reported before anything is
// evaluated, so a file with a late syntax error has no effect.
func Run(st *store.State, source string) (store.Handle, error) {
	p := NewParser(source)
	nodes := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return store.NilHandle, errs[0]
	}

	result := store.NilHandle
	for _, n := range nodes {
		h, err := Eval(st, n)
		if err != nil {
			return store.NilHandle, err
		}
		result = h
	}
	return result, nil
}

// Eval evaluates one form.
func Eval(st *store.State, n Node) (store.Handle, error) {
	switch n := n.(type) {
	case *NilLit:
		return store.NilHandle, nil
	case *IntLit:
		return st.Int(n.Value)
	case *FloatLit:
		return st.Float(n.Value)
	case *CharLit:
		return st.Char(n.Value)
	case *StringLit:
		return st.String(n.Value)
	case *BoolLit:
		return st.Bool(n.Value)

	case *Symbol:
		h, ok := st.Lookup(n.Name)
		if !ok {
			return store.NilHandle, posErrorf(n, "unbound symbol %q", n.Name)
		}
		return h, nil

	case *Form:
		return evalForm(st, n)

	default:
		return store.NilHandle, posErrorf(n, "cannot evaluate %T", n)
	}
}

func evalForm(st *store.State, f *Form) (store.Handle, error) {
	if len(f.Items) == 0 {
		return store.NilHandle, posErrorf(f, "empty form")
	}
	op, ok := f.Items[0].(*Symbol)
	if !ok {
		return store.NilHandle, posErrorf(f.Items[0], "operator must be a symbol")
	}

	switch op.Name {
	case "define":
		return evalDefine(st, f)
	case "list":
		return evalList(st, f)
	case "map":
		return evalMap(st, f)
	}

	// A native call. Arguments evaluate left to right.
	args := make([]store.Handle, 0, len(f.Items)-1)
	for _, item := range f.Items[1:] {
		h, err := Eval(st, item)
		if err != nil {
			return store.NilHandle, err
		}
		args = append(args, h)
	}
	if _, ok := st.Native(op.Name); !ok {
		return store.NilHandle, posErrorf(op, "%q is not callable", op.Name)
	}
	return st.Call(op.Name, args)
}

// (define name expr) binds name globally and yields the bound value.
func evalDefine(st *store.State, f *Form) (store.Handle, error) {
	if len(f.Items) != 3 {
		return store.NilHandle, posErrorf(f, "define takes a name and a value")
	}
	name, ok := f.Items[1].(*Symbol)
	if !ok {
		return store.NilHandle, posErrorf(f.Items[1], "define name must be a symbol")
	}
	h, err := Eval(st, f.Items[2])
	if err != nil {
		return store.NilHandle, err
	}
	if err := st.Define(name.Name, h); err != nil {
		return store.NilHandle, err
	}
	return h, nil
}

// (list expr...) builds a list of the evaluated items.
func evalList(st *store.State, f *Form) (store.Handle, error) {
	lst, err := st.NewList()
	if err != nil {
		return store.NilHandle, err
	}
	for _, item := range f.Items[1:] {
		h, err := Eval(st, item)
		if err != nil {
			return store.NilHandle, err
		}
		if err := st.ListAppend(lst, h); err != nil {
			return store.NilHandle, err
		}
	}
	return lst, nil
}

// (map "key" expr ...) builds a map from alternating keys and values.
// Keys may be string literals or bare symbols.
func evalMap(st *store.State, f *Form) (store.Handle, error) {
	pairs := f.Items[1:]
	if len(pairs)%2 != 0 {
		return store.NilHandle, posErrorf(f, "map takes key value pairs")
	}
	m, err := st.NewMap()
	if err != nil {
		return store.NilHandle, err
	}
	for i := 0; i < len(pairs); i += 2 {
		var key string
		switch k := pairs[i].(type) {
		case *StringLit:
			key = k.Value
		case *Symbol:
			key = k.Name
		default:
			return store.NilHandle, posErrorf(pairs[i], "map key must be a string or symbol")
		}
		v, err := Eval(st, pairs[i+1])
		if err != nil {
			return store.NilHandle, err
		}
		if err := st.MapInsert(m, key, v); err != nil {
			return store.NilHandle, err
		}
	}
	return m, nil
}

func posErrorf(n Node, format string, args ...interface{}) error {
	pos := n.Pos()
	return fmt.Errorf("%d:%d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
}
