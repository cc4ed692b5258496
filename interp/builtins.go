package interp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aeldidi/cora/store"
)

// ---------------------------------------------------------------------------
// Built-in natives
// ---------------------------------------------------------------------------

// Output receives the text written by print. Tests redirect it.
var Output io.Writer = os.Stdout

// RegisterStd installs the built-in natives into st: bare arithmetic
// and display functions plus the std module for container editing.
// Images do not carry natives, so hosts call this again after a load.
func RegisterStd(st *store.State) error {
	bare := map[string]store.NativeFunc{
		"+":     builtinAdd,
		"-":     builtinSub,
		"*":     builtinMul,
		"/":     builtinDiv,
		"len":   builtinLen,
		"get":   builtinGet,
		"print": builtinPrint,
		"str":   builtinStr,
	}
	for name, fn := range bare {
		if err := st.DefineFunction(name, fn); err != nil {
			return err
		}
	}
	return st.DefineModule("std", []store.ModuleDef{
		{Name: "append", Func: stdAppend},
		{Name: "insert", Func: stdInsert},
		{Name: "del", Func: stdDel},
		{Name: "put", Func: stdPut},
		{Name: "keys", Func: stdKeys},
		{Name: "type", Func: stdType},
	})
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

// number unpacks an int or float argument.
func number(st *store.State, h store.Handle) (i int64, f float64, isFloat bool, err error) {
	t, err := st.TypeOf(h)
	if err != nil {
		return 0, 0, false, err
	}
	switch t {
	case store.TypeInt:
		i, err = st.IntValue(h)
		return i, 0, false, err
	case store.TypeFloat:
		f, err = st.FloatValue(h)
		return 0, f, true, err
	}
	return 0, 0, false, fmt.Errorf("expected a number, got %s", t)
}

// arith folds args with intOp, switching to floatOp once any argument
// is a float.
func arith(st *store.State, args []store.Handle, intOp func(a, b int64) (int64, error), floatOp func(a, b float64) float64) (store.Handle, error) {
	if len(args) < 2 {
		return store.NilHandle, errors.New("need at least two arguments")
	}

	ai, af, isFloat, err := number(st, args[0])
	if err != nil {
		return store.NilHandle, err
	}
	if isFloat {
		ai = 0
	} else {
		af = float64(ai)
	}

	for _, arg := range args[1:] {
		bi, bf, bFloat, err := number(st, arg)
		if err != nil {
			return store.NilHandle, err
		}
		if !bFloat {
			bf = float64(bi)
		}
		if isFloat || bFloat {
			isFloat = true
			af = floatOp(af, bf)
			continue
		}
		ai, err = intOp(ai, bi)
		if err != nil {
			return store.NilHandle, err
		}
		af = float64(ai)
	}

	if isFloat {
		return st.Float(af)
	}
	return st.Int(ai)
}

func builtinAdd(st *store.State, args []store.Handle) (store.Handle, error) {
	return arith(st, args,
		func(a, b int64) (int64, error) { return a + b, nil },
		func(a, b float64) float64 { return a + b })
}

func builtinSub(st *store.State, args []store.Handle) (store.Handle, error) {
	return arith(st, args,
		func(a, b int64) (int64, error) { return a - b, nil },
		func(a, b float64) float64 { return a - b })
}

func builtinMul(st *store.State, args []store.Handle) (store.Handle, error) {
	return arith(st, args,
		func(a, b int64) (int64, error) { return a * b, nil },
		func(a, b float64) float64 { return a * b })
}

func builtinDiv(st *store.State, args []store.Handle) (store.Handle, error) {
	return arith(st, args,
		func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errors.New("division by zero")
			}
			return a / b, nil
		},
		func(a, b float64) float64 { return a / b })
}

// ---------------------------------------------------------------------------
// Containers and display
// ---------------------------------------------------------------------------

func builtinLen(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 1 {
		return store.NilHandle, errors.New("len takes one argument")
	}
	t, err := st.TypeOf(args[0])
	if err != nil {
		return store.NilHandle, err
	}
	switch t {
	case store.TypeList:
		return st.Int(int64(st.ListLength(args[0])))
	case store.TypeMap:
		return st.Int(int64(st.MapLength(args[0])))
	case store.TypeString:
		s, err := st.StringValue(args[0])
		if err != nil {
			return store.NilHandle, err
		}
		return st.Int(int64(len(s)))
	}
	return store.NilHandle, fmt.Errorf("len of %s", t)
}

// get indexes a list by int or a map by string key. A missing map key
// yields nil.
func builtinGet(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 2 {
		return store.NilHandle, errors.New("get takes a container and a key")
	}
	t, err := st.TypeOf(args[0])
	if err != nil {
		return store.NilHandle, err
	}
	switch t {
	case store.TypeList:
		i, err := st.IntValue(args[1])
		if err != nil {
			return store.NilHandle, err
		}
		return st.ListGet(args[0], int(i))
	case store.TypeMap:
		key, err := st.StringValue(args[1])
		if err != nil {
			return store.NilHandle, err
		}
		h, _ := st.MapGet(args[0], key)
		return h, nil
	}
	return store.NilHandle, fmt.Errorf("get on %s", t)
}

func builtinPrint(st *store.State, args []store.Handle) (store.Handle, error) {
	for i, arg := range args {
		if i > 0 {
			fmt.Fprint(Output, " ")
		}
		fmt.Fprint(Output, store.Format(st, arg))
	}
	fmt.Fprintln(Output)
	return store.NilHandle, nil
}

func builtinStr(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 1 {
		return store.NilHandle, errors.New("str takes one argument")
	}
	return st.String(store.Format(st, args[0]))
}

// ---------------------------------------------------------------------------
// std module
// ---------------------------------------------------------------------------

func stdAppend(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 2 {
		return store.NilHandle, errors.New("std.append takes a list and a value")
	}
	if err := st.ListAppend(args[0], args[1]); err != nil {
		return store.NilHandle, err
	}
	return args[0], nil
}

func stdInsert(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 3 {
		return store.NilHandle, errors.New("std.insert takes a list, an index, and a value")
	}
	i, err := st.IntValue(args[1])
	if err != nil {
		return store.NilHandle, err
	}
	if err := st.ListInsert(args[0], args[2], int(i)); err != nil {
		return store.NilHandle, err
	}
	return args[0], nil
}

// std.del removes a list index or a map key.
func stdDel(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 2 {
		return store.NilHandle, errors.New("std.del takes a container and a key")
	}
	t, err := st.TypeOf(args[0])
	if err != nil {
		return store.NilHandle, err
	}
	switch t {
	case store.TypeList:
		i, err := st.IntValue(args[1])
		if err != nil {
			return store.NilHandle, err
		}
		if err := st.ListDel(args[0], int(i)); err != nil {
			return store.NilHandle, err
		}
		return args[0], nil
	case store.TypeMap:
		key, err := st.StringValue(args[1])
		if err != nil {
			return store.NilHandle, err
		}
		if err := st.MapDel(args[0], key); err != nil {
			return store.NilHandle, err
		}
		return args[0], nil
	}
	return store.NilHandle, fmt.Errorf("std.del on %s", t)
}

func stdPut(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 3 {
		return store.NilHandle, errors.New("std.put takes a map, a key, and a value")
	}
	key, err := st.StringValue(args[1])
	if err != nil {
		return store.NilHandle, err
	}
	if err := st.MapInsert(args[0], key, args[2]); err != nil {
		return store.NilHandle, err
	}
	return args[0], nil
}

func stdKeys(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 1 {
		return store.NilHandle, errors.New("std.keys takes a map")
	}
	t, err := st.TypeOf(args[0])
	if err != nil {
		return store.NilHandle, err
	}
	if t != store.TypeMap {
		return store.NilHandle, fmt.Errorf("std.keys on %s", t)
	}
	names, _ := st.MapPairs(args[0])
	lst, err := st.NewList()
	if err != nil {
		return store.NilHandle, err
	}
	for _, name := range names {
		h, err := st.String(name)
		if err != nil {
			return store.NilHandle, err
		}
		if err := st.ListAppend(lst, h); err != nil {
			return store.NilHandle, err
		}
	}
	return lst, nil
}

func stdType(st *store.State, args []store.Handle) (store.Handle, error) {
	if len(args) != 1 {
		return store.NilHandle, errors.New("std.type takes one argument")
	}
	t, err := st.TypeOf(args[0])
	if err != nil {
		return store.NilHandle, err
	}
	return st.String(t.String())
}
