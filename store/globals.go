package store

import (
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------------
// Global bindings and the native registry
// ---------------------------------------------------------------------------

// NativeFunc is a host-defined function callable from cora code. It
// receives the state and the evaluated argument handles and returns a
// result handle; a function with nothing to return returns the nil
// handle.
type NativeFunc func(st *State, args []Handle) (Handle, error)

// ModuleDef names one function of a module.
type ModuleDef struct {
	Name string
	Func NativeFunc
}

// Define binds name to value in the global binding table, replacing any
// prior binding. The only failure is ErrNoMemory, since the table is an
// arena-backed map; a replaced value handle is not freed.
func (st *State) Define(name string, value Handle) error {
	return st.MapInsert(st.globals, name, value)
}

// Lookup resolves a global binding.
func (st *State) Lookup(name string) (Handle, bool) {
	return st.MapGet(st.globals, name)
}

// GlobalNames returns the bound global names in definition order.
func (st *State) GlobalNames() []string {
	names, _ := st.MapPairs(st.globals)
	return names
}

// DefineFunction registers fn under name. Redefinition silently replaces
// the prior entry with no warning and no error. The registry lives in host
// memory, not the arena: Go function values cannot be encoded as bytes,
// which is also why images do not carry natives and hosts re-register
// them after a load.
func (st *State) DefineFunction(name string, fn NativeFunc) error {
	if fn == nil {
		return fmt.Errorf("store: nil function for %q", name)
	}
	st.natives[name] = fn
	return nil
}

// DefineModule registers every definition in defs under the qualified
// name "module.function", atomically: a bad definition fails the whole
// module before any entry lands.
func (st *State) DefineModule(module string, defs []ModuleDef) error {
	for _, d := range defs {
		if d.Func == nil {
			return fmt.Errorf("store: nil function for %q in module %q", d.Name, module)
		}
	}
	for _, d := range defs {
		st.natives[module+"."+d.Name] = d.Func
	}
	return nil
}

// Native returns the registered function for a (possibly qualified) name.
func (st *State) Native(name string) (NativeFunc, bool) {
	fn, ok := st.natives[name]
	return fn, ok
}

// NativeNames returns all registered native names, sorted.
func (st *State) NativeNames() []string {
	names := make([]string, 0, len(st.natives))
	for name := range st.natives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes a registered native by name.
func (st *State) Call(name string, args []Handle) (Handle, error) {
	fn, ok := st.natives[name]
	if !ok {
		return NilHandle, fmt.Errorf("store: undefined function %q", name)
	}
	return fn(st, args)
}
