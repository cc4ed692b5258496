package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tagged objects: the eight value kinds
// ---------------------------------------------------------------------------

// Type is the kind tag of a tagged object. The numeric values match the
// cora wire order and must not change: images encode them directly.
type Type uint8

const (
	TypeNil Type = iota
	TypeInt
	TypeFloat
	TypeChar
	TypeString
	TypeList
	TypeMap
	TypeBool
)

var typeNames = [...]string{
	TypeNil:    "nil",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeChar:   "char",
	TypeString: "string",
	TypeList:   "list",
	TypeMap:    "map",
	TypeBool:   "bool",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Fixed payload sizes. Strings and containers are variable.
const (
	intPayloadSize   = 8
	floatPayloadSize = 8
	charPayloadSize  = 4
	boolPayloadSize  = 1
)

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Nil returns the nil handle. It never allocates.
func (st *State) Nil() Handle {
	return NilHandle
}

// Int allocates an int object initialized to x.
func (st *State) Int(x int64) (Handle, error) {
	h, err := st.alloc(intPayloadSize, TypeInt)
	if err != nil {
		return NilHandle, err
	}
	binary.LittleEndian.PutUint64(st.payload(&st.objects[h]), uint64(x))
	return h, nil
}

// Float allocates a float object initialized to x.
func (st *State) Float(x float64) (Handle, error) {
	h, err := st.alloc(floatPayloadSize, TypeFloat)
	if err != nil {
		return NilHandle, err
	}
	binary.LittleEndian.PutUint64(st.payload(&st.objects[h]), math.Float64bits(x))
	return h, nil
}

// Char allocates a char object holding the code point x.
func (st *State) Char(x rune) (Handle, error) {
	h, err := st.alloc(charPayloadSize, TypeChar)
	if err != nil {
		return NilHandle, err
	}
	binary.LittleEndian.PutUint32(st.payload(&st.objects[h]), uint32(x))
	return h, nil
}

// Bool allocates a bool object initialized to x.
func (st *State) Bool(x bool) (Handle, error) {
	h, err := st.alloc(boolPayloadSize, TypeBool)
	if err != nil {
		return NilHandle, err
	}
	if x {
		st.payload(&st.objects[h])[0] = 1
	}
	return h, nil
}

// String allocates a string object initialized to x. The payload is the
// raw byte sequence; its length lives in the handle table entry.
func (st *State) String(x string) (Handle, error) {
	h, err := st.alloc(len(x), TypeString)
	if err != nil {
		return NilHandle, err
	}
	copy(st.payload(&st.objects[h]), x)
	return h, nil
}

// ---------------------------------------------------------------------------
// Decoders
// ---------------------------------------------------------------------------

// TypeOf returns the kind tag of a live handle.
func (st *State) TypeOf(h Handle) (Type, error) {
	e, err := st.resolve(h)
	if err != nil {
		return TypeNil, err
	}
	return e.tag, nil
}

// typedPayload resolves h and validates its tag before any payload byte
// is interpreted. A wrong tag is ErrTypeMismatch, distinct from
// ErrBadHandle and ErrNoMemory.
func (st *State) typedPayload(h Handle, want Type) ([]byte, error) {
	e, err := st.resolve(h)
	if err != nil {
		return nil, err
	}
	if e.tag != want {
		return nil, fmt.Errorf("%w: handle %d is %s, want %s", ErrTypeMismatch, h, e.tag, want)
	}
	return st.payload(e), nil
}

// IntValue decodes an int object.
func (st *State) IntValue(h Handle) (int64, error) {
	p, err := st.typedPayload(h, TypeInt)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

// FloatValue decodes a float object, bit-exact.
func (st *State) FloatValue(h Handle) (float64, error) {
	p, err := st.typedPayload(h, TypeFloat)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

// CharValue decodes a char object.
func (st *State) CharValue(h Handle) (rune, error) {
	p, err := st.typedPayload(h, TypeChar)
	if err != nil {
		return 0, err
	}
	return rune(binary.LittleEndian.Uint32(p)), nil
}

// BoolValue decodes a bool object.
func (st *State) BoolValue(h Handle) (bool, error) {
	p, err := st.typedPayload(h, TypeBool)
	if err != nil {
		return false, err
	}
	return p[0] != 0, nil
}

// StringValue decodes a string object. The result is a copy; the arena
// may move before the caller is done with it.
func (st *State) StringValue(h Handle) (string, error) {
	p, err := st.typedPayload(h, TypeString)
	if err != nil {
		return "", err
	}
	return string(p), nil
}
