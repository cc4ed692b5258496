package interp

// ---------------------------------------------------------------------------
// AST: parsed cora forms
// ---------------------------------------------------------------------------

// Node is the interface implemented by all parsed forms.
type Node interface {
	Pos() Position
	node() // marker method
}

// IntLit represents an integer literal.
type IntLit struct {
	PosVal Position
	Value  int64
}

func (n *IntLit) Pos() Position { return n.PosVal }
func (n *IntLit) node()         {}

// FloatLit represents a floating-point literal.
type FloatLit struct {
	PosVal Position
	Value  float64
}

func (n *FloatLit) Pos() Position { return n.PosVal }
func (n *FloatLit) node()         {}

// StringLit represents a string literal.
type StringLit struct {
	PosVal Position
	Value  string
}

func (n *StringLit) Pos() Position { return n.PosVal }
func (n *StringLit) node()         {}

// CharLit represents a character literal (#\a).
type CharLit struct {
	PosVal Position
	Value  rune
}

func (n *CharLit) Pos() Position { return n.PosVal }
func (n *CharLit) node()         {}

// BoolLit represents true or false.
type BoolLit struct {
	PosVal Position
	Value  bool
}

func (n *BoolLit) Pos() Position { return n.PosVal }
func (n *BoolLit) node()         {}

// NilLit represents the nil literal.
type NilLit struct {
	PosVal Position
}

func (n *NilLit) Pos() Position { return n.PosVal }
func (n *NilLit) node()         {}

// Symbol represents a name reference: a global binding or, in operator
// position, a native function.
type Symbol struct {
	PosVal Position
	Name   string
}

func (n *Symbol) Pos() Position { return n.PosVal }
func (n *Symbol) node()         {}

// Form represents a parenthesized form. Special forms and calls are
// distinguished at evaluation time, not parse time.
type Form struct {
	PosVal Position
	Items  []Node
}

func (n *Form) Pos() Position { return n.PosVal }
func (n *Form) node()         {}
