package store

import (
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Value formatting
// ---------------------------------------------------------------------------

// maxFormatDepth bounds recursion for self-referential containers.
const maxFormatDepth = 8

// Format renders the value behind h in cora literal syntax. Invalid
// handles render as #<invalid> rather than failing; this is a display
// surface, not part of the error contract.
func Format(st *State, h Handle) string {
	var b strings.Builder
	formatTo(&b, st, h, 0)
	return b.String()
}

func formatTo(b *strings.Builder, st *State, h Handle, depth int) {
	if depth > maxFormatDepth {
		b.WriteString("...")
		return
	}
	t, err := st.TypeOf(h)
	if err != nil {
		b.WriteString("#<invalid>")
		return
	}

	switch t {
	case TypeNil:
		b.WriteString("nil")

	case TypeInt:
		x, _ := st.IntValue(h)
		b.WriteString(strconv.FormatInt(x, 10))

	case TypeFloat:
		x, _ := st.FloatValue(h)
		s := strconv.FormatFloat(x, 'g', -1, 64)
		// Keep floats distinguishable from ints in output.
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
			s += ".0"
		}
		b.WriteString(s)

	case TypeChar:
		r, _ := st.CharValue(h)
		b.WriteString(`#\`)
		b.WriteRune(r)

	case TypeString:
		s, _ := st.StringValue(h)
		b.WriteString(strconv.Quote(s))

	case TypeBool:
		x, _ := st.BoolValue(h)
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case TypeList:
		b.WriteByte('(')
		for i, item := range st.ListItems(h) {
			if i > 0 {
				b.WriteByte(' ')
			}
			formatTo(b, st, item, depth+1)
		}
		b.WriteByte(')')

	case TypeMap:
		names, values := st.MapPairs(h)
		b.WriteByte('{')
		for i := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(names[i])
			b.WriteString(": ")
			formatTo(b, st, values[i], depth+1)
		}
		b.WriteByte('}')
	}
}
