package value

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/lispy/pkg/intern"
)

// Resolver maps interned symbols back to their spelling.
type Resolver interface {
	Spelling(sym intern.Symbol) string
}

// Repr renders v in canonical source form: texts are double-quoted and
// lists are space separated inside parentheses. Parsing the Repr of a
// parsed tree yields an equal tree.
func Repr(v Value, names Resolver) string {
	var b strings.Builder
	writeRepr(&b, v, names)
	return b.String()
}

// Display renders v the way print shows it. A top-level text is written
// raw; everything else uses Repr.
func Display(v Value, names Resolver) string {
	if t, ok := v.(Text); ok {
		return string(t)
	}
	return Repr(v, names)
}

func writeRepr(b *strings.Builder, v Value, names Resolver) {
	switch x := v.(type) {
	case nil, Null:
		b.WriteString("None")
	case Bool:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case Rational:
		b.WriteString(x.String())
	case Text:
		b.WriteByte('"')
		b.WriteString(string(x))
		b.WriteByte('"')
	case Symbol:
		b.WriteString(spelling(names, x.ID()))
	case List:
		b.WriteByte('(')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeRepr(b, item, names)
		}
		b.WriteByte(')')
	case *Builtin:
		b.WriteString("<builtin ")
		b.WriteString(x.Name)
		b.WriteByte('>')
	case *Closure:
		b.WriteString("<lambda (")
		for i, p := range x.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(spelling(names, p))
		}
		b.WriteString(")>")
	default:
		b.WriteString("<unknown>")
	}
}

func spelling(names Resolver, sym intern.Symbol) string {
	if names == nil {
		return "#" + strconv.Itoa(int(sym))
	}
	return names.Spelling(sym)
}
