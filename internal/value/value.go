// Package value implements the runtime value model of the cascade language:
// immutable scalar and list values with a small conversion lattice.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a tagged union over the runtime kinds. The zero Value is Invalid.
type Value struct {
	Kind Kind
	I    int64
	N    float64
	B    bool
	S    string
	L    []Value
}

// None is the invalid/absent value substituted for failed evaluations.
var None = Value{Kind: KindInvalid}

func Int(v int64) Value      { return Value{Kind: KindInteger, I: v} }
func Number(v float64) Value { return Value{Kind: KindNumber, N: v} }
func Bool(v bool) Value      { return Value{Kind: KindBool, B: v} }
func Str(v string) Value     { return Value{Kind: KindString, S: v} }
func List(vs ...Value) Value { return Value{Kind: KindList, L: vs} }

// Valid reports whether the value is usable.
func (v Value) Valid() bool { return v.Kind != KindInvalid }

// Type returns the value's type. For lists the element type is unified over
// all elements; an empty list has an Invalid element kind.
func (v Value) Type() Type {
	if v.Kind != KindList {
		return Type{Kind: v.Kind}
	}
	elem := KindInvalid
	for _, e := range v.L {
		k := e.Kind
		if elem == KindInvalid {
			elem = k
			continue
		}
		if elem == k {
			continue
		}
		// Mixed Int/Number lists unify to Number.
		if (elem == KindInteger && k == KindNumber) || (elem == KindNumber && k == KindInteger) {
			elem = KindNumber
			continue
		}
		return ListOf(KindInvalid)
	}
	return ListOf(elem)
}

// AsNumber returns the numeric content of an Integer or Number value.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.I), true
	case KindNumber:
		return v.N, true
	default:
		return 0, false
	}
}

// Convert coerces v to target. Only the Int→Number widening (elementwise for
// lists) changes representation.
func (v Value) Convert(target Type) (Value, bool) {
	if !v.Type().ConvertsTo(target) {
		return None, false
	}
	switch {
	case v.Kind == KindInteger && target.Kind == KindNumber:
		return Number(float64(v.I)), true
	case v.Kind == KindList && target.Kind == KindList && target.Elem == KindNumber:
		out := make([]Value, len(v.L))
		for i, e := range v.L {
			n, _ := e.AsNumber()
			out[i] = Number(n)
		}
		return List(out...), true
	default:
		return v, true
	}
}

// Equal compares two values structurally, with Int/Number compared
// numerically.
func (v Value) Equal(other Value) bool {
	if n1, ok := v.AsNumber(); ok {
		if n2, ok2 := other.AsNumber(); ok2 {
			return n1 == n2
		}
		return false
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.B == other.B
	case KindString:
		return v.S == other.S
	case KindList:
		if len(v.L) != len(other.L) {
			return false
		}
		for i := range v.L {
			if !v.L[i].Equal(other.L[i]) {
				return false
			}
		}
		return true
	default:
		return v.Kind == other.Kind
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.I, 10)
	case KindNumber:
		return strconv.FormatFloat(v.N, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindString:
		return v.S
	case KindList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.L {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return "<invalid>"
	}
}

// Repr formats the value with its type, for diagnostics.
func (v Value) Repr() string {
	return fmt.Sprintf("%s: %s", v.String(), v.Type())
}
