package value

// Kind enumerates the scalar value kinds.
type Kind uint8

const (
	// KindInvalid marks the result of a failed evaluation. Invalid values
	// propagate without producing follow-up errors.
	KindInvalid Kind = iota
	KindInteger
	KindNumber
	KindBool
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Int"
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindList:
		return "List"
	default:
		return "Invalid"
	}
}

// Type describes a declared or inferred value type. Elem is meaningful only
// for KindList.
type Type struct {
	Kind Kind
	Elem Kind
}

var (
	Invalid = Type{Kind: KindInvalid}
	IntT    = Type{Kind: KindInteger}
	NumberT = Type{Kind: KindNumber}
	BoolT   = Type{Kind: KindBool}
	StringT = Type{Kind: KindString}
)

// ListOf returns the list type with the given element kind.
func ListOf(elem Kind) Type {
	return Type{Kind: KindList, Elem: elem}
}

func (t Type) String() string {
	if t.Kind == KindList {
		return "[" + t.Elem.String() + "]"
	}
	return t.Kind.String()
}

// ParseType maps a type annotation name to a Type; ok is false for unknown
// names.
func ParseType(name string, list bool) (Type, bool) {
	var k Kind
	switch name {
	case "Int":
		k = KindInteger
	case "Number":
		k = KindNumber
	case "Bool":
		k = KindBool
	case "String":
		k = KindString
	default:
		return Invalid, false
	}
	if list {
		return ListOf(k), true
	}
	return Type{Kind: k}, true
}

// ConvertsTo reports whether a value of type t can bind to a parameter
// declared as target. Integers widen to Number; everything else must match
// exactly.
func (t Type) ConvertsTo(target Type) bool {
	if t == target {
		return true
	}
	if t.Kind == KindInteger && target.Kind == KindNumber {
		return true
	}
	if t.Kind == KindList && target.Kind == KindList {
		return t.Elem == target.Elem ||
			(t.Elem == KindInteger && target.Elem == KindNumber)
	}
	return false
}
