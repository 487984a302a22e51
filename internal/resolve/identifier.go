package resolve

import "strings"

// Identifier is one segment of a qualified name. Identifiers originate from
// the lexer's interner, so equal names share their backing storage.
type Identifier = string

// QualifiedName is a `::`-separated path of identifiers.
type QualifiedName []Identifier

// Name builds a QualifiedName from segments.
func Name(segments ...string) QualifiedName {
	return QualifiedName(segments)
}

// ParseName splits a `::`-path into a QualifiedName.
func ParseName(s string) QualifiedName {
	if s == "" {
		return nil
	}
	return QualifiedName(strings.Split(s, "::"))
}

func (q QualifiedName) String() string {
	return strings.Join(q, "::")
}

// Head returns the first segment, or "".
func (q QualifiedName) Head() Identifier {
	if len(q) == 0 {
		return ""
	}
	return q[0]
}

// Tail returns the name without its first segment.
func (q QualifiedName) Tail() QualifiedName {
	if len(q) == 0 {
		return nil
	}
	return q[1:]
}

// Last returns the final segment, or "".
func (q QualifiedName) Last() Identifier {
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

// IsSubPathOf reports whether q starts with prefix.
func (q QualifiedName) IsSubPathOf(prefix QualifiedName) bool {
	if len(prefix) > len(q) {
		return false
	}
	for i, seg := range prefix {
		if q[i] != seg {
			return false
		}
	}
	return true
}

// Append returns q extended by more segments, without sharing storage.
func (q QualifiedName) Append(segments ...Identifier) QualifiedName {
	out := make(QualifiedName, 0, len(q)+len(segments))
	out = append(out, q...)
	out = append(out, segments...)
	return out
}
