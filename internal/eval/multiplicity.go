package eval

import "cascade/internal/value"

// ArgumentMap is one fully bound set of arguments, parameter name to value.
type ArgumentMap map[string]value.Value

// Coefficient is the bound form of one parameter: a fixed Single value or
// a Multi list that fans the call out.
type Coefficient struct {
	Multi  bool
	Single value.Value
	Values []value.Value
}

// SingleCoeff wraps a fixed value.
func SingleCoeff(v value.Value) Coefficient {
	return Coefficient{Single: v}
}

// MultiCoeff wraps a fan-out list.
func MultiCoeff(vs []value.Value) Coefficient {
	return Coefficient{Multi: true, Values: vs}
}

// len is the number of alternatives this coefficient contributes.
func (c Coefficient) len() int {
	if c.Multi {
		return len(c.Values)
	}
	return 1
}

func (c Coefficient) at(i int) value.Value {
	if c.Multi {
		return c.Values[i]
	}
	return c.Single
}

// MultiArgumentMap maps parameters to coefficients, kept in parameter
// declaration order so expansion is deterministic.
type MultiArgumentMap struct {
	names  []string
	coeffs []Coefficient
}

func NewMultiArgumentMap() *MultiArgumentMap {
	return &MultiArgumentMap{}
}

// Set appends or replaces the coefficient for name. Insertion order is the
// binding order; BindArguments inserts in parameter declaration order.
func (m *MultiArgumentMap) Set(name string, c Coefficient) {
	for i, n := range m.names {
		if n == name {
			m.coeffs[i] = c
			return
		}
	}
	m.names = append(m.names, name)
	m.coeffs = append(m.coeffs, c)
}

// Count is the number of combinations the cross product yields. An empty
// map counts one (the empty ArgumentMap); any zero-length Multi makes it
// zero.
func (m *MultiArgumentMap) Count() int {
	n := 1
	for _, c := range m.coeffs {
		n *= c.len()
	}
	return n
}

// Combinations starts a restartable cross-product walk. Parameters stay in
// declaration order and the last-declared Multi parameter varies fastest.
func (m *MultiArgumentMap) Combinations() *Combinations {
	c := &Combinations{m: m}
	c.Reset()
	return c
}

// Combinations enumerates the ArgumentMaps of a MultiArgumentMap.
type Combinations struct {
	m    *MultiArgumentMap
	idx  []int
	done bool
}

// Reset rewinds to the first combination.
func (c *Combinations) Reset() {
	c.idx = make([]int, len(c.m.coeffs))
	c.done = c.m.Count() == 0
}

// Next returns the next ArgumentMap, or ok=false when exhausted. Every map
// returned is freshly allocated.
func (c *Combinations) Next() (ArgumentMap, bool) {
	if c.done {
		return nil, false
	}
	out := make(ArgumentMap, len(c.m.names))
	for i, name := range c.m.names {
		out[name] = c.m.coeffs[i].at(c.idx[i])
	}

	// Advance the rightmost position, carrying leftwards.
	for i := len(c.idx) - 1; ; i-- {
		if i < 0 {
			c.done = true
			break
		}
		c.idx[i]++
		if c.idx[i] < c.m.coeffs[i].len() {
			break
		}
		c.idx[i] = 0
	}
	return out, true
}
