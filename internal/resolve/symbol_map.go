package resolve

// SymbolMap is an ordered map from Identifier to *Symbol. Iteration follows
// insertion order, which is declaration order for scope bodies.
type SymbolMap struct {
	order []Identifier
	index map[Identifier]*Symbol
}

func NewSymbolMap() *SymbolMap {
	return &SymbolMap{index: make(map[Identifier]*Symbol)}
}

// Insert binds name to sym, replacing an existing binding without
// disturbing its position.
func (m *SymbolMap) Insert(name Identifier, sym *Symbol) {
	if _, exists := m.index[name]; !exists {
		m.order = append(m.order, name)
	}
	m.index[name] = sym
}

func (m *SymbolMap) Get(name Identifier) (*Symbol, bool) {
	s, ok := m.index[name]
	return s, ok
}

func (m *SymbolMap) Len() int {
	return len(m.order)
}

// Range calls f for each entry in insertion order until f returns false.
func (m *SymbolMap) Range(f func(name Identifier, sym *Symbol) bool) {
	for _, name := range m.order {
		if !f(name, m.index[name]) {
			return
		}
	}
}
