package model

import "cascade/internal/value"

// Properties is an ordered name-to-value map seeded from a workbench call's
// parameters. Every entry must become non-None before the node is valid.
type Properties struct {
	order []string
	items map[string]value.Value
}

func NewProperties() *Properties {
	return &Properties{items: make(map[string]value.Value)}
}

// Set stores a property, keeping first-insertion order.
func (p *Properties) Set(name string, v value.Value) {
	if _, ok := p.items[name]; !ok {
		p.order = append(p.order, name)
	}
	p.items[name] = v
}

func (p *Properties) Get(name string) (value.Value, bool) {
	v, ok := p.items[name]
	return v, ok
}

func (p *Properties) Len() int { return len(p.order) }

// Range visits properties in insertion order.
func (p *Properties) Range(fn func(name string, v value.Value) bool) {
	for _, name := range p.order {
		if !fn(name, p.items[name]) {
			return
		}
	}
}

// Uninitialized returns the names still holding None, in insertion order.
func (p *Properties) Uninitialized() []string {
	var out []string
	for _, name := range p.order {
		if !p.items[name].Valid() {
			out = append(out, name)
		}
	}
	return out
}
