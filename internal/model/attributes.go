package model

// Attributes annotate a model node orthogonally to its structure. They
// never affect property validation or output-type inference.
type Attributes struct {
	// Exports lists target filenames from `#[export("...")]`.
	Exports []string
	Color   string
	Layer   string
	// Resolution overrides the effective linear resolution for the
	// subtree; 0 means inherit.
	Resolution float64
}

// Merge overlays o on top of a, field-wise; exports accumulate.
func (a Attributes) Merge(o Attributes) Attributes {
	out := a
	out.Exports = append(append([]string(nil), a.Exports...), o.Exports...)
	if o.Color != "" {
		out.Color = o.Color
	}
	if o.Layer != "" {
		out.Layer = o.Layer
	}
	if o.Resolution != 0 {
		out.Resolution = o.Resolution
	}
	return out
}
