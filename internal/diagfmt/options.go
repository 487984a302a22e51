package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// Max limits the number of printed diagnostics, 0 means unlimited.
	Max int
}
