package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics for one pass. It enforces a limit on the
// number of error-level diagnostics: once the limit is reached further
// errors are dropped and the pass is expected to abort.
type Bag struct {
	items     []Diagnostic
	maxErrors int
	errors    int
	truncated bool
}

// DefaultErrorLimit caps error diagnostics when no explicit limit is set.
const DefaultErrorLimit = 100

// NewBag creates a Bag that accepts at most maxErrors error diagnostics.
// maxErrors <= 0 selects DefaultErrorLimit.
func NewBag(maxErrors int) *Bag {
	if maxErrors <= 0 {
		maxErrors = DefaultErrorLimit
	}
	return &Bag{
		items:     make([]Diagnostic, 0, 16),
		maxErrors: maxErrors,
	}
}

// Add records a diagnostic. Returns false if the diagnostic was dropped
// because the error limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity >= SevError {
		if b.errors >= b.maxErrors {
			b.truncated = true
			return false
		}
		b.errors++
	}
	b.items = append(b.items, d)
	return true
}

// ErrorCount returns the number of recorded error diagnostics.
func (b *Bag) ErrorCount() int {
	return b.errors
}

// HasErrors reports whether any error diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

// LimitReached reports whether the error limit was hit; the current pass
// should abort once this turns true.
func (b *Bag) LimitReached() bool {
	return b.truncated || b.errors >= b.maxErrors
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the recorded diagnostics. The slice aliases the Bag's
// internal storage and must not be modified.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends all diagnostics from other.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort orders diagnostics by file, start, end, severity (desc), code for a
// deterministic report.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup removes diagnostics repeating an earlier Code+Primary pair.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%d:%s", d.Code, d.Primary.String())
		if seen[key] {
			if d.Severity >= SevError {
				b.errors--
			}
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	b.items = out
}
