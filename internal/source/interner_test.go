package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()

	a := in.Intern("circle")
	b := in.Intern("circle")
	if a != b {
		t.Fatalf("same string interned to %d and %d", a, b)
	}
	if got := in.MustLookup(a); got != "circle" {
		t.Fatalf("lookup = %q", got)
	}
}

func TestInternerEmptyString(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string interned to %d, want NoStringID", id)
	}
	if in.Len() != 1 {
		t.Fatalf("len = %d, want 1", in.Len())
	}
}

func TestInternerNFCNormalization(t *testing.T) {
	in := NewInterner()

	// "é" precomposed vs "e" + combining acute.
	a := in.Intern("café")
	b := in.Intern("café")
	if a != b {
		t.Fatalf("NFC-equivalent strings interned to %d and %d", a, b)
	}
}

func TestInternerInvalidLookup(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(999)); ok {
		t.Fatal("lookup of invalid ID must fail")
	}
}
