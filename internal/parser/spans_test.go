package parser

import (
	"testing"

	"cascade/internal/diag"
	"cascade/internal/source"
	"cascade/internal/testkit"
)

func TestParseSpanInvariants(t *testing.T) {
	src := `
use std::math;

gear_teeth = 24;

pub part gear(module: Number, teeth: Int = 24) {
	radius = module * teeth / 2;
	if teeth > 0 {
		circle(radius = radius);
	} else {
		circle(radius = 1);
	}
}

op ring() {
	difference() {
		@children;
		scale(s = 0.8) { @children; }
	}
}

#[export("gear.svg")]
ring() gear(module = 1.5, teeth = [12, 24]);
`
	fs := source.NewFileSet()
	id := fs.AddVirtual("spans.cad", []byte(src))
	bag := diag.NewBag(0)
	file := ParseFile(fs.Get(id), source.NewInterner(), diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("parse diagnostics: %+v", bag.Items())
	}
	if err := testkit.CheckSpanInvariants(file, fs.Get(id)); err != nil {
		t.Fatal(err)
	}
}
