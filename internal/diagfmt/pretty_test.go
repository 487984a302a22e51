package diagfmt

import (
	"strings"
	"testing"

	"cascade/internal/diag"
	"cascade/internal/source"
)

func TestPrettyCaretFormat(t *testing.T) {
	fs := source.NewFileSet()
	src := "__builtin::assert(false);\n"
	id := fs.AddVirtual("file.cad", []byte(src))

	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.EvalAssertionFailed,
		Message:  "Assertion failed: false",
		Primary:  source.Span{File: id, Start: 18, End: 23},
	})

	out := Diagnosis(bag, fs, PrettyOpts{})
	for _, want := range []string{
		"error: Assertion failed: false",
		"---> file.cad:1:19",
		"1 | __builtin::assert(false);",
		"^^^^^",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	// Carets must sit under the span, 18 columns in.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "^") {
			if !strings.HasSuffix(line, "^^^^^") || !strings.Contains(line, "|                   ^^^^^") {
				t.Fatalf("caret misaligned: %q", line)
			}
		}
	}
}

func TestPrettySkipsTrace(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("x.cad", []byte("cube(1);"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevTrace, Message: "lookup"})
	if out := Diagnosis(bag, fs, PrettyOpts{}); out != "" {
		t.Fatalf("trace diagnostics must not render, got %q", out)
	}
}

func TestPrettyMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.cad", []byte("cube(1);"))
	bag := diag.NewBag(0)
	for i := 0; i < 5; i++ {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Message:  "e",
			Primary:  source.Span{File: id, Start: 0, End: 4},
		})
	}
	out := Diagnosis(bag, fs, PrettyOpts{Max: 2})
	if !strings.Contains(out, "and 3 more") {
		t.Fatalf("expected truncation notice:\n%s", out)
	}
}
