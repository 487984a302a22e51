package diag

import (
	"testing"

	"cascade/internal/source"
)

func errAt(code Code, start, end uint32) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  "boom",
		Primary:  source.Span{Start: start, End: end},
	}
}

func TestBagErrorLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(errAt(EvalTypeMismatch, 0, 1)) {
		t.Fatal("first error rejected")
	}
	if !b.Add(errAt(EvalTypeMismatch, 1, 2)) {
		t.Fatal("second error rejected")
	}
	if b.Add(errAt(EvalTypeMismatch, 2, 3)) {
		t.Fatal("third error must be dropped")
	}
	if !b.LimitReached() {
		t.Fatal("limit must be reported as reached")
	}
	if b.ErrorCount() != 2 {
		t.Fatalf("error count = %d, want 2", b.ErrorCount())
	}

	// Non-errors still pass after the limit.
	ok := b.Add(Diagnostic{Severity: SevWarning, Code: UnknownCode})
	if !ok {
		t.Fatal("warnings must not be capped by the error limit")
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(0)
	if b.HasErrors() {
		t.Fatal("empty bag has no errors")
	}
	b.Add(Diagnostic{Severity: SevWarning})
	if b.HasErrors() {
		t.Fatal("warning is not an error")
	}
	b.Add(errAt(ResSymbolNotFound, 0, 1))
	if !b.HasErrors() {
		t.Fatal("error not detected")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(0)
	b.Add(errAt(ResSymbolNotFound, 10, 12))
	b.Add(errAt(EvalTypeMismatch, 2, 4))
	b.Add(Diagnostic{Severity: SevWarning, Code: RenderMixedOutput, Primary: source.Span{Start: 2, End: 4}})
	b.Sort()

	items := b.Items()
	if items[0].Code != EvalTypeMismatch {
		t.Fatalf("first after sort = %v", items[0].Code)
	}
	// Same span: higher severity first.
	if items[1].Code != RenderMixedOutput {
		t.Fatalf("second after sort = %v", items[1].Code)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(errAt(ResSymbolNotFound, 5, 8))
	b.Add(errAt(ResSymbolNotFound, 5, 8))
	b.Dedup()
	if b.Len() != 1 || b.ErrorCount() != 1 {
		t.Fatalf("dedup left %d items, %d errors", b.Len(), b.ErrorCount())
	}
}
