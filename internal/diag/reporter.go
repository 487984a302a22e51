package diag

import "cascade/internal/source"

// Reporter is the minimal contract for engine phases to emit diagnostics.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes ...Note)
}

// BagReporter writes every report into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes ...Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, ...Note) {}

// Error reports an error-level diagnostic.
func Error(r Reporter, code Code, primary source.Span, msg string, notes ...Note) {
	if r != nil {
		r.Report(code, SevError, primary, msg, notes...)
	}
}

// Warning reports a warning-level diagnostic.
func Warning(r Reporter, code Code, primary source.Span, msg string, notes ...Note) {
	if r != nil {
		r.Report(code, SevWarning, primary, msg, notes...)
	}
}

// Info reports an info-level diagnostic.
func Info(r Reporter, code Code, primary source.Span, msg string, notes ...Note) {
	if r != nil {
		r.Report(code, SevInfo, primary, msg, notes...)
	}
}
