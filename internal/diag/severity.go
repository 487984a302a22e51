package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevTrace is for very verbose engine tracing.
	SevTrace Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError marks a diagnostic that fails the run.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevTrace:
		return "trace"
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
