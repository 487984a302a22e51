package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cascade/internal/diag"
	"cascade/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue, color.Bold)
	caretColor   = color.New(color.FgRed, color.Bold)
)

// Pretty renders all diagnostics of bag in a human-readable report:
//
//	error: Assertion failed: false
//	  ---> file.cad:1:19
//	     |
//	   1 | __builtin::assert(false);
//	     |                   ^^^^^
//
// The bag is expected to be sorted beforehand.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	count := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevTrace {
			continue
		}
		if opts.Max > 0 && count >= opts.Max {
			fmt.Fprintf(w, "... and %d more\n", bag.Len()-count)
			return
		}
		printDiagnostic(w, d, fs, opts)
		count++
	}
}

// Diagnosis returns the full report as a string.
func Diagnosis(bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) string {
	var sb strings.Builder
	Pretty(&sb, bag, fs, opts)
	return sb.String()
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s\n", severityLabel(d.Severity, opts.Color), d.Message)
	printSpan(w, d.Primary, fs, opts)
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s: %s\n", paint(infoColor, "note", opts.Color), n.Msg)
			printSpan(w, n.Span, fs, opts)
		}
	}
}

func printSpan(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)

	gutter := len(fmt.Sprintf("%d", start.Line))
	if gutter < 3 {
		gutter = 3
	}
	pad := strings.Repeat(" ", gutter)

	fmt.Fprintf(w, "  %s %s:%d:%d\n", paint(gutterColor, "--->", opts.Color), f.Path, start.Line, start.Col)
	fmt.Fprintf(w, "  %s%s\n", pad, paint(gutterColor, "|", opts.Color))

	line := f.Line(start.Line)
	fmt.Fprintf(w, "  %*d %s %s\n", gutter, start.Line, paint(gutterColor, "|", opts.Color), line)

	// Caret row: align under the span, using display width so that tabs and
	// wide runes keep the carets in place.
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	lead := runewidth.StringWidth(line[:col])

	span := int(sp.Len())
	if start.Line != end.Line || span == 0 {
		span = 1
	} else if col+span > len(line) {
		span = len(line) - col
		if span < 1 {
			span = 1
		}
	} else {
		span = runewidth.StringWidth(line[col : col+span])
	}

	carets := strings.Repeat("^", span)
	fmt.Fprintf(w, "  %s%s %s%s\n", pad, paint(gutterColor, "|", opts.Color),
		strings.Repeat(" ", lead), paint(caretColor, carets, opts.Color))
}

func severityLabel(s diag.Severity, colored bool) string {
	switch s {
	case diag.SevError:
		return paint(errorColor, "error", colored)
	case diag.SevWarning:
		return paint(warningColor, "warning", colored)
	default:
		return paint(infoColor, s.String(), colored)
	}
}

func paint(c *color.Color, s string, colored bool) string {
	if !colored {
		return s
	}
	return c.Sprint(s)
}
