package eval

import (
	"fmt"
	"io"
	"os"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/model"
	"cascade/internal/resolve"
	"cascade/internal/source"
	"cascade/internal/value"
)

// Evaluated is the outcome of one expression: a plain value, zero or more
// model nodes, or both empty after a recoverable error.
type Evaluated struct {
	Value  value.Value
	Models []*model.Model
}

func valueResult(v value.Value) Evaluated     { return Evaluated{Value: v} }
func modelResult(ms ...*model.Model) Evaluated { return Evaluated{Value: value.None, Models: ms} }

// Frame is one entry of the evaluation stack: the resolved symbol being
// invoked, its bound arguments, and the locals of its body.
type Frame struct {
	Symbol   *resolve.Symbol
	Scope    *resolve.Symbol
	Args     ArgumentMap
	CallSpan source.Span

	locals   map[string]value.Value
	props    *model.Properties
	children []*model.Model
	returned bool
	retValue value.Value
}

// Context threads everything evaluation needs: the resolver for name
// lookups, the reporter for recoverable errors, and the frame stack.
type Context struct {
	fs       *source.FileSet
	reporter diag.Reporter
	bag      *diag.Bag
	resolver *resolve.Resolver

	// Stdout receives `__builtin::print` output.
	Stdout io.Writer

	frames []*Frame
	// consts memoizes module-level assignment symbols; the in-progress
	// sentinel breaks self-referential definitions.
	consts map[*resolve.Symbol]*constEntry
	// plists memoizes evaluated parameter declarations per definition.
	plists map[*resolve.Symbol]*ParameterValueList
}

type constEntry struct {
	val  value.Value
	busy bool
}

// NewContext builds an evaluation context. bag may be nil; when set, the
// evaluator aborts once the bag's error limit is reached.
func NewContext(fs *source.FileSet, resolver *resolve.Resolver, reporter diag.Reporter, bag *diag.Bag) *Context {
	return &Context{
		fs:       fs,
		reporter: reporter,
		bag:      bag,
		resolver: resolver,
		Stdout:   os.Stdout,
		consts:   make(map[*resolve.Symbol]*constEntry),
	}
}

// Reporter exposes the diagnostics sink, for builtins.
func (c *Context) Reporter() diag.Reporter { return c.reporter }

func (c *Context) aborted() bool {
	return c.bag != nil && c.bag.LimitReached()
}

func (c *Context) push(f *Frame) *Frame {
	if f.locals == nil {
		f.locals = make(map[string]value.Value, len(f.Args))
	}
	for name, v := range f.Args {
		f.locals[name] = v
	}
	c.frames = append(c.frames, f)
	return f
}

func (c *Context) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *Context) frame() *Frame {
	return c.frames[len(c.frames)-1]
}

// Depth is the current call-stack depth.
func (c *Context) Depth() int { return len(c.frames) }

// stackNotes renders the active call stack as diagnostic notes, innermost
// first, skipping the file-level frame.
func (c *Context) stackNotes() []diag.Note {
	var notes []diag.Note
	for i := len(c.frames) - 1; i > 0; i-- {
		f := c.frames[i]
		if f.Symbol == nil {
			continue
		}
		notes = append(notes, diag.Note{
			Span: f.CallSpan,
			Msg:  fmt.Sprintf("in call to '%s'", f.Symbol.FullName()),
		})
	}
	return notes
}

func (c *Context) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(c.reporter, code, span, fmt.Sprintf(format, args...), c.stackNotes()...)
}

// lookupLocal searches only the innermost frame; lexical nesting is handled
// through the symbol tree, not through outer frames.
func (c *Context) lookupLocal(name string) (value.Value, bool) {
	if len(c.frames) == 0 {
		return value.None, false
	}
	v, ok := c.frame().locals[name]
	return v, ok
}

func (c *Context) setLocal(name string, v value.Value) {
	f := c.frame()
	f.locals[name] = v
	if f.props != nil {
		f.props.Set(name, v)
	}
}

// EvalFile evaluates a file's statements under its module scope and returns
// the root group holding every produced model.
func (c *Context) EvalFile(file *ast.File, scope *resolve.Symbol) *model.Model {
	f := c.push(&Frame{Scope: scope})
	defer c.pop()

	c.evalStatements(file.Statements)

	root := model.New(model.Group{})
	for _, m := range f.children {
		root.Append(m)
	}
	root.InferOutputType()
	return root
}
