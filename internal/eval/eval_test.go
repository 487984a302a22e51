package eval

import (
	"bytes"
	"strings"
	"testing"

	"cascade/internal/diag"
	"cascade/internal/geom"
	"cascade/internal/model"
	"cascade/internal/parser"
	"cascade/internal/resolve"
	"cascade/internal/source"
)

type pipeline struct {
	bag *diag.Bag
	ctx *Context
	out bytes.Buffer
}

// run parses, resolves and evaluates src, returning the root model.
func run(t *testing.T, src string) (*model.Model, *pipeline) {
	t.Helper()
	fs := source.NewFileSet()
	in := source.NewInterner()
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	id := fs.AddVirtual("main.cad", []byte(src))
	file := parser.ParseFile(fs.Get(id), in, rep)
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}

	resolver := resolve.NewResolver(fs, in, rep)
	InstallBuiltins(resolver)
	scope := resolver.ResolveFile(file)

	ctx := NewContext(fs, resolver, rep, bag)
	pl := &pipeline{bag: bag, ctx: ctx}
	ctx.Stdout = &pl.out
	return ctx.EvalFile(file, scope), pl
}

func (pl *pipeline) hasCode(code diag.Code) bool {
	return hasCode(pl.bag, code)
}

func TestEvalPrimitiveStatement(t *testing.T) {
	root, pl := run(t, `cube(1);`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	kids := root.Children()
	if len(kids) != 1 {
		t.Fatalf("children = %d", len(kids))
	}
	prim, ok := kids[0].Element.(model.Primitive)
	if !ok || prim.Name != "cube" {
		t.Fatalf("element = %#v", kids[0].Element)
	}
	if root.Output.Type != model.Geometry3D {
		t.Errorf("output type = %v", root.Output.Type)
	}
}

func TestEvalTransformChain(t *testing.T) {
	root, pl := run(t, `translate(x = 3) cube(1);`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	kids := root.Children()
	if len(kids) != 1 {
		t.Fatalf("children = %d", len(kids))
	}
	tr, ok := kids[0].Element.(model.Transform)
	if !ok {
		t.Fatalf("element = %#v", kids[0].Element)
	}
	if got := tr.Matrix.Apply(geom.Vec3{}); got.X != 3 {
		t.Errorf("translation = %v", got)
	}
	if len(kids[0].Children()) != 1 {
		t.Fatalf("transform children = %d", len(kids[0].Children()))
	}
}

func TestEvalFanOutProducesTwoModels(t *testing.T) {
	root, pl := run(t, `translate(x = [0, 10]) cube(1);`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	kids := root.Children()
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2", len(kids))
	}
	for i, wantX := range []float64{0, 10} {
		tr := kids[i].Element.(model.Transform)
		if got := tr.Matrix.Apply(geom.Vec3{}); got.X != wantX {
			t.Errorf("model %d translated by %v, want x=%v", i, got, wantX)
		}
		if len(kids[i].Children()) != 1 {
			t.Errorf("model %d children = %d", i, len(kids[i].Children()))
		}
	}
	// Fanned-out copies stay distinct nodes.
	if kids[0].Children()[0] == kids[1].Children()[0] {
		t.Error("both combinations share one child node")
	}
}

func TestEvalWorkbenchFanOut(t *testing.T) {
	root, pl := run(t, `
part p() {
	translate(x = [0, 10]) cube(1);
}
p();
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	kids := root.Children()
	if len(kids) != 1 {
		t.Fatalf("root children = %d", len(kids))
	}
	if len(kids[0].Children()) != 2 {
		t.Fatalf("workpiece children = %d, want 2", len(kids[0].Children()))
	}
}

func TestEvalOperationBody(t *testing.T) {
	root, pl := run(t, `
difference() {
	cube(2);
	translate(x = 1) cube(2);
}
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	op := root.Children()[0]
	if el, ok := op.Element.(model.Operation); !ok || el.Name != "difference" {
		t.Fatalf("element = %#v", op.Element)
	}
	if len(op.Children()) != 2 {
		t.Fatalf("operation children = %d", len(op.Children()))
	}
}

func TestEvalUserOperationSplicesChildren(t *testing.T) {
	root, pl := run(t, `
op shell() {
	@children;
	scale(s = 2) { @children; }
}
shell() { cube(1); }
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	call := root.Children()[0]
	kids := call.Children()
	if len(kids) != 2 {
		t.Fatalf("spliced children = %d", len(kids))
	}
	if _, ok := kids[0].Element.(model.Primitive); !ok {
		t.Errorf("first spliced child = %#v", kids[0].Element)
	}
	scaled := kids[1].Children()
	if len(scaled) != 1 {
		t.Fatalf("scaled children = %d", len(scaled))
	}
	if scaled[0] == kids[0] {
		t.Error("second marker reused the original node")
	}
}

func TestEvalFunctionReturn(t *testing.T) {
	root, pl := run(t, `
fn double(x: Number) {
	return x * 2;
}
cube(double(3));
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	prim := root.Children()[0].Element.(model.Primitive)
	if prim.Args[0].Value.N != 6 {
		t.Errorf("size = %v", prim.Args[0].Value)
	}
}

func TestEvalFunctionMissingReturn(t *testing.T) {
	_, pl := run(t, `
fn nothing() {
	x = 1;
}
y = nothing();
`)
	if !pl.hasCode(diag.EvalMissingReturn) {
		t.Fatal("no MissingReturn diagnostic")
	}
}

func TestEvalAssertFailure(t *testing.T) {
	_, pl := run(t, `__builtin::assert(false);`)
	if !pl.hasCode(diag.EvalAssertionFailed) {
		t.Fatal("no AssertionFailed diagnostic")
	}
	found := false
	for _, d := range pl.bag.Items() {
		if strings.Contains(d.Message, "Assertion failed: false") {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics: %v", pl.bag.Items())
	}
}

func TestEvalAssertPasses(t *testing.T) {
	_, pl := run(t, `__builtin::assert(1 + 1 == 2);`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
}

func TestEvalPrint(t *testing.T) {
	_, pl := run(t, `__builtin::print("hello");`)
	if got := pl.out.String(); got != "hello\n" {
		t.Errorf("output = %q", got)
	}
}

func TestEvalMathBuiltins(t *testing.T) {
	_, pl := run(t, `
use std::math;
__builtin::assert(math::sqrt(9) == 3);
__builtin::assert(math::max(2, 5) == 5);
__builtin::assert(math::pi > 3.14);
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
}

func TestEvalUninitializedProperties(t *testing.T) {
	_, pl := run(t, `
part leaky() {
	size = missing_name;
}
leaky();
`)
	if !pl.hasCode(diag.ResSymbolNotFound) {
		t.Fatal("no SymbolNotFound diagnostic for the bad reference")
	}
	if !pl.hasCode(diag.EvalUninitializedProps) {
		t.Fatal("no UninitializedProperties diagnostic")
	}
}

func TestEvalWorkbenchPropertiesSeeded(t *testing.T) {
	root, pl := run(t, `
part box(size: Number, depth: Number = 1) {
	cube(size);
}
box(4);
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	wp := root.Children()[0].Element.(model.Workpiece)
	if v, _ := wp.Props.Get("size"); v.N != 4 {
		t.Errorf("size = %v", v)
	}
	if v, _ := wp.Props.Get("depth"); v.N != 1 {
		t.Errorf("depth = %v", v)
	}
}

func TestEvalConditional(t *testing.T) {
	root, pl := run(t, `
big = true;
if big {
	cube(10);
} else {
	cube(1);
}
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	prim := root.Children()[0].Element.(model.Primitive)
	if prim.Args[0].Value.N != 10 {
		t.Errorf("size = %v", prim.Args[0].Value)
	}
}

func TestEvalGroupExpression(t *testing.T) {
	root, pl := run(t, `
{
	cube(1);
	sphere(2);
}
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	group := root.Children()[0]
	if _, ok := group.Element.(model.Group); !ok {
		t.Fatalf("element = %#v", group.Element)
	}
	if len(group.Children()) != 2 {
		t.Fatalf("group children = %d", len(group.Children()))
	}
}

func TestEvalMixedOutputType(t *testing.T) {
	root, _ := run(t, `
circle(1);
cube(1);
`)
	if root.Output.Type != model.InvalidMixed {
		t.Errorf("output type = %v", root.Output.Type)
	}
}

func TestEvalAttributesAttach(t *testing.T) {
	root, pl := run(t, `
#[export("out.stl"), color("red")]
cube(1);
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	m := root.Children()[0]
	if len(m.Attr.Exports) != 1 || m.Attr.Exports[0] != "out.stl" {
		t.Errorf("exports = %v", m.Attr.Exports)
	}
	if m.Attr.Color != "red" {
		t.Errorf("color = %q", m.Attr.Color)
	}
}

func TestEvalZeroLengthFanOut(t *testing.T) {
	root, pl := run(t, `translate(x = []) cube(1);`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
	if len(root.Children()) != 0 {
		t.Fatalf("children = %d, want 0", len(root.Children()))
	}
}

func TestEvalListValue(t *testing.T) {
	_, pl := run(t, `
xs = [1, 2, 3];
__builtin::assert(xs != []);
`)
	if pl.bag.HasErrors() {
		t.Fatalf("errors: %v", pl.bag.Items())
	}
}
