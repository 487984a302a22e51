package eval

import (
	"testing"

	"cascade/internal/diag"
	"cascade/internal/source"
	"cascade/internal/value"
)

func TestCombinationsScalarOnly(t *testing.T) {
	m := NewMultiArgumentMap()
	m.Set("x", SingleCoeff(value.Int(1)))
	m.Set("y", SingleCoeff(value.Int(2)))

	if m.Count() != 1 {
		t.Fatalf("count = %d", m.Count())
	}
	c := m.Combinations()
	am, ok := c.Next()
	if !ok || !am["x"].Equal(value.Int(1)) || !am["y"].Equal(value.Int(2)) {
		t.Fatalf("first = %v, ok=%v", am, ok)
	}
	if _, ok := c.Next(); ok {
		t.Fatal("expected exhaustion after one combination")
	}
}

func TestCombinationsFanOut(t *testing.T) {
	m := NewMultiArgumentMap()
	m.Set("x", MultiCoeff([]value.Value{value.Int(0), value.Int(10), value.Int(20)}))
	m.Set("y", SingleCoeff(value.Int(5)))

	if m.Count() != 3 {
		t.Fatalf("count = %d", m.Count())
	}
	c := m.Combinations()
	for i, want := range []int64{0, 10, 20} {
		am, ok := c.Next()
		if !ok {
			t.Fatalf("exhausted at %d", i)
		}
		if am["x"].I != want || am["y"].I != 5 {
			t.Errorf("combo %d = %v", i, am)
		}
	}
	if _, ok := c.Next(); ok {
		t.Fatal("expected 3 combinations")
	}
}

func TestCombinationsCrossProductOrder(t *testing.T) {
	m := NewMultiArgumentMap()
	m.Set("x", MultiCoeff([]value.Value{value.Int(1), value.Int(2)}))
	m.Set("y", MultiCoeff([]value.Value{value.Int(10), value.Int(20), value.Int(30)}))

	if m.Count() != 6 {
		t.Fatalf("count = %d", m.Count())
	}

	// Declaration order with the last parameter varying fastest.
	want := [][2]int64{
		{1, 10}, {1, 20}, {1, 30},
		{2, 10}, {2, 20}, {2, 30},
	}
	c := m.Combinations()
	for i, w := range want {
		am, ok := c.Next()
		if !ok {
			t.Fatalf("exhausted at %d", i)
		}
		if am["x"].I != w[0] || am["y"].I != w[1] {
			t.Errorf("combo %d = (%d, %d), want %v", i, am["x"].I, am["y"].I, w)
		}
	}
	if _, ok := c.Next(); ok {
		t.Fatal("expected 6 combinations")
	}
}

func TestCombinationsZeroLengthMulti(t *testing.T) {
	m := NewMultiArgumentMap()
	m.Set("x", MultiCoeff(nil))
	m.Set("y", SingleCoeff(value.Int(1)))

	if m.Count() != 0 {
		t.Fatalf("count = %d", m.Count())
	}
	if _, ok := m.Combinations().Next(); ok {
		t.Fatal("zero-length multi yielded a combination")
	}
}

func TestCombinationsReset(t *testing.T) {
	m := NewMultiArgumentMap()
	m.Set("x", MultiCoeff([]value.Value{value.Int(1), value.Int(2)}))

	c := m.Combinations()
	c.Next()
	c.Next()
	c.Reset()
	am, ok := c.Next()
	if !ok || am["x"].I != 1 {
		t.Fatalf("after reset: %v, ok=%v", am, ok)
	}
}

func bindParams() *ParameterValueList {
	return params(
		p("x", value.NumberT),
		p("y", value.NumberT),
		pd("z", value.NumberT, value.Number(0)),
	)
}

func bindWith(t *testing.T, plist *ParameterValueList, args []CallArg) (*MultiArgumentMap, bool, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	mam, ok := BindArguments(plist, args, source.Span{}, diag.BagReporter{Bag: bag})
	return mam, ok, bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestBindNamedAndPositional(t *testing.T) {
	mam, ok, _ := bindWith(t, bindParams(), []CallArg{
		{Name: "y", Value: value.Int(2)},
		{Value: value.Int(1)},
	})
	if !ok {
		t.Fatal("bind failed")
	}
	am, _ := mam.Combinations().Next()
	if am["x"].N != 1 || am["y"].N != 2 || am["z"].N != 0 {
		t.Fatalf("bound = %v", am)
	}
}

func TestBindMissingArguments(t *testing.T) {
	_, ok, bag := bindWith(t, bindParams(), []CallArg{
		{Value: value.Int(1)},
	})
	if ok {
		t.Fatal("bind succeeded with missing y")
	}
	if !hasCode(bag, diag.EvalMissingArguments) {
		t.Fatal("no MissingArguments diagnostic")
	}
	msg := bag.Items()[0].Message
	if msg != "missing arguments: y" {
		t.Errorf("message = %q", msg)
	}
}

func TestBindUnexpectedArgument(t *testing.T) {
	_, ok, bag := bindWith(t, bindParams(), []CallArg{
		{Value: value.Int(1)}, {Value: value.Int(2)},
		{Name: "w", Value: value.Int(3)},
	})
	if ok {
		t.Fatal("bind succeeded with unknown argument")
	}
	if !hasCode(bag, diag.EvalUnexpectedArgument) {
		t.Fatal("no UnexpectedArgument diagnostic")
	}
}

func TestBindDuplicateArgument(t *testing.T) {
	_, ok, bag := bindWith(t, bindParams(), []CallArg{
		{Name: "x", Value: value.Int(1)},
		{Name: "x", Value: value.Int(2)},
		{Name: "y", Value: value.Int(3)},
	})
	if ok {
		t.Fatal("bind succeeded with duplicate argument")
	}
	if !hasCode(bag, diag.EvalDuplicateCallArgument) {
		t.Fatal("no DuplicateCallArgument diagnostic")
	}
}

func TestBindListFanOut(t *testing.T) {
	mam, ok, _ := bindWith(t, bindParams(), []CallArg{
		{Name: "x", Value: value.List(value.Int(0), value.Int(10), value.Int(20))},
		{Name: "y", Value: value.Int(1)},
	})
	if !ok {
		t.Fatal("bind failed")
	}
	if mam.Count() != 3 {
		t.Fatalf("count = %d", mam.Count())
	}
}

func TestBindListToListParamStaysSingle(t *testing.T) {
	plist := params(p("xs", value.ListOf(value.KindNumber)))
	mam, ok, _ := bindWith(t, plist, []CallArg{
		{Name: "xs", Value: value.List(value.Number(1), value.Number(2))},
	})
	if !ok {
		t.Fatal("bind failed")
	}
	if mam.Count() != 1 {
		t.Fatalf("list-typed parameter fanned out: count = %d", mam.Count())
	}
}

func TestBindTypeMismatch(t *testing.T) {
	_, ok, bag := bindWith(t, bindParams(), []CallArg{
		{Name: "x", Value: value.Str("nope")},
		{Name: "y", Value: value.Int(1)},
	})
	if ok {
		t.Fatal("bind succeeded with mismatched type")
	}
	if !hasCode(bag, diag.EvalTypeMismatch) {
		t.Fatal("no TypeMismatch diagnostic")
	}
}
