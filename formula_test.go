package blockbuilder

import (
	"math"
	"testing"
)

func TestFormula_Value(t *testing.T) {
	cases := []struct {
		src  string
		x, y float64
		want float64
	}{
		{"sin(x)", 0, 0, 0.5},
		{"Math.sin(x) * Math.cos(y)", 0, 0, 0.5},
		{"x + y", 1, 2, 1},
		{"-x", 3, 0, 0},
		{"cos(PI * x)", 1, 0, 0},
		{"pow(x, 2) - 1", 1, 0, 0.5},
	}
	for _, c := range cases {
		f := CompileFormula(c.src)
		if err := f.Err(); err != nil {
			t.Fatalf("%q: %v", c.src, err)
		}
		if got := f.Value(c.x, c.y); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%q at (%v,%v) got=%v want %v", c.src, c.x, c.y, got, c.want)
		}
	}
}

func TestFormula_FailSoft(t *testing.T) {
	broken := CompileFormula("sin(")
	if broken.Err() == nil {
		t.Fatalf("expected compile error")
	}
	if got := broken.Value(1, 1); got != 0 {
		t.Fatalf("broken got=%v want 0", got)
	}

	for _, src := range []string{"sqrt(-1)", "log(0)", "x > 1", "unknownFn(x)"} {
		f := CompileFormula(src)
		if got := f.Value(2, 2); got != 0 {
			t.Fatalf("%q got=%v want 0", src, got)
		}
	}

	if got := CompileFormula("").Value(0, 0); got != 0 {
		t.Fatalf("empty got=%v want 0", got)
	}

	var nilFormula *Formula
	if got := nilFormula.Value(0, 0); got != 0 {
		t.Fatalf("nil got=%v want 0", got)
	}
}

func TestFormula_Raw(t *testing.T) {
	f := CompileFormula("x * 10 + y")
	if got := f.Raw(3, 4); got != 34 {
		t.Fatalf("got=%v want 34", got)
	}
	if f.Source() != "x * 10 + y" {
		t.Fatalf("source got=%q", f.Source())
	}
}
