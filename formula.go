package blockbuilder

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Formula is a compiled user expression over x and y. A formula that failed
// to compile evaluates to 0 everywhere. Not safe for concurrent use.
type Formula struct {
	source  string
	program *vm.Program
	env     map[string]any
	err     error
}

func formulaEnv() map[string]any {
	return map[string]any{
		"x":     0.0,
		"y":     0.0,
		"PI":    math.Pi,
		"E":     math.E,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"atan2": math.Atan2,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"sqrt":  math.Sqrt,
		"pow":   math.Pow,
		"exp":   math.Exp,
		"log":   math.Log,
		"hypot": math.Hypot,
	}
}

// CompileFormula compiles src. The returned Formula is always usable; Err
// reports why it degrades to 0.
func CompileFormula(src string) *Formula {
	f := &Formula{source: src, env: formulaEnv()}
	// Accept the Math.sin(x) spelling.
	cleaned := strings.ReplaceAll(strings.TrimSpace(src), "Math.", "")
	if cleaned == "" {
		f.err = fmt.Errorf("formula: empty expression")
		return f
	}
	program, err := expr.Compile(cleaned, expr.Env(f.env))
	if err != nil {
		f.err = fmt.Errorf("formula %q: %w", src, err)
		return f
	}
	f.program = program
	return f
}

func (f *Formula) Source() string { return f.source }

func (f *Formula) Err() error { return f.err }

// Raw evaluates the expression at (x, y). Any failure yields 0.
func (f *Formula) Raw(x, y float64) float64 {
	v, _ := f.eval(x, y)
	return v
}

// Value maps the raw result from [-1,1] onto [0,1]. Any failure yields 0.
func (f *Formula) Value(x, y float64) float64 {
	v, ok := f.eval(x, y)
	if !ok {
		return 0
	}
	return clamp01((v + 1) / 2)
}

func (f *Formula) eval(x, y float64) (v float64, ok bool) {
	if f == nil || f.program == nil {
		return 0, false
	}
	defer func() {
		if recover() != nil {
			v, ok = 0, false
		}
	}()
	f.env["x"] = x
	f.env["y"] = y
	out, err := expr.Run(f.program, f.env)
	if err != nil {
		return 0, false
	}
	switch n := out.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
