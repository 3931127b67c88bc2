package spec

import (
	"encoding/json"
	"math"
	"testing"
)

func mustExpr(t *testing.T, src string) Expr {
	t.Helper()
	var e Expr
	if err := json.Unmarshal([]byte(src), &e); err != nil {
		t.Fatalf("unmarshal %s: %v", src, err)
	}
	return e
}

func TestExprEval(t *testing.T) {
	params := map[string]float64{
		"wall":   2.8,
		"base_x": 140,
		"taper":  0.85,
	}

	cases := []struct {
		src  string
		want float64
	}{
		{`42`, 42},
		{`2.5`, 2.5},
		{`"wall"`, 2.8},
		{`["+", "wall", 8]`, 10.8},
		{`["+", 1, 2, 3, 4]`, 10},
		{`["-", "base_x", "wall"]`, 137.2},
		{`["-", "base_x", "wall", "wall"]`, 134.4},
		{`["-", "base_x", "wall", -1]`, 138.2},
		{`["-", 5]`, -5},
		{`["*", "base_x", "taper"]`, 119},
		{`["*", 2, 3, 4]`, 24},
		{`["/", "base_x", 2]`, 70},
		{`["min", "wall", 8, 3]`, 2.8},
		{`["max", "wall", 8, 3]`, 8},
		{`["+", ["*", "base_x", "taper"], ["-", "wall"]]`, 116.2},
	}
	for _, c := range cases {
		e := mustExpr(t, c.src)
		got, err := e.Eval(params)
		if err != nil {
			t.Fatalf("eval %s: %v", c.src, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("eval %s = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestExprEvalErrors(t *testing.T) {
	params := map[string]float64{"wall": 2.8}

	cases := []string{
		`"missing"`,
		`["+", "wall", "missing"]`,
		`["/", "wall", 0]`,
		`["/", 1, 2, 3]`,
	}
	for _, src := range cases {
		e := mustExpr(t, src)
		if _, err := e.Eval(params); err == nil {
			t.Fatalf("eval %s: expected error", src)
		}
	}

	var zero Expr
	if _, err := zero.Eval(params); err == nil {
		t.Fatal("eval of zero expression: expected error")
	}
}

func TestExprUnmarshalErrors(t *testing.T) {
	cases := []string{
		`""`,
		`[]`,
		`["+"]`,
		`["pow", 2, 3]`,
		`[1, 2]`,
		`{"op": "+"}`,
		`["+", true]`,
	}
	for _, src := range cases {
		var e Expr
		if err := json.Unmarshal([]byte(src), &e); err == nil {
			t.Fatalf("unmarshal %s: expected error", src)
		}
	}
}

func TestExprIsZero(t *testing.T) {
	var zero Expr
	if !zero.IsZero() {
		t.Fatal("zero value should report IsZero")
	}
	if Lit(0).IsZero() {
		t.Fatal("literal 0 is a present expression, not zero-valued")
	}
	if Param("wall").IsZero() {
		t.Fatal("parameter reference should not report IsZero")
	}
}
