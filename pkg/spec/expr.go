package spec

import (
	"encoding/json"
	"fmt"
	"math"
)

// Expr is a parameter expression appearing in a recipe. The JSON forms:
//
//	120.5              literal (discouraged; recipes should name parameters)
//	"wall"             parameter reference
//	["+", "wall", 8]   operator application: + - * / min max
//
// The array form mirrors the prefix notation of the Lisp surface this
// replaced, which keeps recipes declarative without a parser.
type Expr struct {
	kind exprKind
	lit  float64
	name string // parameter name, or operator for exprCall
	args []Expr
}

type exprKind int

const (
	exprInvalid exprKind = iota
	exprLiteral
	exprParam
	exprCall
)

// Lit returns a literal expression. Used by tests and generated specs.
func Lit(v float64) Expr { return Expr{kind: exprLiteral, lit: v} }

// Param returns a parameter-reference expression.
func Param(name string) Expr { return Expr{kind: exprParam, name: name} }

// IsZero reports whether the expression is absent.
func (e Expr) IsZero() bool { return e.kind == exprInvalid }

// UnmarshalJSON accepts a number, a string, or an operator array.
func (e *Expr) UnmarshalJSON(b []byte) error {
	var lit float64
	if err := json.Unmarshal(b, &lit); err == nil {
		*e = Expr{kind: exprLiteral, lit: lit}
		return nil
	}

	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		if name == "" {
			return fmt.Errorf("empty parameter reference")
		}
		*e = Expr{kind: exprParam, name: name}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("expression must be a number, string, or array")
	}
	if len(raw) < 2 {
		return fmt.Errorf("operator expression needs an operator and at least one argument")
	}
	var op string
	if err := json.Unmarshal(raw[0], &op); err != nil {
		return fmt.Errorf("operator must be a string")
	}
	switch op {
	case "+", "-", "*", "/", "min", "max":
	default:
		return fmt.Errorf("unknown operator %q", op)
	}
	args := make([]Expr, len(raw)-1)
	for i, r := range raw[1:] {
		if err := json.Unmarshal(r, &args[i]); err != nil {
			return fmt.Errorf("argument %d of %q: %w", i+1, op, err)
		}
	}
	*e = Expr{kind: exprCall, name: op, args: args}
	return nil
}

// Eval resolves the expression against the parameter map.
func (e Expr) Eval(params map[string]float64) (float64, error) {
	switch e.kind {
	case exprLiteral:
		return e.lit, nil
	case exprParam:
		v, ok := params[e.name]
		if !ok {
			return 0, fmt.Errorf("undefined parameter %q", e.name)
		}
		return v, nil
	case exprCall:
		vals := make([]float64, len(e.args))
		for i, a := range e.args {
			v, err := a.Eval(params)
			if err != nil {
				return 0, err
			}
			vals[i] = v
		}
		return applyOp(e.name, vals)
	default:
		return 0, fmt.Errorf("missing expression")
	}
}

func applyOp(op string, vals []float64) (float64, error) {
	switch op {
	case "+":
		acc := 0.0
		for _, v := range vals {
			acc += v
		}
		return acc, nil
	case "-":
		if len(vals) == 1 {
			return -vals[0], nil
		}
		acc := vals[0]
		for _, v := range vals[1:] {
			acc -= v
		}
		return acc, nil
	case "*":
		acc := 1.0
		for _, v := range vals {
			acc *= v
		}
		return acc, nil
	case "/":
		if len(vals) != 2 {
			return 0, fmt.Errorf("%q takes exactly 2 arguments, got %d", op, len(vals))
		}
		if vals[1] == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return vals[0] / vals[1], nil
	case "min":
		acc := vals[0]
		for _, v := range vals[1:] {
			acc = math.Min(acc, v)
		}
		return acc, nil
	case "max":
		acc := vals[0]
		for _, v := range vals[1:] {
			acc = math.Max(acc, v)
		}
		return acc, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}

// walk visits the expression tree, reporting parameter references and
// whether any literal appears. Used by spec validation.
func (e Expr) walk(onParam func(name string), onLiteral func()) {
	switch e.kind {
	case exprLiteral:
		if onLiteral != nil {
			onLiteral()
		}
	case exprParam:
		if onParam != nil {
			onParam(e.name)
		}
	case exprCall:
		for _, a := range e.args {
			a.walk(onParam, onLiteral)
		}
	}
}
