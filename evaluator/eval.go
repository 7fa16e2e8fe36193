// Package evaluator is the Tree Evaluator: the reference semantics for an
// expression tree, direct post-order evaluation in IEEE-754 double
// precision. It is the oracle the VM and JIT must agree with.
package evaluator

import (
	"fmt"
	"math"

	"github.com/ArthurGoodman/jit-calc/ast"
)

// ops dispatches a Binary node's operator to its float64 implementation,
// the same name-keyed-dispatch shape as a builtin-function table, now
// keyed on ast.BinOp instead of an identifier string.
var ops = map[ast.BinOp]func(left, right float64) float64{
	ast.Add: func(left, right float64) float64 { return left + right },
	ast.Sub: func(left, right float64) float64 { return left - right },
	ast.Mul: func(left, right float64) float64 { return left * right },
	ast.Div: func(left, right float64) float64 { return left / right },
	ast.Pow: math.Pow,
}

// Eval evaluates node in post order. Division by zero yields ±Inf or NaN
// per IEEE-754, never an error — numeric anomalies are valid results, not
// failures.
func Eval(node ast.Node) (float64, error) {
	switch node := node.(type) {
	case ast.Number:
		return node.Value, nil

	case ast.Binary:
		left, err := Eval(node.Left)
		if err != nil {
			return 0, err
		}

		right, err := Eval(node.Right)
		if err != nil {
			return 0, err
		}

		fn, ok := ops[node.Op]
		if !ok {
			return 0, fmt.Errorf("evaluator: unknown operator %s", node.Op)
		}

		return fn(left, right), nil

	default:
		return 0, fmt.Errorf("evaluator: unknown node type %T", node)
	}
}
