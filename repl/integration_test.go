//go:build linux

package repl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurGoodman/jit-calc/compiler"
	"github.com/ArthurGoodman/jit-calc/evaluator"
	"github.com/ArthurGoodman/jit-calc/jit"
	"github.com/ArthurGoodman/jit-calc/lexer"
	"github.com/ArthurGoodman/jit-calc/parser"
	"github.com/ArthurGoodman/jit-calc/vm"
)

// allTiers runs input through every stage of the pipeline and returns
// the tree evaluator's, the VM's, and the JIT's results together, so a
// single assertion can check all three agree.
func allTiers(t *testing.T, input string) (tree, stack, native float64) {
	t.Helper()

	l := lexer.New(input)
	n, err := parser.Parse(l)
	require.NoError(t, err)

	tree, err = evaluator.Eval(n)
	require.NoError(t, err)

	bytecode, err := compiler.Compile(n)
	require.NoError(t, err)

	machine := vm.New(bytecode)
	stack, err = machine.Run()
	require.NoError(t, err)

	routine, err := jit.Compile(bytecode)
	require.NoError(t, err)
	defer routine.Release()
	native = routine.Call()

	return tree, stack, native
}

// TestConcreteScenarios checks the numeric scenarios of the
// testable-properties table (division by zero, the benchmark expression
// and the parse errors have their own tests below): the three tiers must
// agree, the JIT within one ULP, and the pinned numeric answer must be
// what all three tiers produce.
func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 4", 2.5},
		{"2 ^ 10", 1024},
		{"-2 + 5", 3},
	}

	for _, c := range cases {
		tree, stack, native := allTiers(t, c.input)
		assert.Equal(t, c.want, tree, "tree evaluator: %s", c.input)
		assert.Equal(t, tree, stack, "vm disagrees with tree evaluator: %s", c.input)
		assert.InDelta(t, tree, native, math.Nextafter(tree, math.Inf(1))-tree, "jit disagrees with tree evaluator beyond tolerance: %s", c.input)
	}
}

func TestDivisionByZeroAgreesAcrossTiers(t *testing.T) {
	tree, stack, native := allTiers(t, "1 / 0")
	assert.True(t, math.IsInf(tree, 1))
	assert.Equal(t, tree, stack)
	assert.Equal(t, tree, native)
}

// TestBenchmarkExpressionAgreesAcrossTiers exercises the fixed benchmark
// expression without pinning its absolute value — only cross-tier
// agreement is asserted, since every opcode in play is exact in f64
// regardless of what the concatenated expression's specific value turns
// out to be.
func TestBenchmarkExpressionAgreesAcrossTiers(t *testing.T) {
	tree, stack, native := allTiers(t, benchmarkExpr)
	assert.Equal(t, tree, stack)
	assert.InDelta(t, tree, native, 1e-9)
}

func TestParseErrorScenarios(t *testing.T) {
	cases := []struct {
		input   string
		wantErr string
	}{
		{"(1+2", "unmatched parentheses"},
		{"1 + abc", "unknown token"},
		{"1 + ", "unexpected end of expression"},
		{"1 2", "excess part of expression"},
	}

	for _, c := range cases {
		_, err := parser.Parse(lexer.New(c.input))
		require.Error(t, err, c.input)
		assert.Contains(t, err.Error(), c.wantErr, c.input)
	}
}
