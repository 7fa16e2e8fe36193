package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurGoodman/jit-calc/evaluator"
	"github.com/ArthurGoodman/jit-calc/lexer"
)

func parseAndEval(t *testing.T, input string) float64 {
	t.Helper()
	tree, err := Parse(lexer.New(input))
	require.NoError(t, err)
	v, err := evaluator.Eval(tree)
	require.NoError(t, err)
	return v
}

func TestPrecedence(t *testing.T) {
	assert.Equal(t, 14.0, parseAndEval(t, "2+3*4"))
	assert.Equal(t, 20.0, parseAndEval(t, "(2+3)*4"))
}

func TestLeftAssociativity(t *testing.T) {
	assert.Equal(t, 3.0, parseAndEval(t, "8-3-2"))
	assert.Equal(t, 2.0, parseAndEval(t, "12/3/2"))
}

func TestCaretIsLeftAssociative(t *testing.T) {
	// (2^3)^2 = 8^2 = 64, not 2^(3^2) = 2^9 = 512.
	assert.Equal(t, 64.0, parseAndEval(t, "2^3^2"))
}

func TestUnaryFoldingAcrossCaret(t *testing.T) {
	assert.Equal(t, -9.0, parseAndEval(t, "-3^2"))
}

func TestSignedCaretOperandDoesNotExtendChain(t *testing.T) {
	// 2^-2 = 0.25; confirms a sign on one ^'s right-hand side is scoped
	// to that operand, distinct from a leading factor sign.
	assert.Equal(t, 0.25, parseAndEval(t, "2^-2"))
	// (2^-1)^3 = 0.125, not 2^-(1^3) = 0.5: the sign does not swallow the
	// rest of the chain.
	assert.Equal(t, 0.125, parseAndEval(t, "2^-1^3"))
}

func TestTrailingDotNumber(t *testing.T) {
	assert.Equal(t, 3.0, parseAndEval(t, "3."))
	assert.Equal(t, 3.5, parseAndEval(t, "3.5"))
}

func TestLeadingUnaryMinus(t *testing.T) {
	assert.Equal(t, 3.0, parseAndEval(t, "-2+5"))
}

func TestUnmatchedParentheses(t *testing.T) {
	_, err := Parse(lexer.New("(1+2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmatched parentheses")
}

func TestUnknownToken(t *testing.T) {
	_, err := Parse(lexer.New("1 + abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token")
	assert.Contains(t, err.Error(), "abc")
}

func TestUnexpectedEndOfExpression(t *testing.T) {
	_, err := Parse(lexer.New("1 + "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of expression")
}

func TestExcessPartOfExpression(t *testing.T) {
	_, err := Parse(lexer.New("1 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excess part of expression")
}

func TestDivisionByZeroIsNotAnError(t *testing.T) {
	v := parseAndEval(t, "1/0")
	assert.True(t, math.IsInf(v, 1))
}
