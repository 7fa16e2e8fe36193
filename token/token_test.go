package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "+", Plus.String())
	assert.Equal(t, "end of expression", End.String())
	assert.Equal(t, "invalid", Kind(999).String())
}

func TestLookupChar(t *testing.T) {
	cases := []struct {
		r    rune
		kind Kind
	}{
		{'+', Plus},
		{'-', Minus},
		{'*', Star},
		{'/', Slash},
		{'^', Caret},
		{'(', LParen},
		{')', RParen},
	}

	for _, c := range cases {
		kind, ok := LookupChar(c.r)
		assert.True(t, ok, "expected %q to be recognized", c.r)
		assert.Equal(t, c.kind, kind)
	}

	_, ok := LookupChar('a')
	assert.False(t, ok)
}
