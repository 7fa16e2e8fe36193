//go:build linux

package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartEchoesResults(t *testing.T) {
	in := strings.NewReader("1 + 2\nexit\n")
	var out bytes.Buffer

	code := Start(in, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "3")
}

func TestStartReportsParseErrors(t *testing.T) {
	in := strings.NewReader("1 + abc\nexit\n")
	var out bytes.Buffer

	Start(in, &out)

	assert.Contains(t, out.String(), "error: unknown token")
}

func TestStartSkipsEmptyLines(t *testing.T) {
	in := strings.NewReader("\n\n1\nexit\n")
	var out bytes.Buffer

	Start(in, &out)

	// Two empty lines just re-prompt; only the "1" line produces a result.
	assert.Equal(t, 1, strings.Count(out.String(), "1\n"))
}

func TestStartExitsOnEOF(t *testing.T) {
	in := strings.NewReader("1\n")
	var out bytes.Buffer

	code := Start(in, &out)
	assert.Equal(t, 0, code)
}

func TestStartExitCommand(t *testing.T) {
	in := strings.NewReader("exit\n1\n")
	var out bytes.Buffer

	Start(in, &out)

	// The line after 'exit' must never be evaluated.
	assert.NotContains(t, out.String(), "\n1\n")
}
