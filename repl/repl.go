// Package repl implements the interactive read-eval-print shell: the
// external collaborator that drives the core pipeline from a terminal.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/ArthurGoodman/jit-calc/compiler"
	"github.com/ArthurGoodman/jit-calc/evaluator"
	"github.com/ArthurGoodman/jit-calc/jit"
	"github.com/ArthurGoodman/jit-calc/lexer"
	"github.com/ArthurGoodman/jit-calc/parser"
	"github.com/ArthurGoodman/jit-calc/vm"
)

// Prompt is printed before every line read from in.
const Prompt = "$ "

// trace gates per-line diagnostic logging; off by default. Set via
// SetTrace, normally from the -trace flag in cmd/calc.
var trace = false

// SetTrace enables or disables per-line logging of raw input before it
// reaches the pipeline, for diagnosing REPL sessions.
func SetTrace(v bool) { trace = v }

// benchmarkExpr is the fixed expression the 'test' command times under
// each tier: five copies of the source benchmark's arithmetic joined by
// '+', exercising Add, Sub, Mul and Div (it contains no '^', so Pow is
// not timed).
const benchmarkExpr = "2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6"

const benchmarkIterations = 1000000

// Start runs the REPL loop over in, writing prompts, results, and errors
// to out, until 'exit' is read or in is exhausted. It returns the
// process exit code the caller should use.
func Start(in io.Reader, out io.Writer) int {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, Prompt)

		if !scanner.Scan() {
			return 0
		}

		line := strings.TrimSpace(scanner.Text())

		if trace {
			log.Printf("repl: read %q", line)
		}

		switch line {
		case "":
			continue
		case "exit":
			return 0
		case "cls":
			clear(out)
			continue
		case "test":
			runBenchmark(out)
			continue
		}

		result, err := evalLine(line)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}

		fmt.Fprintf(out, "%.16g\n", result)
	}
}

// evalLine runs the full core pipeline over a single line: lex, parse,
// emit bytecode, JIT-compile, invoke. Per spec.md §4.7, ordinary input
// always runs through the JIT tier — the tree evaluator and VM are
// exercised directly by the 'test' benchmark and by tests, not by
// ordinary REPL input.
func evalLine(line string) (float64, error) {
	l := lexer.New(line)

	tree, err := parser.Parse(l)
	if err != nil {
		return 0, err
	}

	bytecode, err := compiler.Compile(tree)
	if err != nil {
		return 0, err
	}

	routine, err := jit.Compile(bytecode)
	if err != nil {
		return 0, err
	}
	defer routine.Release()

	return routine.Call(), nil
}

// clear writes the ANSI escape sequences that move the cursor home and
// clear the visible screen; the scrollback is left as it is. No third-party terminal library
// appears anywhere in the retrieved pack, and shelling out to `clear`/
// `cls` would make this package platform-specific in a different way;
// every ANSI-capable terminal (including Windows Terminal) honors this
// sequence, so this is the narrowest portable substitute.
func clear(out io.Writer) {
	fmt.Fprint(out, "\x1b[H\x1b[2J")
}

func runBenchmark(out io.Writer) {
	l := lexer.New(benchmarkExpr)
	tree, err := parser.Parse(l)
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	bytecode, err := compiler.Compile(tree)
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	fmt.Fprintf(out, "running %d iterations per tier...\n", benchmarkIterations)

	{
		var sum float64
		start := time.Now()
		for i := 0; i < benchmarkIterations; i++ {
			v, err := evaluator.Eval(tree)
			if err != nil {
				fmt.Fprintf(out, "tree: error: %s\n", err)
				return
			}
			sum += v
		}
		fmt.Fprintf(out, "tree: sum=%v elapsed=%s\n", sum, time.Since(start))
	}

	{
		var sum float64
		start := time.Now()
		for i := 0; i < benchmarkIterations; i++ {
			machine := vm.New(bytecode)
			v, err := machine.Run()
			if err != nil {
				fmt.Fprintf(out, "vm: error: %s\n", err)
				return
			}
			sum += v
		}
		fmt.Fprintf(out, "vm: sum=%v elapsed=%s\n", sum, time.Since(start))
	}

	{
		routine, err := jit.Compile(bytecode)
		if err != nil {
			fmt.Fprintf(out, "jit: error: %s\n", err)
			return
		}
		defer routine.Release()

		var sum float64
		start := time.Now()
		for i := 0; i < benchmarkIterations; i++ {
			sum += routine.Call()
		}
		fmt.Fprintf(out, "jit: sum=%v elapsed=%s\n", sum, time.Since(start))
	}
}
