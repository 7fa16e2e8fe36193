package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/ArthurGoodman/jit-calc/ast"
	"github.com/ArthurGoodman/jit-calc/compiler"
	"github.com/ArthurGoodman/jit-calc/evaluator"
	"github.com/ArthurGoodman/jit-calc/jit"
	"github.com/ArthurGoodman/jit-calc/lexer"
	"github.com/ArthurGoodman/jit-calc/parser"
	"github.com/ArthurGoodman/jit-calc/vm"
)

var engine = flag.String("engine", "all", "use 'tree', 'vm', 'jit', or 'all'")
var iterations = flag.Int("n", 1000000, "number of evaluations to time")

// input is the fixed benchmark expression: five copies of the source
// benchmark's arithmetic joined by '+', exercising Add, Sub, Mul and Div
// (it contains no '^', so Pow is not timed).
const input = "2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6 + 2 * (3 + 1/2) - 6"

func main() {
	flag.Parse()

	l := lexer.New(input)
	tree, err := parser.Parse(l)
	if err != nil {
		fmt.Printf("parse error: %s\n", err)
		return
	}

	bytecode, err := compiler.Compile(tree)
	if err != nil {
		fmt.Printf("compile error: %s\n", err)
		return
	}

	if *engine == "all" || *engine == "tree" {
		runTree(tree, *iterations)
	}
	if *engine == "all" || *engine == "vm" {
		runVM(bytecode, *iterations)
	}
	if *engine == "all" || *engine == "jit" {
		runJIT(bytecode, *iterations)
	}
}

func runTree(tree ast.Node, n int) {
	var sum float64
	start := time.Now()
	for i := 0; i < n; i++ {
		result, err := evaluator.Eval(tree)
		if err != nil {
			fmt.Printf("engine=tree error=%s\n", err)
			return
		}
		sum += result
	}
	duration := time.Since(start)

	fmt.Printf("engine=tree sum=%v duration=%s\n", sum, duration)
}

func runVM(bytecode *compiler.Bytecode, n int) {
	var sum float64
	start := time.Now()
	for i := 0; i < n; i++ {
		machine := vm.New(bytecode)
		result, err := machine.Run()
		if err != nil {
			fmt.Printf("engine=vm error=%s\n", err)
			return
		}
		sum += result
	}
	duration := time.Since(start)

	fmt.Printf("engine=vm sum=%v duration=%s\n", sum, duration)
}

func runJIT(bytecode *compiler.Bytecode, n int) {
	routine, err := jit.Compile(bytecode)
	if err != nil {
		fmt.Printf("engine=jit error=%s\n", err)
		return
	}
	defer routine.Release()

	var sum float64
	start := time.Now()
	for i := 0; i < n; i++ {
		sum += routine.Call()
	}
	duration := time.Since(start)

	fmt.Printf("engine=jit sum=%v duration=%s\n", sum, duration)
}
