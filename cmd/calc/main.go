// Command calc is the interactive calculator's process entry point: it
// wires standard input/output into the REPL and exits with the code the
// REPL reports.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/ArthurGoodman/jit-calc/repl"
)

var trace = flag.Bool("trace", false, "log each line read before evaluating it")

func main() {
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(0)
	repl.SetTrace(*trace)

	if *trace {
		log.Printf("calc: starting REPL, trace enabled")
	}

	os.Exit(repl.Start(os.Stdin, os.Stdout))
}
