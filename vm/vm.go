// Package vm is the stack interpreter for package code's bytecode: a
// dispatch loop over the byte stream running in 64-bit floating point.
package vm

import (
	"fmt"
	"math"

	"github.com/ArthurGoodman/jit-calc/code"
	"github.com/ArthurGoodman/jit-calc/compiler"
)

// VM holds a preallocated f64 stack sized to the program's reported
// maximum depth, and a pointer into it. This is the preallocated form
// spec.md recommends — the one the JIT backend mirrors — over a naive
// growable stack.
type VM struct {
	instructions code.Instructions

	stack []float64
	sp    int // always points to the next free slot; top of stack is [sp-1]
}

// New creates a VM for bytecode, with a stack sized to its reported
// MaxDepth.
func New(bytecode *compiler.Bytecode) *VM {
	return &VM{
		instructions: bytecode.Instructions,
		stack:        make([]float64, bytecode.MaxDepth),
	}
}

// Run executes the program to completion and returns the value returned
// by its Ret instruction.
func (vm *VM) Run() (float64, error) {
	for ip := 0; ip < len(vm.instructions); ip++ {
		op := code.Opcode(vm.instructions[ip])

		switch op {
		case code.Push:
			def, _ := code.Lookup(byte(op))
			operand, read := code.ReadOperand(def, vm.instructions[ip+1:])
			ip += read

			vm.push(operand)

		case code.Add:
			right := vm.pop()
			left := vm.pop()
			vm.push(left + right)

		case code.Sub:
			right := vm.pop()
			left := vm.pop()
			vm.push(left - right)

		case code.Mul:
			right := vm.pop()
			left := vm.pop()
			vm.push(left * right)

		case code.Div:
			right := vm.pop()
			left := vm.pop()
			vm.push(left / right)

		case code.Pow:
			right := vm.pop()
			left := vm.pop()
			vm.push(math.Pow(left, right))

		case code.Ret:
			return vm.pop(), nil

		default:
			return 0, fmt.Errorf("invalid byte code: opcode %d", op)
		}
	}

	return 0, fmt.Errorf("invalid byte code: program did not end in Ret")
}

func (vm *VM) push(v float64) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() float64 {
	vm.sp--
	return vm.stack[vm.sp]
}
