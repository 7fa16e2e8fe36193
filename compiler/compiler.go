// Package compiler lowers an expression tree (package ast) into a
// bytecode program (package code): the Bytecode Emitter of the pipeline.
package compiler

import (
	"fmt"

	"github.com/ArthurGoodman/jit-calc/ast"
	"github.com/ArthurGoodman/jit-calc/code"
)

// Compiler walks an expression tree once, emitting bytecode as it goes.
// There is no backpatching: unlike a language with branches, this opcode
// set has no jumps, so every emit is final.
type Compiler struct {
	instructions code.Instructions
}

// New creates an empty Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Compile emits bytecode for node, appending to the Compiler's in-progress
// instruction stream.
func (c *Compiler) Compile(node ast.Node) error {
	switch node := node.(type) {
	case ast.Number:
		c.emit(code.Push, node.Value)

	case ast.Binary:
		if err := c.Compile(node.Left); err != nil {
			return err
		}
		if err := c.Compile(node.Right); err != nil {
			return err
		}

		switch node.Op {
		case ast.Add:
			c.emit(code.Add, 0)
		case ast.Sub:
			c.emit(code.Sub, 0)
		case ast.Mul:
			c.emit(code.Mul, 0)
		case ast.Div:
			c.emit(code.Div, 0)
		case ast.Pow:
			c.emit(code.Pow, 0)
		default:
			return fmt.Errorf("compiler: unknown operator %s", node.Op)
		}

	default:
		return fmt.Errorf("compiler: unknown node type %T", node)
	}

	return nil
}

// Bytecode is the result of a compilation: a program ending in exactly one
// Ret, plus the maximum operand-stack depth the VM and JIT need to
// provision for it.
type Bytecode struct {
	Instructions code.Instructions
	MaxDepth     int
}

// Finish appends the trailing Ret and returns the finished program. The
// caller fills in MaxDepth — Finish alone has no way to know the static
// depth of the tree that produced these instructions.
func (c *Compiler) Finish() *Bytecode {
	c.emit(code.Ret, 0)

	return &Bytecode{Instructions: c.instructions}
}

// Compile is a convenience wrapper: compile tree, finish, and report the
// resulting program's maximum operand-stack depth in one call. MaxDepth
// comes from ast.Depth rather than runtime bookkeeping during emission —
// package code's StackEffect table and the tree's static shape already
// agree on it, so there is only one source of truth to maintain.
func Compile(tree ast.Node) (*Bytecode, error) {
	c := New()
	if err := c.Compile(tree); err != nil {
		return nil, err
	}

	bytecode := c.Finish()
	bytecode.MaxDepth = ast.Depth(tree)

	if err := code.Verify(bytecode.Instructions); err != nil {
		return nil, fmt.Errorf("compiler: internal error: %w", err)
	}

	return bytecode, nil
}

func (c *Compiler) emit(op code.Opcode, operand float64) int {
	ins := code.Make(op, operand)
	return c.addInstruction(ins)
}

func (c *Compiler) addInstruction(ins []byte) int {
	pos := len(c.instructions)
	c.instructions = append(c.instructions, ins...)
	return pos
}
