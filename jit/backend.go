//go:build linux

package jit

import (
	"fmt"
	"math"

	"github.com/ArthurGoodman/jit-calc/code"
	"github.com/ArthurGoodman/jit-calc/compiler"
)

// frameAlign is the stack alignment amd64's System V ABI requires at any
// `call` instruction: rsp must be a multiple of 16 immediately before
// the call pushes its return address. The prologue's `push rbp` already
// restores 16-byte alignment after the caller's `call` misaligned it by
// 8, so the frame this backend carves out of rsp just needs to itself be
// a multiple of 16.
const frameAlign = 16

// Compile translates a finished bytecode program directly into amd64
// machine code and loads it into executable memory, returning a handle
// that runs it. Every opcode is lowered the same way regardless of what
// produced the bytecode — there is nothing JIT-specific about the
// program itself, only about how this backend executes it.
func Compile(bytecode *compiler.Bytecode) (*Routine, error) {
	a := newAsm()

	// prologue
	a.pushReg(rbp)
	a.movRegReg(rbp, rsp)
	a.subRspImm32Reloc("stackSize")

	var constants []float64
	sp := 0   // bytes of frame currently holding a spilled operand
	maxSp := 0
	pushed := 0 // Push instructions seen so far in this program

	ins := bytecode.Instructions
	for ip := 0; ip < len(ins); {
		op := code.Opcode(ins[ip])
		def, err := code.Lookup(byte(op))
		if err != nil {
			return nil, err
		}
		operand, read := code.ReadOperand(def, ins[ip+1:])
		ip += 1 + read

		switch op {
		case code.Push:
			if pushed > 0 {
				sp += 8
				a.movsdStore(rbp, -int32(sp), xmm0)
				if sp > maxSp {
					maxSp = sp
				}
			}
			idx := len(constants)
			constants = append(constants, operand)
			a.movRegImm64Reloc(r11, "data", uint64(idx*8))
			a.movsdLoad(xmm0, r11, 0)
			pushed++

		case code.Add:
			a.addsdMem(xmm0, rbp, -int32(sp))
			sp -= 8

		case code.Mul:
			a.mulsdMem(xmm0, rbp, -int32(sp))
			sp -= 8

		case code.Sub:
			// xmm0 holds the right operand, [rbp-sp] the left; subsd
			// only computes dst-=src, so the operands have to be
			// swapped into place rather than subtracted in the wrong
			// order.
			a.movsdRegReg(xmm1, xmm0)
			a.movsdLoad(xmm0, rbp, -int32(sp))
			a.subsdRegReg(xmm0, xmm1)
			sp -= 8

		case code.Div:
			a.movsdRegReg(xmm1, xmm0)
			a.movsdLoad(xmm0, rbp, -int32(sp))
			a.divsdRegReg(xmm0, xmm1)
			sp -= 8

		case code.Pow:
			// System V passes the first two double args in xmm0/xmm1
			// and returns the result in xmm0 — base goes in xmm0,
			// exponent in xmm1, and the call leaves the result exactly
			// where the accumulator invariant expects it.
			a.movsdRegReg(xmm1, xmm0)
			a.movsdLoad(xmm0, rbp, -int32(sp))
			a.movRegImm64Reloc(r11, "pow", 0)
			a.callReg(r11)
			sp -= 8

		case code.Ret:
			a.leave()
			a.ret()

		default:
			return nil, fmt.Errorf("jit: unsupported opcode %d", op)
		}
	}

	frameBytes := ((maxSp + frameAlign - 1) / frameAlign) * frameAlign

	poolOffset := a.pos()
	for _, c := range constants {
		a.emitU64(math.Float64bits(c))
	}

	size := a.pos()
	p, err := newPage(size)
	if err != nil {
		return nil, err
	}
	copy(p.rw, a.buf)

	if err := a.relocs.resolve(p.rw, "stackSize", uint64(frameBytes)); err != nil {
		p.release()
		return nil, err
	}

	if err := a.relocs.resolve(p.rw, "data", uint64(p.entry(poolOffset))); err != nil {
		p.release()
		return nil, err
	}

	if containsPow(ins) {
		powAddr, err := resolvePow()
		if err != nil {
			p.release()
			return nil, err
		}
		if err := a.relocs.resolve(p.rw, "pow", uint64(powAddr)); err != nil {
			p.release()
			return nil, err
		}
	}

	if pending := a.relocs.names(); len(pending) > 0 {
		p.release()
		return nil, fmt.Errorf("jit: unresolved relocations: %v", pending)
	}

	entry := p.entry(0)
	return &Routine{page: p, native: bindEntry(entry)}, nil
}

func containsPow(ins code.Instructions) bool {
	for i := 0; i < len(ins); {
		op := code.Opcode(ins[i])
		def, err := code.Lookup(byte(op))
		if err != nil {
			return false
		}
		if op == code.Pow {
			return true
		}
		_, read := code.ReadOperand(def, ins[i+1:])
		i += 1 + read
	}
	return false
}
