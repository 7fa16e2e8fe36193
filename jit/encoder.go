package jit

import "encoding/binary"

// gpReg and xmmReg name the two register files the backend uses. Only a
// handful of registers are ever touched: RBP as the frame base, RSP for
// the prologue/epilogue, R11 as a scratch register for relocated
// addresses, and XMM0/XMM1 as the accumulator and its transient second
// operand. Kept as named constants anyway, in the teacher's style of
// naming things that could otherwise be bare literals.
type gpReg byte
type xmmReg byte

const (
	rax gpReg = 0
	rcx gpReg = 1
	rdx gpReg = 2
	rbx gpReg = 3
	rsp gpReg = 4
	rbp gpReg = 5
	rsi gpReg = 6
	rdi gpReg = 7
	r11 gpReg = 11
)

const (
	xmm0 xmmReg = 0
	xmm1 xmmReg = 1
)

// asm accumulates a single contiguous code buffer, byte by byte, plus a
// relocation table recording where deferred patches belong. It has no
// notion of basic blocks or labels — the backend emits opcodes strictly
// in program order, so none are needed.
type asm struct {
	buf    []byte
	relocs *relocTable
}

func newAsm() *asm {
	return &asm{relocs: newRelocTable()}
}

func (a *asm) pos() int { return len(a.buf) }

func (a *asm) emitByte(b byte) { a.buf = append(a.buf, b) }

func (a *asm) emitBytes(bs ...byte) { a.buf = append(a.buf, bs...) }

func (a *asm) emitU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	a.buf = append(a.buf, tmp[:]...)
}

func (a *asm) emitU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	a.buf = append(a.buf, tmp[:]...)
}

// rex builds a REX prefix byte (0x40 plus the W, R, X and B bits). It
// always returns a prefix; call sites that can do without one decide
// that themselves before calling it.
func rex(w, r, x, b bool) byte {
	var v byte = 0x40
	if w {
		v |= 1 << 3
	}
	if r {
		v |= 1 << 2
	}
	if x {
		v |= 1 << 1
	}
	if b {
		v |= 1 << 0
	}
	return v
}

func modrm(mod, reg, rm byte) byte {
	return (mod << 6) | ((reg & 7) << 3) | (rm & 7)
}

// --- general-purpose register instructions ---

// pushReg emits `push reg`.
func (a *asm) pushReg(reg gpReg) {
	if reg >= 8 {
		a.emitByte(rex(false, false, false, true))
	}
	a.emitByte(0x50 + byte(reg&7))
}

// movRegReg emits `mov dst, src` (64-bit).
func (a *asm) movRegReg(dst, src gpReg) {
	a.emitByte(rex(true, src >= 8, false, dst >= 8))
	a.emitBytes(0x89, modrm(0b11, byte(src), byte(dst)))
}

// subRspImm32Reloc emits `sub rsp, imm32`, reserving the 4-byte immediate
// as a deferred relocation under name (the backend passes "stackSize")
// rather than writing a value directly — the frame size isn't known until
// the whole program has been scanned.
func (a *asm) subRspImm32Reloc(name string) {
	a.emitByte(rex(true, false, false, false))
	a.emitBytes(0x81, modrm(0b11, 5, byte(rsp)))
	a.relocs.add(name, a.pos(), 4, 0)
	a.emitU32(0)
}

// movRegImm64Reloc emits `movabs reg, imm64` with the immediate left as
// a deferred relocation under name, offset by addend at resolution time.
func (a *asm) movRegImm64Reloc(reg gpReg, name string, addend uint64) {
	a.emitByte(rex(true, false, false, reg >= 8))
	a.emitByte(0xB8 + byte(reg&7))
	a.relocs.add(name, a.pos(), 8, addend)
	a.emitU64(0)
}

// callReg emits `call reg` (indirect, near).
func (a *asm) callReg(reg gpReg) {
	if reg >= 8 {
		a.emitByte(rex(false, false, false, true))
	}
	a.emitBytes(0xFF, modrm(0b11, 2, byte(reg)))
}

// leave emits `leave` (mov rsp,rbp; pop rbp, fused).
func (a *asm) leave() { a.emitByte(0xC9) }

// ret emits `ret`.
func (a *asm) ret() { a.emitByte(0xC3) }

// --- SSE2 scalar double instructions ---
//
// Every memory operand used by the backend is a base register plus a
// signed 32-bit displacement: rbp for frame slots, r11 for constant-pool
// cells. Neither base needs a SIB byte, so sib bytes never come up.

func (a *asm) sseRex(reg xmmReg, base gpReg) {
	if reg >= 8 || base >= 8 {
		a.emitByte(rex(false, reg >= 8, false, base >= 8))
	}
}

func (a *asm) movsdLoad(dst xmmReg, base gpReg, disp int32) {
	a.emitByte(0xF2)
	a.sseRex(dst, base)
	a.emitBytes(0x0F, 0x10, modrm(0b10, byte(dst), byte(base)))
	a.emitU32(uint32(disp))
}

func (a *asm) movsdStore(base gpReg, disp int32, src xmmReg) {
	a.emitByte(0xF2)
	a.sseRex(src, base)
	a.emitBytes(0x0F, 0x11, modrm(0b10, byte(src), byte(base)))
	a.emitU32(uint32(disp))
}

func (a *asm) movsdRegReg(dst, src xmmReg) {
	a.emitByte(0xF2)
	if dst >= 8 || src >= 8 {
		a.emitByte(rex(false, dst >= 8, false, src >= 8))
	}
	a.emitBytes(0x0F, 0x10, modrm(0b11, byte(dst), byte(src)))
}

func (a *asm) arithsdMem(opcode byte, dst xmmReg, base gpReg, disp int32) {
	a.emitByte(0xF2)
	a.sseRex(dst, base)
	a.emitBytes(0x0F, opcode, modrm(0b10, byte(dst), byte(base)))
	a.emitU32(uint32(disp))
}

func (a *asm) arithsdRegReg(opcode byte, dst, src xmmReg) {
	a.emitByte(0xF2)
	if dst >= 8 || src >= 8 {
		a.emitByte(rex(false, dst >= 8, false, src >= 8))
	}
	a.emitBytes(0x0F, opcode, modrm(0b11, byte(dst), byte(src)))
}

func (a *asm) addsdMem(dst xmmReg, base gpReg, disp int32)  { a.arithsdMem(0x58, dst, base, disp) }
func (a *asm) subsdMem(dst xmmReg, base gpReg, disp int32)  { a.arithsdMem(0x5C, dst, base, disp) }
func (a *asm) mulsdMem(dst xmmReg, base gpReg, disp int32)  { a.arithsdMem(0x59, dst, base, disp) }
func (a *asm) divsdMem(dst xmmReg, base gpReg, disp int32)  { a.arithsdMem(0x5E, dst, base, disp) }
func (a *asm) subsdRegReg(dst, src xmmReg)                  { a.arithsdRegReg(0x5C, dst, src) }
func (a *asm) divsdRegReg(dst, src xmmReg)                  { a.arithsdRegReg(0x5E, dst, src) }
