package mipspracc

// Minimal MIPS32 assembler used only to build the handful of debug-vector
// snippets this package injects. It produces real MIPS32 instruction
// encodings (the same opcodes OpenOCD's mips32_pracc.c macros expand to) so
// that a snippet dumped from this package is recognisable machine code, not
// an opaque token stream.

func rType(opcode, rs, rt, rd, shamt, funct uint32) uint32 {
	return opcode<<26 | (rs&0x1f)<<21 | (rt&0x1f)<<16 | (rd&0x1f)<<11 | (shamt&0x1f)<<6 | funct&0x3f
}

func iType(opcode, rs, rt uint32, imm int32) uint32 {
	return opcode<<26 | (rs&0x1f)<<21 | (rt&0x1f)<<16 | uint32(imm)&0xffff
}

func nop() uint32 { return 0 }

func lui(rt uint32, imm16 uint32) uint32     { return iType(0x0f, 0, rt, int32(imm16)) }
func ori(rt, rs uint32, imm16 uint32) uint32 { return iType(0x0d, rs, rt, int32(imm16)) }
func addi(rt, rs uint32, imm int32) uint32   { return iType(0x08, rs, rt, imm) }

func lw(rt, base uint32, offset int32) uint32  { return iType(0x23, base, rt, offset) }
func sw(rt, base uint32, offset int32) uint32  { return iType(0x2b, base, rt, offset) }
func lhu(rt, base uint32, offset int32) uint32 { return iType(0x25, base, rt, offset) }
func lbu(rt, base uint32, offset int32) uint32 { return iType(0x24, base, rt, offset) }

func beq(rs, rt uint32, offsetInstrs int32) uint32 { return iType(0x04, rs, rt, offsetInstrs) }
func bne(rs, rt uint32, offsetInstrs int32) uint32 { return iType(0x05, rs, rt, offsetInstrs) }
func b(offsetInstrs int32) uint32                  { return beq(0, 0, offsetInstrs) }

func mtc0(rt, rd uint32) uint32 { return rType(0x10, 0x04, rt, rd, 0, 0) }
func mfc0(rt, rd uint32) uint32 { return rType(0x10, 0x00, rt, rd, 0, 0) }

func mtlo(rs uint32) uint32 { return rType(0, rs, 0, 0, 0, 0x13) }
func mthi(rs uint32) uint32 { return rType(0, rs, 0, 0, 0, 0x11) }
func mflo(rd uint32) uint32 { return rType(0, 0, 0, rd, 0, 0x12) }
func mfhi(rd uint32) uint32 { return rType(0, 0, 0, rd, 0, 0x10) }

func upper16(v uint32) uint32 { return v >> 16 }
func lower16(v uint32) uint32 { return v & 0xffff }

// GPR numbers used by the snippets below, named the way mips32_pracc.c's
// register arguments read.
const (
	r0 uint32 = iota
	r1
	r2
	r3
	r4
	r5
	r6
	r7
	r8
	r9
	r10
	r11
	r12
	r13
	r14
	r15
)
