package mipspracc

import "testing"

import "github.com/probelab/dbgcore/test"

// invariant: the four PrAcc regions never overlap from the engine's point
// of view, and a resolveRead/resolveWrite round-trip through any of them
// returns exactly what was stored.
func TestResolveParamRegions(t *testing.T) {
	ctx := &execContext{
		code:     []uint32{0xaaaa0000, 0xaaaa0004, 0xaaaa0008},
		paramIn:  []uint32{0x11111111, 0x22222222},
		paramOut: make([]uint32, 2),
	}

	v, err := ctx.resolveRead(PraccText + 4)
	test.NoError(t, err)
	test.Equate(t, v, uint32(0xaaaa0004))

	v, err = ctx.resolveRead(PraccParamIn + 4)
	test.NoError(t, err)
	test.Equate(t, v, uint32(0x22222222))

	test.NoError(t, ctx.resolveWrite(PraccParamOut+0, 0xdeadbeef))
	v, err = ctx.resolveRead(PraccParamOut + 0)
	test.NoError(t, err)
	test.Equate(t, v, uint32(0xdeadbeef))

	_, err = ctx.resolveRead(PraccText + 100)
	test.ExpectedError(t, err)
}

// invariant: PraccStack behaves as a LIFO, not a flat region — push then
// push then pop returns the second value, not the first.
func TestResolveStackLIFO(t *testing.T) {
	ctx := &execContext{}

	test.NoError(t, ctx.resolveWrite(PraccStack, 1))
	test.NoError(t, ctx.resolveWrite(PraccStack, 2))

	v, err := ctx.resolveRead(PraccStack)
	test.NoError(t, err)
	test.Equate(t, v, uint32(2))

	v, err = ctx.resolveRead(PraccStack)
	test.NoError(t, err)
	test.Equate(t, v, uint32(1))

	_, err = ctx.resolveRead(PraccStack)
	test.ExpectedError(t, err)
}

// invariant 8: ReadRegs/WriteRegs' wire order lines up GPRs 0-31 at
// indices 0-31 and status/lo/hi/badvaddr/cause/pc at 32-37, matching
// mips32_pracc_read_regs/write_regs' store/load offsets exactly.
func TestRegWireOrder(t *testing.T) {
	test.Equate(t, regStatusIdx, 32)
	test.Equate(t, regLoIdx, 33)
	test.Equate(t, regHiIdx, 34)
	test.Equate(t, regBadVAddrIdx, 35)
	test.Equate(t, regCauseIdx, 36)
	test.Equate(t, regPCIdx, 37)
	test.Equate(t, RegCount, 38)
}

// readRegsCode/writeRegsCode must each assemble to a well-formed snippet
// (non-empty, and terminated by the branch-back-to-start the PrAcc loop
// relies on to detect completion).
func TestRegSnippetsWellFormed(t *testing.T) {
	for _, code := range [][]uint32{readRegsCode(), writeRegsCode(), readU32Code(), writeU32Code()} {
		test.ExpectedSuccess(t, len(code) > 0)
		// the final word is always the branch's delay slot; the
		// second-to-last is the branch itself, opcode 0x04 (BEQ) per b().
		branch := code[len(code)-2]
		opcode := branch >> 26
		test.Equate(t, opcode, uint32(0x04))
	}
}
