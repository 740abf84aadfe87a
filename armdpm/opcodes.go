package armdpm

// ARM opcodes the DPM injects through ITR, encoded by a tiny helper table
// rather than hand-transcribed as hex constants — same rationale as
// mipspracc/asm.go: a generator can't silently drift out of sync the way a
// column of magic numbers can.

// mcr encodes "MCR coproc, op1, Rt, CRn, CRm, op2" — move Rt into a
// coprocessor register.
func mcr(coproc, op1, rt, crn, crm, op2 uint32) uint32 {
	return 0xEE000010 | coproc<<8 | op1<<21 | rt<<12 | crn<<16 | crm<<0 | op2<<5
}

// mrc encodes "MRC coproc, op1, Rt, CRn, CRm, op2" — move a coprocessor
// register into Rt.
func mrc(coproc, op1, rt, crn, crm, op2 uint32) uint32 {
	return 0xEE100010 | coproc<<8 | op1<<21 | rt<<12 | crn<<16 | crm<<0 | op2<<5
}

// movR0R15 is "MOV r0, r15".
const movR0R15 = 0xE1A0000F

// movR15R0 is "MOV r15, r0".
const movR15R0 = 0xE1A0F000

// mrs encodes "MRS Rd, CPSR" (spsr=0) or "MRS Rd, SPSR" (spsr=1).
func mrs(rd uint32, spsr bool) uint32 {
	op := uint32(0xE10F0000) | rd<<12
	if spsr {
		op |= 1 << 22
	}
	return op
}

// msrCPSR is "MSR CPSR_cxsf, Rn" (spsr=0) or "MSR SPSR_cxsf, Rn" (spsr=1),
// all fields.
func msrCPSR(rn uint32, spsr bool) uint32 {
	op := uint32(0xE12FF000) | rn
	if spsr {
		op |= 1 << 22
	}
	return op
}

// dccToReg moves DTRRX to Rt: "MRC p14, 0, Rt, c0, c5, 0".
func dccToReg(rt uint32) uint32 { return mrc(14, 0, rt, 0, 5, 0) }

// regToDCC moves Rt to DTRTX: "MCR p14, 0, Rt, c0, c5, 0".
func regToDCC(rt uint32) uint32 { return mcr(14, 0, rt, 0, 5, 0) }

// prefetchFlush is "MCR p15, 0, r0, c7, c5, 4", issued after any write that
// changes CPSR execution state.
const prefetchFlushOp = 0

func prefetchFlush() uint32 { return mcr(15, 0, 0, 7, 5, 4) }

// icimvau and dcimvac invalidate one cache line (by MVA) from the I-cache
// and D-cache respectively. The address is supplied in r0 beforehand.
func icimvau() uint32 { return mcr(15, 0, 0, 7, 5, 1) }
func dcimvac() uint32 { return mcr(15, 0, 0, 7, 6, 1) }

// mrcCP15 / mcrCP15 read/write an arbitrary CP15 register through r0.
func mrcCP15(op1, crn, crm, op2 uint32) uint32 { return mrc(15, op1, 0, crn, crm, op2) }
func mcrCP15(op1, crn, crm, op2 uint32) uint32 { return mcr(15, op1, 0, crn, crm, op2) }

// ARMV5_BKPT / ARMV5_T_BKPT are the ARM and Thumb software breakpoint
// opcodes, immediate 0x11 in both cases (any non-zero immediate works; 0x11
// is the value every known-working snippet in the wild uses).
func armBKPT(imm uint32) uint32 {
	return 0xE1200070 | (imm&0xFFF0)<<4 | imm&0xF
}

func thumbBKPT(imm uint32) uint32 {
	return 0xBE00 | imm&0xFF
}

const bkptImmediate = 0x11
