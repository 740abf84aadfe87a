package mipspracc

// Debug-vector snippets. Each is built programmatically from the
// mini-assembler in asm.go rather than hand-transcribed as hex, the same
// reasoning tapstate's path table is computed by BFS instead of copied by
// hand: a generator that encodes its own branch offsets can't silently
// drift out of sync with a table of magic numbers.

// readU32Code loads the single word at the address param_in[0] names and
// stores it to param_out[0]. $15 is used as a scratch stack pointer into
// PraccStack; PraccParamIn/Out are reached as 16-bit offsets from it
// rather than a second LUI/ORI pair, since both fall within signed
// 16-bit range of PraccStack. Ten words, matching PraccStack's whole
// reason for being where it is.
func readU32Code() []uint32 {
	code := []uint32{
		mtc0(r15, cp0DeSave),
		lui(r15, upper16(PraccStack)),
		ori(r15, r15, lower16(PraccStack)),
		sw(r8, r15, 0),
		lw(r8, r15, int32(PraccParamIn-PraccStack)), // $8 = address to read
		lw(r8, r8, 0),                               // $8 = mem[$8]
		sw(r8, r15, int32(PraccParamOut-PraccStack)),
		lw(r8, r15, 0),
	}
	code = append(code, b(int32(-(len(code)+1))), mfc0(r15, cp0DeSave))
	return code
}

// writeU32Code stores param_in[1] to the address param_in[0] names. $15
// never moves once loaded with PraccStack: $8 and $9 are pushed and popped
// through the same offset-0 address, back out in LIFO order, the way the
// probe-side stack in execContext models it.
func writeU32Code() []uint32 {
	inOff := int32(PraccParamIn - PraccStack)
	code := []uint32{
		mtc0(r15, cp0DeSave),
		lui(r15, upper16(PraccStack)),
		ori(r15, r15, lower16(PraccStack)),
		sw(r8, r15, 0), // push $8
		sw(r9, r15, 0), // push $9
		lw(r9, r15, inOff),   // $9 = target address
		lw(r8, r15, inOff+4), // $8 = value to write
		sw(r8, r9, 0),
		lw(r9, r15, 0), // pop $9
		lw(r8, r15, 0), // pop $8
	}
	code = append(code, b(int32(-(len(code)+1))), mfc0(r15, cp0DeSave))
	return code
}

// readRegsCode stores all 38 register-file entries (see RegCount) to
// param_out, in the wire order the regIdx constants in regions.go describe.
func readRegsCode() []uint32 {
	code := []uint32{
		mtc0(r2, cp0DeSave),
		lui(r2, upper16(PraccParamOut)),
		ori(r2, r2, lower16(PraccParamOut)),
		sw(r0, r2, 0),
		sw(r1, r2, 1*4),
		sw(r15, r2, 15*4),
		mfc0(r2, cp0DeSave),
		mtc0(r15, cp0DeSave),
		lui(r15, upper16(PraccStack)),
		ori(r15, r15, lower16(PraccStack)),
		sw(r1, r15, 0), // push $1
		sw(r2, r15, 0), // push $2
		lui(r1, upper16(PraccParamOut)),
		ori(r1, r1, lower16(PraccParamOut)),
		sw(r2, r1, 2*4),
	}
	for reg := uint32(3); reg <= 31; reg++ {
		if reg == 15 {
			continue
		}
		code = append(code, sw(reg, r1, int32(reg*4)))
	}
	code = append(code,
		mfc0(r2, cp0Status), sw(r2, r1, regStatusIdx*4),
		mflo(r2), sw(r2, r1, regLoIdx*4),
		mfhi(r2), sw(r2, r1, regHiIdx*4),
		mfc0(r2, cp0BadVAddr), sw(r2, r1, regBadVAddrIdx*4),
		mfc0(r2, cp0Cause), sw(r2, r1, regCauseIdx*4),
		mfc0(r2, cp0DEPC), sw(r2, r1, regPCIdx*4),

		lw(r2, r15, 0), // pop $2
		lw(r1, r15, 0), // pop $1
		mfc0(r15, cp0DeSave),
		nop(),
	)
	code = append(code, b(int32(-(len(code)+1))), nop())
	return code
}

// writeRegsCode is readRegsCode's inverse: loads all 38 entries from
// param_in back into the GPR/CP0 file.
func writeRegsCode() []uint32 {
	code := []uint32{
		lui(r2, upper16(PraccParamIn)),
		ori(r2, r2, lower16(PraccParamIn)),
		lw(r1, r2, 1*4),
		lw(r15, r2, 15*4),
		mtc0(r15, cp0DeSave),
		lui(r15, upper16(PraccStack)),
		ori(r15, r15, lower16(PraccStack)),
		sw(r1, r15, 0),
		lui(r1, upper16(PraccParamIn)),
		ori(r1, r1, lower16(PraccParamIn)),
	}
	for reg := uint32(3); reg <= 31; reg++ {
		if reg == 15 {
			continue
		}
		code = append(code, lw(reg, r1, int32(reg*4)))
	}
	code = append(code,
		lw(r2, r1, regStatusIdx*4), mtc0(r2, cp0Status),
		lw(r2, r1, regLoIdx*4), mtlo(r2),
		lw(r2, r1, regHiIdx*4), mthi(r2),
		lw(r2, r1, regBadVAddrIdx*4), mtc0(r2, cp0BadVAddr),
		lw(r2, r1, regCauseIdx*4), mtc0(r2, cp0Cause),
		lw(r2, r1, regPCIdx*4), mtc0(r2, cp0DEPC),

		lw(r2, r1, 2*4),
		lw(r1, r15, 0),
		mfc0(r15, cp0DeSave),
		nop(),
	)
	code = append(code, b(int32(-(len(code)+1))), nop())
	return code
}
