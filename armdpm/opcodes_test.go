package armdpm

import "testing"

// Golden encodings, computed independently from the ARMv7 MCR/MRC bit
// layout (cond=1110, 1110, opc1, L, CRn, Rt, coproc, opc2, 1, CRm) rather
// than by calling mcr()/mrc() with the same formula under test — this is
// exactly the class of bug a transposed condition nibble or a swapped
// MCR/MRC call produces, and it would pass a test that re-derives its
// expected value the same way the code under test does.
func TestCP14CP15Encodings(t *testing.T) {
	cases := []struct {
		name string
		got  uint32
		want uint32
	}{
		// "Rn to DCCTX" / regToDCC: ARMV4_5_MCR(14,0,r0,0,5,0) per
		// original_source/src/target/cortex_a9.c:229.
		{"regToDCC(r0)", regToDCC(0), 0xEE000E15},
		// "DCCRX to Rn" / dccToReg: ARMV4_5_MRC(14,0,r0,0,5,0) per
		// original_source/src/target/cortex_a9.c:322.
		{"dccToReg(r0)", dccToReg(0), 0xEE100E15},
		// prefetchFlush: ARMV4_5_MCR(15,0,0,7,5,4) per cortex_a9.c:358.
		{"prefetchFlush", prefetchFlush(), 0xEE070F95},
		// icimvau: ARMV4_5_MCR(15,0,0,7,5,1) per cortex_a9.c:1594.
		{"icimvau", icimvau(), 0xEE070F35},
		// dcimvac: ARMV4_5_MCR(15,0,0,7,6,1) per cortex_a9.c:1612.
		{"dcimvac", dcimvac(), 0xEE070F36},
	}

	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %#08x, want %#08x", c.name, c.got, c.want)
		}
	}
}

// Golden encodings for the non-coprocessor opcodes, cross-checked against
// their well-known ARM/Thumb hex forms rather than re-derived in the test
// from the same bitfield arithmetic opcodes.go uses.
func TestGPRAndBreakpointEncodings(t *testing.T) {
	cases := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"movR0R15", uint32(movR0R15), 0xE1A0000F},
		{"movR15R0", uint32(movR15R0), 0xE1A0F000},
		{"mrs r0,CPSR", mrs(0, false), 0xE10F0000},
		{"mrs r0,SPSR", mrs(0, true), 0xE14F0000},
		{"msr CPSR,r0", msrCPSR(0, false), 0xE12FF000},
		{"msr SPSR,r0", msrCPSR(0, true), 0xE16FF000},
		{"armBKPT(0x11)", armBKPT(bkptImmediate), 0xE1200171},
		{"thumbBKPT(0x11)", thumbBKPT(bkptImmediate), 0xBE11},
	}

	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %#08x, want %#08x", c.name, c.got, c.want)
		}
	}
}
