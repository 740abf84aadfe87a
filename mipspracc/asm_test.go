package mipspracc

import "testing"

// Golden encodings for the mini-assembler's instruction forms, computed
// independently from the standard MIPS32 R-type/I-type bit layout (the same
// layout OpenOCD's MIPS32_MTC0/MIPS32_MFC0/MIPS32_LUI/MIPS32_ORI/MIPS32_B
// macros expand to) rather than by calling the functions under test with
// their own formula — a transposed field or wrong opcode here would
// silently corrupt every injected snippet.
func TestInstructionEncodings(t *testing.T) {
	cases := []struct {
		name string
		got  uint32
		want uint32
	}{
		// MTC0 $15, DeSave(31): mips32_pracc.c's save-scratch-register idiom,
		// MIPS32_MTC0(15,31,0) at (eg.) src/target/mips32_pracc.c:295.
		{"mtc0 r15,desave", mtc0(r15, cp0DeSave), 0x408ff800},
		// MTC0 $2, DEPC(24): MIPS32_MTC0(2,24,0) at mips32_pracc.c:832.
		{"mtc0 r2,depc", mtc0(r2, cp0DEPC), 0x4082c000},
		// MFC0 $15, DeSave(31): the restore half of the same idiom.
		{"mfc0 r15,desave", mfc0(r15, cp0DeSave), 0x400ff800},
		{"lui r8,0x1234", lui(r8, 0x1234), 0x3c081234},
		{"ori r8,r8,0x5678", ori(r8, r8, 0x5678), 0x35085678},
		{"addi r9,r8,-4", addi(r9, r8, -4), 0x2109fffc},
		{"lw r8,r15,0", lw(r8, r15, 0), 0x8de80000},
		{"sw r8,r15,0", sw(r8, r15, 0), 0xade80000},
		{"lhu r8,r15,4", lhu(r8, r15, 4), 0x95e80004},
		{"lbu r8,r15,1", lbu(r8, r15, 1), 0x91e80001},
		{"beq r0,r0,-6", beq(r0, r0, -6), 0x1000fffa},
		{"b -6", b(-6), 0x1000fffa},
		{"bne r8,r9,2", bne(r8, r9, 2), 0x15090002},
		{"mtlo r8", mtlo(r8), 0x01000013},
		{"mthi r8", mthi(r8), 0x01000011},
		{"mflo r9", mflo(r9), 0x00004812},
		{"mfhi r9", mfhi(r9), 0x00004810},
		{"nop", nop(), 0x00000000},
	}

	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %#08x, want %#08x", c.name, c.got, c.want)
		}
	}
}
