package armdpm

// CoreSight CPUDBG register block, offsets from a core's debug base. The
// numeric offsets aren't load-bearing for this package's own correctness —
// every caller reaches them only through these names — but they follow the
// ARMv7-A external debug register map (DBGDSCR et al.) so a reader who
// knows that map recognises the layout immediately.
const (
	regDIDR       = 0x000
	regWFAR       = 0x018
	regDTRRX      = 0x080
	regITR        = 0x084
	regDSCR       = 0x088
	regDTRTX      = 0x08C
	regDRCR       = 0x090
	regBVRBase    = 0x100
	regBCRBase    = 0x140
	regWVRBase    = 0x180
	regWCRBase    = 0x1C0
	regPRCR       = 0x310
	regPRSR       = 0x314
	regCPUID      = 0xD00
	regCTYPR      = 0xD04
	regTTYPR      = 0xD08
	regLockAccess = 0xFB0
)

// lockAccessKey unlocks the CPUDBG register block for modification.
const lockAccessKey = 0xC5ACCE55

// DSCR bits.
const (
	dscrCoreHalted    = 1 << 0
	dscrCoreRestarted = 1 << 1
	dscrHaltDbgMode   = 1 << 14
	dscrITREn         = 1 << 13
	dscrInstrCompl    = 1 << 24
	dscrDTRTXfull     = 1 << 29
	dscrDTRRXfull     = 1 << 30
)

func dscrRunMode(dscr uint32) uint32 {
	return dscr & (dscrCoreHalted | dscrCoreRestarted)
}

// DRCR bits, given numerically in spec.md §6.
const (
	drcrHalt            = 1
	drcrRestart         = 2
	drcrClearExceptions = 4
)

// DIDR breakpoint/watchpoint count fields: BRPs in bits 24:28, WRPs in bits
// 28:32 per the ARMv7 debug ID register layout (both are 4-bit "count - 1"
// fields).
func didrNumBRPs(didr uint32) int { return int((didr>>24)&0xF) + 1 }
func didrNumWRPs(didr uint32) int { return int((didr>>28)&0xF) + 1 }

// slotKind distinguishes a breakpoint/watchpoint comparator's matching
// mode, mirroring cortex_a9_brp's context-vs-address distinction.
type slotKind int

const (
	slotNormal slotKind = iota
	slotContext
)

// bcrControl encodes a BCR/WCR control word: matchmode in bits 20:23,
// byte-address-select in bits 5:9, and the enable+privilege bits every
// known-working snippet sets (3<<1 | 1).
func bcrControl(matchmode uint32, byteAddrSelect uint8) uint32 {
	return matchmode<<20 | uint32(byteAddrSelect)<<5 | 3<<1 | 1
}

// byteAddrSelect4 and byteAddrSelect2 compute BCR's byte-address-select
// field for a 4-byte or 2-byte breakpoint respectively; the 2-byte form
// depends on which half of the aligned word the address falls in.
func byteAddrSelect4() uint8 { return 0x0F }
func byteAddrSelect2(addr uint32) uint8 { return uint8(3 << (addr & 0x02)) }

// ivaMismatchMatchmode is the "IVA mismatch" matchmode (0x04) step uses for
// its one-shot hardware breakpoint.
const ivaMismatchMatchmode = 0x04

// exactMatchMode is the ordinary "address match" mode (0x00) add_breakpoint
// uses.
const exactMatchMode = 0x00
