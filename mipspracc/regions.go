// Package mipspracc implements the MIPS EJTAG Processor Access (PrAcc)
// engine: the protocol that injects short code snippets into the debug
// vector and exchanges parameters with the probe over four fixed memory
// regions, the way a hosted debugger talks to a halted MIPS32 core with no
// native debug-DMA path.
package mipspracc

import "github.com/probelab/dbgcore/transport"

// PrAcc region base addresses. Exact numerics come from the silicon; this
// engine only assumes the four regions are distinct and never overlap.
const (
	PraccText     = 0xFF200200
	PraccStack    = 0xFF204000
	PraccParamIn  = 0xFF202000
	PraccParamOut = 0xFF202800
)

// Memory-mapped EJTAG DCR/IBS/DBS register addresses used for hardware
// breakpoint/watchpoint unit discovery.
const (
	regDCR = 0xFF300000
	regIBS = 0xFF300004
	regDBS = 0xFF300008
)

func ibaAddr(i int) uint32 { return 0xFF300100 + uint32(i)*0x100 }
func dbaAddr(i int) uint32 { return 0xFF300200 + uint32(i)*0x100 }

const (
	dcrINTE = 1 << 4
	dcrIB   = 1 << 10
	dcrDB   = 1 << 11
)

// CP0 register numbers this engine's snippets read/write.
const (
	cp0DeSave   = 31
	cp0Status   = 12
	cp0BadVAddr = 8
	cp0Cause    = 13
	cp0DEPC     = 24
)

// RegCount is the width of the GPR+CP0 vector pracc_read_regs/
// pracc_write_regs exchange: $0-$31, status, lo, hi, badvaddr, cause, pc.
const RegCount = 38

const (
	regStatusIdx   = 32
	regLoIdx       = 33
	regHiIdx       = 34
	regBadVAddrIdx = 35
	regCauseIdx    = 36
	regPCIdx       = 37
)

// Engine drives the PrAcc protocol over an transport.EJTAG.
type Engine struct {
	ejtag transport.EJTAG

	// bpScanned caches whether hardware breakpoint/watchpoint unit counts
	// have already been discovered via the DCR, per spec.md (the discovery
	// scan only ever needs to run once per session).
	bpScanned bool
	numIBreak int
	numDBreak int
}

// NewEngine wraps an EJTAG transport with the PrAcc protocol.
func NewEngine(ejtag transport.EJTAG) *Engine {
	return &Engine{ejtag: ejtag}
}
