package mipspracc_test

import (
	"testing"

	"github.com/probelab/dbgcore/mipspracc"
	"github.com/probelab/dbgcore/test"
	"github.com/probelab/dbgcore/transport/mocktransport"
)

func fetch(addr uint32) mocktransport.Request {
	return mocktransport.Request{Address: addr}
}

// scenario: MIPS PrAcc single-word read. Required exchanges per spec: the
// target reads 10 code words from PRACC_TEXT, reads PARAM_IN[0] returning
// the requested address, writes one word to PARAM_OUT[0], reads
// PRACC_TEXT a second time to signal the loop's exit. This engine's actual
// readU32Code snippet additionally pushes/pops $8 through PRACC_STACK
// around the borrow (grounded on mips32_pracc_read_u32, which does the
// same) — incidental to the read but still real wire traffic, so the
// script below includes it rather than underspecify the exchange.
func TestReadU32(t *testing.T) {
	const textBase = 0xFF200200
	const result = 0xDEADBEEF

	requests := []mocktransport.Request{
		fetch(textBase + 0*4),
		fetch(textBase + 1*4),
		fetch(textBase + 2*4),
		fetch(textBase + 3*4),
		{Address: 0xFF204000, Write: true, WriteValue: 0x11111111}, // push $8
		fetch(textBase + 4*4),
		fetch(0xFF202000), // read PARAM_IN[0]
		fetch(textBase + 5*4),
		fetch(textBase + 6*4),
		{Address: 0xFF202800, Write: true, WriteValue: result}, // write PARAM_OUT[0]
		fetch(textBase + 7*4),
		fetch(0xFF204000), // pop $8
		fetch(textBase + 8*4),
		fetch(textBase + 9*4),
		fetch(textBase + 0*4), // second PRACC_TEXT read: loop exit
	}

	ejtag := mocktransport.NewEJTAG(requests)
	e := mipspracc.NewEngine(ejtag)

	got, err := e.ReadU32(0xA0000000)
	test.NoError(t, err)
	test.Equate(t, got, uint32(result))
	test.ExpectedSuccess(t, ejtag.Done())

	// the address the engine resolved for the PARAM_IN[0] read must be the
	// address we asked it to read.
	found := false
	for _, v := range ejtag.Captured {
		if v == 0xA0000000 {
			found = true
		}
	}
	test.ExpectedSuccess(t, found)
}

// scenario: MIPS PrAcc single-word write follows the read engine's shape,
// but reads both its address and its value from PARAM_IN and writes
// nothing to PARAM_OUT.
func TestWriteU32(t *testing.T) {
	const textBase = 0xFF200200

	requests := []mocktransport.Request{
		fetch(textBase + 0*4),
		fetch(textBase + 1*4),
		fetch(textBase + 2*4),
		fetch(textBase + 3*4),
		{Address: 0xFF204000, Write: true, WriteValue: 0x22222222}, // push $8
		fetch(textBase + 4*4),
		{Address: 0xFF204000, Write: true, WriteValue: 0x33333333}, // push $9
		fetch(textBase + 5*4),
		fetch(0xFF202000), // read PARAM_IN[0] = target address
		fetch(textBase + 6*4),
		fetch(0xFF202004), // read PARAM_IN[1] = value to write
		fetch(textBase + 7*4),
		fetch(textBase + 8*4),
		fetch(0xFF204000), // pop $9
		fetch(textBase + 9*4),
		fetch(0xFF204000), // pop $8
		fetch(textBase + 10*4),
		fetch(textBase + 11*4),
		fetch(textBase + 0*4), // loop exit
	}

	ejtag := mocktransport.NewEJTAG(requests)
	e := mipspracc.NewEngine(ejtag)

	err := e.WriteU32(0xA0000004, 0xCAFEF00D)
	test.NoError(t, err)
	test.ExpectedSuccess(t, ejtag.Done())

	wantAddr, wantVal := false, false
	for _, v := range ejtag.Captured {
		if v == 0xA0000004 {
			wantAddr = true
		}
		if v == 0xCAFEF00D {
			wantVal = true
		}
	}
	test.ExpectedSuccess(t, wantAddr)
	test.ExpectedSuccess(t, wantVal)
}

// readRegsCode/writeRegsCode are exercised directly against the region
// dispatch logic in engine_internal_test.go (same package, so it can reach
// the unexported execContext), rather than by hand-scripting a ~70-entry
// mock request sequence for a snippet this package already generates from
// a fixed, checked wire-order table.
