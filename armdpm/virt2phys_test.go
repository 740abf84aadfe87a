package armdpm_test

import (
	"testing"

	"github.com/probelab/dbgcore/test"
	"github.com/probelab/dbgcore/transport"
	"github.com/probelab/dbgcore/transport/mocktransport"
)

func phys(mem map[uint32]uint32) func(addr uint32, n int) ([]byte, error) {
	return func(addr uint32, n int) ([]byte, error) {
		buf := make([]byte, n)
		for i := 0; i < n && i < 4; i++ {
			w := mem[addr&^3]
			buf[i] = byte(w >> (8 * uint(i)))
		}
		return buf, nil
	}
}

// scenario: a 1MB section descriptor translates directly, no L2 walk.
func TestVirt2PhysSection(t *testing.T) {
	dap := mocktransport.NewDAP()
	dap.Set(transport.DebugAP, debugBase+regDSCR, dscrInstrCompl|dscrDTRTXfull)
	c := newIdentifiedCore(t, dap)

	const ttb = 0x80000000
	dap.Set(transport.DebugAP, debugBase+regDTRTX, ttb)

	const virt = 0x00500123
	mem := map[uint32]uint32{
		ttb + (virt>>20)*4: 0x00600002, // section descriptor, base 0x00600000
	}

	got, err := c.Virt2Phys(virt, phys(mem))
	test.NoError(t, err)
	test.Equate(t, got, uint32(0x00600123))
}

// scenario: a coarse page table descriptor walks to an L2 small-page entry.
func TestVirt2PhysSmallPage(t *testing.T) {
	dap := mocktransport.NewDAP()
	dap.Set(transport.DebugAP, debugBase+regDSCR, dscrInstrCompl|dscrDTRTXfull)
	c := newIdentifiedCore(t, dap)

	const ttb = 0x80000000
	dap.Set(transport.DebugAP, debugBase+regDTRTX, ttb)

	const virt = 0x00500abc
	const l2Base = 0x80100000
	mem := map[uint32]uint32{
		ttb + (virt>>20)*4:               l2Base | 0x1, // coarse page table
		l2Base + ((virt >> 12) & 0xFF) * 4: 0x00700002,  // small page, base 0x00700000
	}

	got, err := c.Virt2Phys(virt, phys(mem))
	test.NoError(t, err)
	test.Equate(t, got, uint32(0x00700abc))
}
