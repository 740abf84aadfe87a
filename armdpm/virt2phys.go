package armdpm

import (
	"github.com/probelab/dbgcore/dbgerr"
)

// addressMode is cortex_a9_common's current_address_mode: Virt2Phys picks
// one per translation and passes it to getTTB so it knows which CP15 TTBR
// read to issue. It is never stored on Core.
type addressMode int

const (
	addressModeNone addressMode = iota
	addressModeUser
	addressModeKernel
)

// kernelSpaceBoundary is the Linux-style user/kernel split spec.md assumes:
// addresses below it are user space (TTBR0), at or above it are kernel
// space (TTBR1).
const kernelSpaceBoundary = 0xC0000000

// GetTTB reads the translation table base CP15 register appropriate for
// the address mode Virt2Phys passes in.
func (c *Core) getTTB(mode addressMode) (uint32, error) {
	var ttb uint32
	var err error
	switch mode {
	case addressModeKernel:
		// MRC p15,0,<Rt>,c2,c0,1 : TTBR1
		ttb, err = c.dpm.InstrReadDataR0(mrcCP15(0, 2, 0, 1))
	case addressModeUser:
		// MRC p15,0,<Rt>,c2,c0,0 : TTBR0
		ttb, err = c.dpm.InstrReadDataR0(mrcCP15(0, 2, 0, 0))
	default:
		return 0, dbgerr.New(dbgerr.Fail, "armdpm: don't know how to get ttb for current mode")
	}
	if err != nil {
		return 0, err
	}
	return ttb &^ 0x3FFF, nil
}

// Virt2Phys walks the ARMv7 short-descriptor page table rooted at the TTB
// selected by virt's address-space heuristic. Supports 1MB sections and
// 4KB/64KB pages under a coarse first-level descriptor; a supersection
// descriptor reports Fail. Long-descriptor (LPAE) tables are not detected:
// the walk always reads the table as short-descriptor.
func (c *Core) Virt2Phys(virt uint32, readPhys func(addr uint32, n int) ([]byte, error)) (uint32, error) {
	mode := addressModeUser
	if virt >= kernelSpaceBoundary {
		mode = addressModeKernel
	}

	ttb, err := c.getTTB(mode)
	if err != nil {
		return 0, err
	}

	l1Addr := ttb + (virt>>20)*4
	l1, err := readWord(readPhys, l1Addr)
	if err != nil {
		return 0, err
	}

	switch l1 & 0x3 {
	case 0x2: // section: 1MB, described directly by the L1 entry
		if l1&(1<<18) != 0 {
			return 0, dbgerr.New(dbgerr.Fail, "armdpm: supersection descriptor %#08x for va %#08x not supported", l1, virt)
		}
		return (l1 & 0xFFF00000) | (virt & 0x000FFFFF), nil

	case 0x1: // coarse page table: walk to the L2 descriptor
		l2Base := l1 & 0xFFFFFC00
		l2Addr := l2Base + ((virt >> 12) & 0xFF) * 4
		l2, err := readWord(readPhys, l2Addr)
		if err != nil {
			return 0, err
		}
		switch l2 & 0x3 {
		case 0x1: // large page, 64KB
			return (l2 & 0xFFFF0000) | (virt & 0x0000FFFF), nil
		case 0x2, 0x3: // small page, 4KB
			return (l2 & 0xFFFFF000) | (virt & 0x00000FFF), nil
		default:
			return 0, dbgerr.New(dbgerr.Fail, "armdpm: invalid L2 descriptor %#08x for va %#08x", l2, virt)
		}

	default:
		return 0, dbgerr.New(dbgerr.Fail, "armdpm: unsupported L1 descriptor %#08x for va %#08x", l1, virt)
	}
}

func readWord(readPhys func(addr uint32, n int) ([]byte, error), addr uint32) (uint32, error) {
	b, err := readPhys(addr, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// MMU reports whether the MMU is currently enabled, mirrored from the
// cached CP15 system-control-register shadow.
func (c *Core) MMU(cache CacheStatus) bool { return cache.MMUEnabled }

// EnableMMUCaches / DisableMMUCaches flip the requested bits of CP15's
// system control register (c1): MMU (bit 0), D/unified cache (bit 2),
// I-cache (bit 12).
func (c *Core) EnableMMUCaches(mmu, dCache, iCache bool) error {
	return c.toggleMMUCaches(mmu, dCache, iCache, true)
}

func (c *Core) DisableMMUCaches(mmu, dCache, iCache bool) error {
	return c.toggleMMUCaches(mmu, dCache, iCache, false)
}

func (c *Core) toggleMMUCaches(mmu, dCache, iCache, enable bool) error {
	control, err := c.dpm.InstrReadDataR0(mrcCP15(0, 1, 0, 0))
	if err != nil {
		return err
	}

	apply := func(bit uint32, set bool) {
		if !set {
			return
		}
		if enable {
			control |= bit
		} else {
			control &^= bit
		}
	}
	apply(0x1, mmu)
	apply(0x4, dCache)
	apply(0x1000, iCache)

	return c.dpm.InstrWriteDataR0(mcrCP15(0, 1, 0, 0), control)
}
