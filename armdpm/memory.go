package armdpm

import (
	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/execstate"
	"github.com/probelab/dbgcore/transport"
)

// CacheStatus mirrors the CP15 system-control-register shadow spec.md §3
// keeps per core: whether the MMU and each cache are currently enabled.
type CacheStatus struct {
	MMUEnabled    bool
	ICacheEnabled bool
	DCacheEnabled bool
}

// ReadPhysMemory reads count units of size bytes (1, 2, or 4) from
// physical address addr into buf, through the memory AP. Cortex-A9 handles
// unaligned access directly, so no alignment massaging is needed here.
func (c *Core) ReadPhysMemory(addr uint32, size, count int, buf []byte) error {
	restore, err := transport.BorrowAP(c.dap, transport.MemoryAP)
	if err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	defer restore()

	switch size {
	case 4:
		words := make([]uint32, count)
		if err := c.dap.ReadBufU32(transport.MemoryAP, addr, words); err != nil {
			return dbgerr.Wrap(dbgerr.Transport, err)
		}
		for i, w := range words {
			buf[i*4+0] = byte(w)
			buf[i*4+1] = byte(w >> 8)
			buf[i*4+2] = byte(w >> 16)
			buf[i*4+3] = byte(w >> 24)
		}
	case 2:
		halves := make([]uint16, count)
		if err := c.dap.ReadBufU16(transport.MemoryAP, addr, halves); err != nil {
			return dbgerr.Wrap(dbgerr.Transport, err)
		}
		for i, h := range halves {
			buf[i*2+0] = byte(h)
			buf[i*2+1] = byte(h >> 8)
		}
	case 1:
		if err := c.dap.ReadBufU8(transport.MemoryAP, addr, buf[:count]); err != nil {
			return dbgerr.Wrap(dbgerr.Transport, err)
		}
	default:
		return dbgerr.New(dbgerr.InvalidArguments, "armdpm: unsupported access size %d", size)
	}
	return nil
}

// WritePhysMemory writes buf to physical address addr, then, if the core is
// halted, invalidates the affected I-/D-cache lines per cache.
func (c *Core) WritePhysMemory(addr uint32, size, count int, buf []byte, cache CacheStatus) error {
	restore, err := transport.BorrowAP(c.dap, transport.MemoryAP)
	if err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	var werr error
	switch size {
	case 4:
		words := make([]uint32, count)
		for i := range words {
			words[i] = uint32(buf[i*4+0]) | uint32(buf[i*4+1])<<8 | uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
		}
		werr = c.dap.WriteBufU32(transport.MemoryAP, addr, words)
	case 2:
		halves := make([]uint16, count)
		for i := range halves {
			halves[i] = uint16(buf[i*2+0]) | uint16(buf[i*2+1])<<8
		}
		werr = c.dap.WriteBufU16(transport.MemoryAP, addr, halves)
	case 1:
		werr = c.dap.WriteBufU8(transport.MemoryAP, addr, buf[:count])
	default:
		restore()
		return dbgerr.New(dbgerr.InvalidArguments, "armdpm: unsupported access size %d", size)
	}
	if err := restore(); err != nil && werr == nil {
		werr = err
	}
	if werr != nil {
		return dbgerr.Wrap(dbgerr.Transport, werr)
	}

	if c.state != execstate.Halted {
		return nil
	}

	if err := c.dpm.Prepare(); err != nil {
		return err
	}
	defer c.dpm.Finish()

	// cache handling does not work correctly with the MMU active (wrong
	// addresses would be invalidated); callers with MMUEnabled set should
	// have already translated to physical before reaching here, same as
	// the original's REVISIT comment warns.
	length := size * count
	if cache.ICacheEnabled || cache.DCacheEnabled {
		if err := c.invalidateCacheRangeSelective(addr, length, cache); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) invalidateCacheRangeSelective(addr uint32, length int, cache CacheStatus) error {
	const lineSize = 64
	start := addr &^ (lineSize - 1)
	end := addr + uint32(length)
	for a := start; a < end; a += lineSize {
		if cache.ICacheEnabled {
			if err := c.dpm.InstrWriteDataR0(icimvau(), a); err != nil {
				return err
			}
		}
		if cache.DCacheEnabled {
			if err := c.dpm.InstrWriteDataR0(dcimvac(), a); err != nil {
				return err
			}
		}
	}
	return nil
}
