package armdpm

import (
	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/logger"
)

// BreakKind distinguishes a hardware comparator slot from an in-memory
// opcode patch.
type BreakKind int

const (
	BreakHard BreakKind = iota
	BreakSoft
)

// Breakpoint mirrors spec.md §3's breakpoint record for the ARM side.
// Set is 0 when unarmed; for BreakHard it is the slot index+1, for
// BreakSoft it is a non-zero sentinel. OrigInstr holds the bytes a
// software breakpoint overwrote, so Unset can restore them.
type Breakpoint struct {
	Address  uint32
	Length   int // 2 or 4
	Kind     BreakKind
	Set      int
	OrigInstr []byte
}

// softBreakpointSentinel is "any nice value but 0", matching the original's
// choice.
const softBreakpointSentinel = 0x11

// SetBreakpoint arms bp using matchmode (0x00 for an ordinary address
// breakpoint, ivaMismatchMatchmode for step's one-shot trap). Idempotent:
// arming an already-armed breakpoint is a warned no-op (invariant 7).
func (c *Core) SetBreakpoint(bp *Breakpoint, matchmode uint32, readMem func(addr uint32, len int) ([]byte, error), writeMem func(addr uint32, data []byte) error) error {
	if bp.Set != 0 {
		logger.Logf(logTag, "breakpoint at %#08x already set", bp.Address)
		return nil
	}

	if bp.Kind == BreakHard {
		i := c.freeBRP()
		if i < 0 {
			return dbgerr.New(dbgerr.ResourceNotAvailable, "armdpm: no free hardware breakpoint register pair")
		}

		var bas uint8 = byteAddrSelect4()
		if bp.Length == 2 {
			bas = byteAddrSelect2(bp.Address)
		}
		control := bcrControl(matchmode, bas)
		value := bp.Address &^ 3

		c.brp[i] = slot{used: true, value: value, control: control}
		bp.Set = i + 1

		return c.dpm.BpwpEnable(i, value, control)
	}

	// software breakpoint: patch the opcode in place, after saving the
	// original bytes.
	addr := bp.Address &^ 1
	orig, err := readMem(addr, bp.Length)
	if err != nil {
		return err
	}
	bp.OrigInstr = orig

	code := make([]byte, bp.Length)
	if bp.Length == 2 {
		op := thumbBKPT(bkptImmediate)
		code[0] = byte(op)
		code[1] = byte(op >> 8)
	} else {
		op := armBKPT(bkptImmediate)
		code[0] = byte(op)
		code[1] = byte(op >> 8)
		code[2] = byte(op >> 16)
		code[3] = byte(op >> 24)
	}
	if err := writeMem(addr, code); err != nil {
		return err
	}
	bp.Set = softBreakpointSentinel
	return nil
}

// UnsetBreakpoint disarms bp. Idempotent: unsetting an unset breakpoint is
// a no-op returning Ok (invariant 7).
func (c *Core) UnsetBreakpoint(bp *Breakpoint, writeMem func(addr uint32, data []byte) error) error {
	if bp.Set == 0 {
		return nil
	}

	if bp.Kind == BreakHard {
		i := bp.Set - 1
		if i < 0 || i >= len(c.brp) {
			bp.Set = 0
			return nil
		}
		c.brp[i] = slot{}
		bp.Set = 0
		return c.dpm.BpwpDisable(i)
	}

	addr := bp.Address &^ 1
	err := writeMem(addr, bp.OrigInstr)
	bp.Set = 0
	return err
}

// AddBreakpoint claims a hardware slot (if BreakHard) and arms bp with an
// exact-match comparator.
func (c *Core) AddBreakpoint(bp *Breakpoint, readMem func(addr uint32, len int) ([]byte, error), writeMem func(addr uint32, data []byte) error) error {
	if bp.Kind == BreakHard && bp.Set == 0 && c.BRPAvailable() < 1 {
		return dbgerr.New(dbgerr.ResourceNotAvailable, "armdpm: no hardware breakpoint available")
	}
	return c.SetBreakpoint(bp, exactMatchMode, readMem, writeMem)
}

// RemoveBreakpoint disarms and releases bp's slot, if any.
func (c *Core) RemoveBreakpoint(bp *Breakpoint, writeMem func(addr uint32, data []byte) error) error {
	if bp.Set == 0 {
		return nil
	}
	return c.UnsetBreakpoint(bp, writeMem)
}

func (c *Core) freeBRP() int {
	for i, s := range c.brp {
		if !s.used {
			return i
		}
	}
	return -1
}

// WatchpointAccess distinguishes which accesses a data watchpoint traps on.
type WatchpointAccess int

const (
	WatchLoad WatchpointAccess = iota
	WatchStore
	WatchAccess
)

// Watchpoint is a data comparator slot, programmed the same way a hardware
// Breakpoint is but through WVR/WCR instead of BVR/BCR (dpm.BpwpEnable's
// slot index 16..31 range). Set is 0 when unarmed, slot index+17 once
// armed (so it can't collide with Breakpoint.Set's own +1 convention).
type Watchpoint struct {
	Address uint32
	Length  int
	Access  WatchpointAccess
	Set     int
}

func (c *Core) freeWRP() int {
	for i, s := range c.wrp {
		if !s.used {
			return i
		}
	}
	return -1
}

// watchControl encodes a WCR control word: byte-address-select in bits
// 5:9 and the enable+privilege bits, same as bcrControl, plus the
// load/store/access (LSC) field in bits 3:4 — best-effort, not guessed
// from a pack source, same status as this file's other register-bit
// assignments.
func watchControl(access WatchpointAccess, byteAddrSelect uint8) uint32 {
	lsc := uint32(access) + 1 // WatchLoad=1, WatchStore=2, WatchAccess=3
	return uint32(byteAddrSelect)<<5 | lsc<<3 | 3<<1 | 1
}

// AddWatchpoint claims a free data comparator slot and arms wp. Idempotent:
// re-adding an already-armed watchpoint is a no-op (invariant 7).
func (c *Core) AddWatchpoint(wp *Watchpoint) error {
	if wp.Set != 0 {
		return nil
	}
	i := c.freeWRP()
	if i < 0 {
		return dbgerr.New(dbgerr.ResourceNotAvailable, "armdpm: no free watchpoint register pair")
	}

	var bas uint8 = byteAddrSelect4()
	if wp.Length == 2 {
		bas = byteAddrSelect2(wp.Address)
	}
	control := watchControl(wp.Access, bas)
	value := wp.Address &^ 3

	c.wrp[i] = slot{used: true, value: value, control: control}
	wp.Set = i + 17

	return c.dpm.BpwpEnable(i+16, value, control)
}

// RemoveWatchpoint disarms and releases wp's slot. Idempotent: removing an
// unarmed watchpoint is a no-op (invariant 7).
func (c *Core) RemoveWatchpoint(wp *Watchpoint) error {
	if wp.Set == 0 {
		return nil
	}
	i := wp.Set - 17
	if i < 0 || i >= len(c.wrp) {
		wp.Set = 0
		return nil
	}
	c.wrp[i] = slot{}
	wp.Set = 0
	return c.dpm.BpwpDisable(i + 16)
}

// WRPAvailable reports the count of free data watchpoint slots.
func (c *Core) WRPAvailable() int {
	n := 0
	for _, s := range c.wrp {
		if !s.used {
			n++
		}
	}
	return n
}

// Step arms a one-shot IVA-mismatch hardware breakpoint at the resume PC,
// resumes, waits for halt, then unsets the slot.
func (c *Core) Step(resumePC uint32, p ResumeParams, waitHalted func() error) error {
	step := &Breakpoint{Address: resumePC, Length: 4, Kind: BreakHard}
	if err := c.SetBreakpoint(step, ivaMismatchMatchmode, nil, nil); err != nil {
		return err
	}
	defer c.UnsetBreakpoint(step, nil)

	if _, err := c.Resume(p); err != nil {
		return err
	}
	return waitHalted()
}

// cache line invalidation after a write to cached physical memory is
// handled in memory.go's WritePhysMemory (it needs to distinguish I-cache
// from D-cache per CacheStatus).
