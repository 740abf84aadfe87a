package armdpm

import (
	"time"

	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/execstate"
	"github.com/probelab/dbgcore/logger"
	"github.com/probelab/dbgcore/transport"
)

// CoreMode is the ARM execution mode bit Resume needs to mask the
// resume PC and pick Thumb vs ARM opcode encodings.
type CoreMode int

const (
	ModeARM CoreMode = iota
	ModeThumb
	ModeThumbEE
	ModeJazelle
)

// Core is the Cortex-A9 architecture implementation: halt/resume/poll/step
// plus breakpoint and memory operations, all built on a DPM.
type Core struct {
	dpm   *DPM
	dap   transport.DAP
	state execstate.State
	cpsr  uint32 // last-known CPSR, refreshed on debug entry

	brp []slot
	wrp []slot

	stepSlot int // -1 when not in use
}

// slot is one hardware breakpoint/watchpoint comparator.
type slot struct {
	used    bool
	value   uint32
	control uint32
}

// NewCore creates a Core over dpm. Call Identify before using it for
// anything that touches the breakpoint slot pool.
func NewCore(dpm *DPM, dap transport.DAP) *Core {
	return &Core{dpm: dpm, dap: dap, state: execstate.Unknown, stepSlot: -1}
}

// Identify unlocks the debug block, reads DIDR, and sizes the brp/wrp slot
// tables from the silicon-reported counts.
func (c *Core) Identify() error {
	if err := c.dpm.Identify(); err != nil {
		return err
	}
	c.brp = make([]slot, c.dpm.NumBreakpoints())
	c.wrp = make([]slot, c.dpm.NumWatchpoints())
	return nil
}

// BRPAvailable reports the count of free hardware breakpoint slots,
// maintaining invariant 4 (always equal to the count of used=false slots
// by construction — it is computed, never cached separately).
func (c *Core) BRPAvailable() int {
	n := 0
	for _, s := range c.brp {
		if !s.used {
			n++
		}
	}
	return n
}

// State reports the core's last-polled execution state.
func (c *Core) State() execstate.State { return c.state }

// Poll reads DSCR and decodes the run-mode bits. On a Running/Reset→Halted
// or DebugRunning→Halted transition it runs debug entry and returns the
// event to fire; StillHalted/StillRunning transitions fire nothing.
func (c *Core) Poll() (execstate.State, *execstate.Event, error) {
	restore, err := transport.BorrowAP(c.dap, transport.DebugAP)
	if err != nil {
		return c.state, nil, dbgerr.Wrap(dbgerr.Transport, err)
	}
	defer restore()

	dscr, err := c.dap.ReadU32Atomic(transport.DebugAP, c.dpm.DebugBase()+regDSCR)
	if err != nil {
		return c.state, nil, dbgerr.Wrap(dbgerr.Transport, err)
	}

	prev := c.state
	var ev *execstate.Event

	switch {
	case dscrRunMode(dscr) == dscrCoreHalted|dscrCoreRestarted:
		if prev != execstate.Halted {
			c.state = execstate.Halted
			if prev == execstate.Running || prev == execstate.Reset {
				if err := c.debugEntry(dscr); err != nil {
					return c.state, nil, err
				}
				e := execstate.EventHalted
				ev = &e
			} else if prev == execstate.DebugRunning {
				if err := c.debugEntry(dscr); err != nil {
					return c.state, nil, err
				}
				e := execstate.EventDebugHalted
				ev = &e
			}
		}
	case dscrRunMode(dscr) == dscrCoreRestarted:
		c.state = execstate.Running
	default:
		c.state = execstate.Unknown
	}

	return c.state, ev, nil
}

// debugEntry runs the post-halt bookkeeping: enables ITR execution (every
// later DPM op needs it) and refreshes the cached CPSR for PC pipeline
// adjustment.
func (c *Core) debugEntry(dscr uint32) error {
	dscr |= dscrITREn
	if err := c.dap.WriteU32Atomic(transport.DebugAP, c.dpm.DebugBase()+regDSCR, dscr); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	cpsr, err := c.dpm.ReadCoreRegister(RegCPSR)
	if err != nil {
		return err
	}
	c.cpsr = cpsr
	return nil
}

// CPSR returns the CPSR value captured at the most recent debug entry.
func (c *Core) CPSR() uint32 { return c.cpsr }

// ReadRegister and WriteRegister expose the DPM's register transfer
// directly, for a caller's register cache to fall through to on a
// miss/flush. Core itself keeps no register cache, and no package in this
// module provides one.
func (c *Core) ReadRegister(regnum int) (uint32, error) { return c.dpm.ReadCoreRegister(regnum) }
func (c *Core) WriteRegister(regnum int, value uint32) error {
	return c.dpm.WriteCoreRegister(regnum, value)
}

// Halt requests a halt and polls CORE_HALTED, per spec.md §4.C.
func (c *Core) Halt() error {
	restore, err := transport.BorrowAP(c.dap, transport.DebugAP)
	if err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	defer restore()

	base := c.dpm.DebugBase()

	if err := c.dap.WriteU32Atomic(transport.DebugAP, base+regDRCR, drcrHalt); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	dscr, err := c.dap.ReadU32Atomic(transport.DebugAP, base+regDSCR)
	if err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	if err := c.dap.WriteU32Atomic(transport.DebugAP, base+regDSCR, dscr|dscrHaltDbgMode); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	deadline := time.Now().Add(handshakeTimeout)
	for {
		dscr, err := c.dap.ReadU32Atomic(transport.DebugAP, base+regDSCR)
		if err != nil {
			return dbgerr.Wrap(dbgerr.Transport, err)
		}
		if dscr&dscrCoreHalted != 0 {
			break
		}
		if time.Now().After(deadline) {
			return dbgerr.New(dbgerr.Timeout, "armdpm: timeout waiting for halt")
		}
	}

	return nil
}

// ResumeParams carries what Resume needs from the caller's register cache,
// since Core doesn't own one.
type ResumeParams struct {
	Current          bool
	Address          uint32
	CachedPC         uint32
	Mode             CoreMode
	DebugExecution   bool
	FlushDirtyRegs   func() error // writes back any dirty register-cache entries through the DPM
}

// Resume implements spec.md's resume algorithm, returning the resolved
// resume PC. Whether the target ended in Running or DebugRunning is
// recorded in c's state and reported by State.
func (c *Core) Resume(p ResumeParams) (resumePC uint32, err error) {
	restore, err := transport.BorrowAP(c.dap, transport.DebugAP)
	if err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	defer restore()

	resumePC = p.CachedPC
	if !p.Current {
		resumePC = p.Address
	}

	switch p.Mode {
	case ModeARM:
		resumePC &= 0xFFFFFFFC
	case ModeThumb, ModeThumbEE:
		resumePC |= 0x1
	case ModeJazelle:
		return 0, dbgerr.New(dbgerr.Fail, "armdpm: cannot resume into Jazelle state")
	}

	if p.FlushDirtyRegs != nil {
		if err := p.FlushDirtyRegs(); err != nil {
			return 0, err
		}
	}

	base := c.dpm.DebugBase()

	dscr, err := c.dap.ReadU32Atomic(transport.DebugAP, base+regDSCR)
	if err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	if dscr&dscrInstrCompl == 0 {
		// warn-only per spec.md §4.C step 4; not fatal.
		logger.Logf(logTag, "InstrCompl not set before resume, dscr=%#08x", dscr)
	}

	if err := c.dap.WriteU32Atomic(transport.DebugAP, base+regDSCR, dscr&^dscrITREn); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	if err := c.dap.WriteU32Atomic(transport.DebugAP, base+regDRCR, drcrRestart|drcrClearExceptions); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}

	deadline := time.Now().Add(handshakeTimeout)
	for {
		dscr, err := c.dap.ReadU32Atomic(transport.DebugAP, base+regDSCR)
		if err != nil {
			return 0, dbgerr.Wrap(dbgerr.Transport, err)
		}
		if dscr&dscrCoreRestarted != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, dbgerr.New(dbgerr.Timeout, "armdpm: timeout waiting for resume")
		}
	}

	if p.DebugExecution {
		c.state = execstate.DebugRunning
	} else {
		c.state = execstate.Running
	}

	return resumePC, nil
}
