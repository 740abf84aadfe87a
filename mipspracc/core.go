package mipspracc

import (
	"time"

	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/execstate"
	"github.com/probelab/dbgcore/transport"
)

// handshakeTimeout bounds every CONTROL-register poll loop, same budget as
// the DPM side (spec.md §5).
const handshakeTimeout = time.Second

// EJTAG CONTROL register bits this package cares about beyond PrAcc/PRnW
// (already used by engine.go). BrkSt reports whether the processor has
// entered Debug Mode; JtagBrk requests entry into it. These follow the
// same "plausible, silicon-accurate by convention, not transcribed from a
// header in this retrieval pack" status as armdpm's DSCR bit assignments —
// best-effort, not guessed corrections.
const (
	ctrlBrkst   = 1 << 3
	ctrlJtagBrk = 1 << 12
)

// Core is the MIPS32 EJTAG halt/resume/poll state machine built on top of
// an Engine's PrAcc access. Unlike the Cortex-A9 side, spec.md gives no
// exact register algorithm for MIPS halt/resume (only the PrAcc protocol
// and breakpoint-unit discovery); this implementation follows the shape
// run_algorithm's description implies — request debug mode via JtagBrk,
// poll BrkSt, write DEPC through a PrAcc snippet before clearing JtagBrk to
// resume — and is flagged in design notes as the MIPS-side counterpart of
// the Cortex-A9 CTYPR/virt2phys open questions.
type Core struct {
	engine *Engine
	ejtag  transport.EJTAG
	state  execstate.State
	isa    ISAMode
}

// NewCore wraps engine's EJTAG transport with a halt/resume/poll layer.
func NewCore(engine *Engine, ejtag transport.EJTAG) *Core {
	return &Core{engine: engine, ejtag: ejtag, state: execstate.Unknown}
}

// State reports the core's last-polled execution state.
func (c *Core) State() execstate.State { return c.state }

// ISAMode distinguishes the two instruction encodings a MIPS32-with-16e
// core can be executing: ordinary 32-bit MIPS32 words, or the
// halfword-sized MIPS16e compressed encoding. Only the mode is tracked
// here — mipspracc's injected debug-vector snippets are always assembled
// as MIPS32 words, matching spec.md's MIPS32 focus; a target actually
// halted in MIPS16e code is reported accurately but not instrumented.
type ISAMode int

const (
	ModeMIPS32 ISAMode = iota
	ModeMIPS16e
)

// isaModeBit is DEPC/EPC's low bit, set by the processor to record which
// ISA mode it was executing in at the point of the debug exception —
// the same convention CPSR's Thumb bit (bit 5) uses on the ARM side.
const isaModeBit = 1

func decodeISAMode(depc uint32) ISAMode {
	if depc&isaModeBit != 0 {
		return ModeMIPS16e
	}
	return ModeMIPS32
}

// ISAMode reports the ISA mode captured at the most recent debug entry.
func (c *Core) ISAMode() ISAMode { return c.isa }

func (c *Core) readControl() (uint32, error) {
	if err := c.ejtag.SetInstr(transport.EJTAGInstrControl); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	var ctrl uint32
	if err := c.ejtag.DRScan32(&ctrl); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	return ctrl, nil
}

func (c *Core) writeControl(ctrl uint32) error {
	if err := c.ejtag.SetInstr(transport.EJTAGInstrControl); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	if err := c.ejtag.DRScan32(&ctrl); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	return dbgerr.Wrap(dbgerr.Transport, c.ejtag.Execute())
}

// Poll reads CONTROL and decodes BrkSt, firing a Halted event on any
// transition into Halted (from Unknown too, unlike armdpm.Core.Poll).
func (c *Core) Poll() (execstate.State, *execstate.Event, error) {
	ctrl, err := c.readControl()
	if err != nil {
		return c.state, nil, err
	}

	prev := c.state
	var ev *execstate.Event

	if ctrl&ctrlBrkst != 0 {
		if prev != execstate.Halted {
			c.state = execstate.Halted
			e := execstate.EventHalted
			ev = &e
		}
	} else {
		c.state = execstate.Running
	}

	return c.state, ev, nil
}

// CaptureISAMode reads the register file to learn which ISA mode DEPC
// records at the current debug entry, for a caller that's about to assemble or select a branch-to-entry-point snippet and
// needs to know. It is not called automatically by Poll: most callers
// never need it, and it costs a full register-file round trip.
func (c *Core) CaptureISAMode() (ISAMode, error) {
	regs, err := c.engine.ReadRegs()
	if err != nil {
		return c.isa, err
	}
	c.isa = decodeISAMode(regs[regPCIdx])
	return c.isa, nil
}

// Halt requests debug mode via JtagBrk and polls BrkSt.
func (c *Core) Halt() error {
	ctrl, err := c.readControl()
	if err != nil {
		return err
	}
	if ctrl&ctrlBrkst != 0 {
		c.state = execstate.Halted
		return nil // invariant 7: already halted is a no-op
	}

	if err := c.writeControl(ctrl | ctrlJtagBrk); err != nil {
		return err
	}

	deadline := time.Now().Add(handshakeTimeout)
	for {
		ctrl, err := c.readControl()
		if err != nil {
			return err
		}
		if ctrl&ctrlBrkst != 0 {
			break
		}
		if time.Now().After(deadline) {
			return dbgerr.New(dbgerr.Timeout, "mipspracc: timeout waiting for halt")
		}
	}

	c.state = execstate.Halted
	return nil
}

// mtc0DEPCCode writes value to CP0's DEPC register (the PC the hardware
// resumes from on DERET) through a tiny PrAcc snippet.
func mtc0DEPCCode(value uint32) []uint32 {
	return []uint32{
		mtc0(r15, cp0DeSave),
		lui(r8, upper16(value)),
		ori(r8, r8, lower16(value)),
		mtc0(r8, cp0DEPC),
		mfc0(r15, cp0DeSave),
		b(-6),
		nop(),
	}
}

// Resume writes DEPC to resumePC, then clears JtagBrk so the EJTAG
// hardware issues DERET and the core resumes execution there.
func (c *Core) Resume(resumePC uint32) error {
	if _, err := c.engine.exec(mtc0DEPCCode(resumePC), nil, 0); err != nil {
		return err
	}

	ctrl, err := c.readControl()
	if err != nil {
		return err
	}
	if err := c.writeControl(ctrl &^ ctrlJtagBrk); err != nil {
		return err
	}

	c.state = execstate.Running
	return nil
}

// Step resumes to resumePC with a one-shot hardware instruction breakpoint
// armed at stopPC, waiting for the core to re-enter debug mode.
func (c *Core) Step(resumePC, stopPC uint32, waitHalted func() error) error {
	if err := c.setInstructionBreakpoint(0, stopPC); err != nil {
		return err
	}
	defer c.clearInstructionBreakpoint(0)

	if err := c.Resume(resumePC); err != nil {
		return err
	}
	return waitHalted()
}

func (c *Core) setInstructionBreakpoint(slot int, addr uint32) error {
	return c.engine.WriteU32(InstructionBreakpointAddr(slot), addr)
}

func (c *Core) clearInstructionBreakpoint(slot int) error {
	return c.engine.WriteU32(InstructionBreakpointAddr(slot), 0)
}
