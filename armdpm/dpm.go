// Package armdpm implements the ARM Cortex-A9 Debug Programmer's Model: the
// instruction-injection and DCC register-exchange protocol that lets a
// halted core run arbitrary ARM opcodes and move data through its Data
// Communication Channel, plus the breakpoint/watchpoint slot programming
// and halt/resume/poll state machine built on top of it.
//
// Every operation is driven through a transport.DAP; AP 1 (DebugAP) carries
// the CPUDBG register block, AP 0 (MemoryAP) carries ordinary memory.
package armdpm

import (
	"time"

	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/logger"
	"github.com/probelab/dbgcore/transport"
)

const logTag = "armdpm"

// handshakeTimeout bounds every DSCR/DTR poll loop, per spec.md §5.
const handshakeTimeout = time.Second

// Config carries the per-core settings the DPM can't discover from the
// silicon itself.
type Config struct {
	// DebugBase is the CPUDBG register block's base address. Computing
	// this from CoreSight ROM tables is future work; for now it defaults
	// to the OMAP3-style expression 0x80000000 | (coreID<<13) when
	// DebugBaseOverride is zero.
	DebugBaseOverride uint32
	CoreID            uint32
}

// debugBase resolves the effective CPUDBG base address for c.
func (c Config) debugBase() uint32 {
	if c.DebugBaseOverride != 0 {
		return c.DebugBaseOverride
	}
	return 0x80000000 | (c.CoreID << 13)
}

// DPM is the Cortex-A9 Debug Programmer's Model.
type DPM struct {
	dap        transport.DAP
	debugBase  uint32
	didr       uint32
	numBRPs    int
	numWRPs    int
	identified bool
}

// NewDPM creates a DPM over dap using cfg's debug-base resolution. The
// breakpoint/watchpoint slot counts aren't known until Identify reads DIDR.
func NewDPM(dap transport.DAP, cfg Config) *DPM {
	return &DPM{dap: dap, debugBase: cfg.debugBase()}
}

// DebugBase reports the resolved CPUDBG base address.
func (d *DPM) DebugBase() uint32 { return d.debugBase }

// Identify unlocks the debug register block and reads DIDR to learn the
// number of implemented breakpoint/watchpoint comparators. It is one-shot;
// later calls are no-ops.
func (d *DPM) Identify() error {
	if d.identified {
		return nil
	}

	restore, err := transport.BorrowAP(d.dap, transport.DebugAP)
	if err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	defer restore()

	if err := d.dap.WriteU32Atomic(transport.DebugAP, d.debugBase+regLockAccess, lockAccessKey); err != nil {
		// retry once: the debug port may be uninitialised on the first try.
		logger.Logf(logTag, "lock access write failed (%v); retrying", err)
		if err := d.dap.WriteU32Atomic(transport.DebugAP, d.debugBase+regLockAccess, lockAccessKey); err != nil {
			return dbgerr.Wrap(dbgerr.Transport, err)
		}
	}

	// clear sticky power-down status so the core power domain's registers
	// are reachable.
	if _, err := d.dap.ReadU32Atomic(transport.DebugAP, d.debugBase+regPRSR); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	didr, err := d.dap.ReadU32Atomic(transport.DebugAP, d.debugBase+regDIDR)
	if err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	d.didr = didr
	d.numBRPs = didrNumBRPs(didr)
	d.numWRPs = didrNumWRPs(didr)
	d.identified = true
	return nil
}

// NumBreakpoints and NumWatchpoints report the silicon-reported comparator
// counts; Identify must have run first.
func (d *DPM) NumBreakpoints() int { return d.numBRPs }
func (d *DPM) NumWatchpoints() int { return d.numWRPs }

// Prepare establishes the precondition every DPM op relies on:
// DSCR.InstrCompl=1. If DTRRXfull is unexpectedly set on entry it is
// drained (logged, not fatal) by executing an MRC that reads DTRRX into r0.
func (d *DPM) Prepare() error {
	dscr, err := d.pollInstrCompl()
	if err != nil {
		return err
	}

	if dscr&dscrDTRRXfull != 0 {
		logger.Logf(logTag, "DTRRXfull set on prepare, dscr=%#08x; draining", dscr)
		if _, err := d.execOpcode(dscrInstrCompl, dccToReg(0)); err != nil {
			return err
		}
	}
	return nil
}

// Finish releases per-call resources. Reserved for future batching; a
// no-op today.
func (d *DPM) Finish() error { return nil }

// execOpcode is the core primitive every instruction-injection operation
// builds on: wait for InstrCompl, write opcode to ITR, wait for InstrCompl
// again. dscrHint is the caller's last-known DSCR value; every instr_*
// wrapper below passes dscrInstrCompl on the trust that invariant 2 held
// after whatever DPM op preceded it, matching the original's literal
// "uint32_t dscr = DSCR_INSTR_COMP" initialisation rather than tracking a
// runtime flag. When the hint already shows InstrCompl set, the initial
// poll is skipped entirely; the closing poll always runs at least once.
// Returns with invariant 2 established: DSCR.InstrCompl=1.
func (d *DPM) execOpcode(dscrHint uint32, opcode uint32) (uint32, error) {
	if dscrHint&dscrInstrCompl == 0 {
		if _, err := d.pollInstrCompl(); err != nil {
			return 0, err
		}
	}

	if err := d.dap.WriteU32(transport.DebugAP, d.debugBase+regITR, opcode); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}

	return d.pollInstrCompl()
}

func (d *DPM) pollInstrCompl() (uint32, error) {
	deadline := time.Now().Add(handshakeTimeout)
	for {
		dscr, err := d.dap.ReadU32Atomic(transport.DebugAP, d.debugBase+regDSCR)
		if err != nil {
			return 0, dbgerr.Wrap(dbgerr.Transport, err)
		}
		if dscr&dscrInstrCompl != 0 {
			return dscr, nil
		}
		if time.Now().After(deadline) {
			return 0, dbgerr.New(dbgerr.Timeout, "armdpm: timeout waiting for InstrCompl, dscr=%#08x", dscr)
		}
	}
}

func (d *DPM) writeDCC(data uint32) error {
	return dbgerr.Wrap(dbgerr.Transport, d.dap.WriteU32(transport.DebugAP, d.debugBase+regDTRRX, data))
}

func (d *DPM) readDCC() (uint32, error) {
	deadline := time.Now().Add(handshakeTimeout)
	for {
		dscr, err := d.dap.ReadU32Atomic(transport.DebugAP, d.debugBase+regDSCR)
		if err != nil {
			return 0, dbgerr.Wrap(dbgerr.Transport, err)
		}
		if dscr&dscrDTRTXfull != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, dbgerr.New(dbgerr.Timeout, "armdpm: timeout waiting for DTRTXfull, dscr=%#08x", dscr)
		}
	}
	v, err := d.dap.ReadU32Atomic(transport.DebugAP, d.debugBase+regDTRTX)
	if err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	return v, nil
}

// InstrWriteDataDCC writes data to DTRRX then executes opcode, which is
// expected to move DTRRX into a register or memory.
func (d *DPM) InstrWriteDataDCC(opcode uint32, data uint32) error {
	if err := d.writeDCC(data); err != nil {
		return err
	}
	_, err := d.execOpcode(dscrInstrCompl, opcode)
	return err
}

// InstrWriteDataR0 writes data to DTRRX, moves DTRRX into r0, then executes
// opcode, which is expected to take its input from r0.
func (d *DPM) InstrWriteDataR0(opcode uint32, data uint32) error {
	if err := d.writeDCC(data); err != nil {
		return err
	}
	if _, err := d.execOpcode(dscrInstrCompl, dccToReg(0)); err != nil {
		return err
	}
	_, err := d.execOpcode(dscrInstrCompl, opcode)
	return err
}

// InstrReadDataDCC executes opcode, which is expected to move a register
// into DTRTX, then waits for DTRTXfull and reads the result.
func (d *DPM) InstrReadDataDCC(opcode uint32) (uint32, error) {
	if _, err := d.execOpcode(dscrInstrCompl, opcode); err != nil {
		return 0, err
	}
	return d.readDCC()
}

// InstrReadDataR0 executes opcode (result lands in r0), moves r0 to DTRTX,
// then reads DTRTX.
func (d *DPM) InstrReadDataR0(opcode uint32) (uint32, error) {
	if _, err := d.execOpcode(dscrInstrCompl, opcode); err != nil {
		return 0, err
	}
	if _, err := d.execOpcode(dscrInstrCompl, regToDCC(0)); err != nil {
		return 0, err
	}
	return d.readDCC()
}

// InstrCPSRSync issues the prefetch flush required after any write that
// alters CPSR's execution state.
func (d *DPM) InstrCPSRSync() error {
	_, err := d.execOpcode(dscrInstrCompl, prefetchFlush())
	return err
}

// BpwpEnable writes a slot's value and control registers. Indices 0..15
// address breakpoints (BVR/BCR); 16..31 address watchpoints (WVR/WCR).
func (d *DPM) BpwpEnable(index int, addr, control uint32) error {
	vr, cr, err := d.slotRegs(index)
	if err != nil {
		return err
	}
	if err := d.dap.WriteU32Atomic(transport.DebugAP, vr, addr); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	return dbgerr.Wrap(dbgerr.Transport, d.dap.WriteU32Atomic(transport.DebugAP, cr, control))
}

// BpwpDisable zeroes the indexed slot's control register.
func (d *DPM) BpwpDisable(index int) error {
	_, cr, err := d.slotRegs(index)
	if err != nil {
		return err
	}
	return dbgerr.Wrap(dbgerr.Transport, d.dap.WriteU32Atomic(transport.DebugAP, cr, 0))
}

func (d *DPM) slotRegs(index int) (vr, cr uint32, err error) {
	switch {
	case index >= 0 && index <= 15:
		return d.debugBase + regBVRBase + 4*uint32(index), d.debugBase + regBCRBase + 4*uint32(index), nil
	case index >= 16 && index <= 31:
		i := uint32(index - 16)
		return d.debugBase + regWVRBase + 4*i, d.debugBase + regWCRBase + 4*i, nil
	default:
		return 0, 0, dbgerr.New(dbgerr.InvalidArguments, "armdpm: slot index %d out of range", index)
	}
}

// WriteMemAPRegister is the "no cache/mmu handling" direct write used for
// BVR/BCR/WVR/WCR programming and other debug registers, bypassing the
// instruction-injection path entirely.
func (d *DPM) WriteMemAPRegister(addr, value uint32) error {
	return dbgerr.Wrap(dbgerr.Transport, d.dap.WriteU32Atomic(transport.DebugAP, addr, value))
}
