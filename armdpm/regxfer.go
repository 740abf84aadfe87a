package armdpm

import "github.com/probelab/dbgcore/dbgerr"

// Register transfer for the 18 "core" registers GDB cares about: r0..r14,
// PC (15), CPSR (16), SPSR (17). Grounded on cortex_a9_dap_read/write_
// coreregister_u32: r0..r14 move through DTRRX/DTRTX directly via MRC/MCR
// p14; PC goes via r0 ("MOV r0,r15"/"MOV r15,r0"); CPSR/SPSR go via r0 and
// MRS/MSR.
const (
	RegPC   = 15
	RegCPSR = 16
	RegSPSR = 17
)

// ReadCoreRegister reads GPR/PC/CPSR/SPSR regnum through the DCC.
func (d *DPM) ReadCoreRegister(regnum int) (uint32, error) {
	switch {
	case regnum < 0 || regnum > 17:
		return 0, dbgerr.New(dbgerr.InvalidArguments, "armdpm: register index %d out of range", regnum)

	case regnum < 15:
		return d.InstrReadDataDCC(regToDCC(uint32(regnum)))

	case regnum == RegPC:
		if _, err := d.execOpcode(dscrInstrCompl, movR0R15); err != nil {
			return 0, err
		}
		return d.InstrReadDataDCC(regToDCC(0))

	default: // CPSR, SPSR
		spsr := regnum == RegSPSR
		if _, err := d.execOpcode(dscrInstrCompl, mrs(0, spsr)); err != nil {
			return 0, err
		}
		return d.InstrReadDataDCC(regToDCC(0))
	}
}

// WriteCoreRegister writes value into GPR/PC/CPSR/SPSR regnum. Writing
// CPSR (not SPSR) requires a subsequent InstrCPSRSync, left to the caller
// since a register-cache flush typically batches several writes before
// syncing once.
func (d *DPM) WriteCoreRegister(regnum int, value uint32) error {
	switch {
	case regnum < 0 || regnum > 17:
		return dbgerr.New(dbgerr.InvalidArguments, "armdpm: register index %d out of range", regnum)

	case regnum < 15:
		return d.InstrWriteDataDCC(dccToReg(uint32(regnum)), value)

	case regnum == RegPC:
		if err := d.writeDCC(value); err != nil {
			return err
		}
		if _, err := d.execOpcode(dscrInstrCompl, dccToReg(0)); err != nil {
			return err
		}
		_, err := d.execOpcode(dscrInstrCompl, movR15R0)
		return err

	default: // CPSR, SPSR
		spsr := regnum == RegSPSR
		if err := d.writeDCC(value); err != nil {
			return err
		}
		if _, err := d.execOpcode(dscrInstrCompl, dccToReg(0)); err != nil {
			return err
		}
		_, err := d.execOpcode(dscrInstrCompl, msrCPSR(0, spsr))
		return err
	}
}

// DebugEntryPCAdjust returns the pipeline-depth correction applied to PC on
// debug entry: Thumb/ThumbEE state (cpsr bit 5, the T bit) pulls back 4
// bytes; ARM state pulls back 8.
func DebugEntryPCAdjust(cpsr uint32) int32 {
	const cpsrT = 1 << 5
	if cpsr&cpsrT != 0 {
		return -4
	}
	return -8
}
