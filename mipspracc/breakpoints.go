package mipspracc

// scanBreakUnits discovers how many instruction/data hardware
// break/watchpoint comparators this core implements, by reading DCR (the
// IB/DB enable bits) and then IBS/DBS (one status bit set per implemented
// unit). It only ever needs to run once per session; numIBreak/numDBreak
// cache the result for every caller after the first.
func (e *Engine) scanBreakUnits() error {
	if e.bpScanned {
		return nil
	}

	dcr, err := e.ReadU32(regDCR)
	if err != nil {
		return err
	}

	if dcr&dcrIB != 0 {
		ibs, err := e.ReadU32(regIBS)
		if err != nil {
			return err
		}
		e.numIBreak = popcount(ibs & 0xffff)
	}

	if dcr&dcrDB != 0 {
		dbs, err := e.ReadU32(regDBS)
		if err != nil {
			return err
		}
		e.numDBreak = popcount(dbs & 0xffff)
	}

	e.bpScanned = true
	return nil
}

// NumInstructionBreakpoints reports how many IBA/IBC/IBM comparator units
// this core implements, scanning for it on first use.
func (e *Engine) NumInstructionBreakpoints() (int, error) {
	if err := e.scanBreakUnits(); err != nil {
		return 0, err
	}
	return e.numIBreak, nil
}

// NumDataWatchpoints is NumInstructionBreakpoints' data-comparator
// equivalent (DBA/DBC/DBM units).
func (e *Engine) NumDataWatchpoints() (int, error) {
	if err := e.scanBreakUnits(); err != nil {
		return 0, err
	}
	return e.numDBreak, nil
}

// InstructionBreakpointAddr and DataWatchpointAddr return the IBAn/DBAn
// comparator register address for unit i.
func InstructionBreakpointAddr(i int) uint32 { return ibaAddr(i) }
func DataWatchpointAddr(i int) uint32        { return dbaAddr(i) }

func popcount(v uint32) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
