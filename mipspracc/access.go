package mipspracc

// ReadU32 reads one 32-bit word at addr by running readU32Code with the
// target address as the lone input parameter.
func (e *Engine) ReadU32(addr uint32) (uint32, error) {
	out, err := e.exec(readU32Code(), []uint32{addr}, 1)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// WriteU32 writes value to addr by running writeU32Code.
func (e *Engine) WriteU32(addr, value uint32) error {
	_, err := e.exec(writeU32Code(), []uint32{addr, value}, 0)
	return err
}

// ReadU8 and ReadU16 are expressed in terms of ReadU32: the snippet always
// moves a full word, and the probe masks down to the width the caller
// asked for, mirroring the approach mips32_pracc_read_mem8/16 use of
// reading through the same word-wide data bus.
func (e *Engine) ReadU8(addr uint32) (uint8, error) {
	v, err := e.ReadU32(addr &^ 3)
	if err != nil {
		return 0, err
	}
	shift := (addr & 3) * 8
	return uint8(v >> shift), nil
}

func (e *Engine) ReadU16(addr uint32) (uint16, error) {
	v, err := e.ReadU32(addr &^ 3)
	if err != nil {
		return 0, err
	}
	shift := (addr & 2) * 8
	return uint16(v >> shift), nil
}

// ReadRegs returns all RegCount register-file entries in wire order.
func (e *Engine) ReadRegs() ([RegCount]uint32, error) {
	var regs [RegCount]uint32
	out, err := e.exec(readRegsCode(), nil, RegCount)
	if err != nil {
		return regs, err
	}
	copy(regs[:], out)
	return regs, nil
}

// WriteRegs restores all RegCount register-file entries from regs.
func (e *Engine) WriteRegs(regs [RegCount]uint32) error {
	_, err := e.exec(writeRegsCode(), regs[:], 0)
	return err
}

// RunAlgorithm executes an arbitrary pre-assembled snippet, feeding in and
// collecting numOut output words, for callers that need something beyond
// the fixed register/word-access snippets above. It runs the snippet
// through the PrAcc loop only: nothing is uploaded to target memory and the
// core is not resumed.
func (e *Engine) RunAlgorithm(code []uint32, in []uint32, numOut int) ([]uint32, error) {
	return e.exec(code, in, numOut)
}
