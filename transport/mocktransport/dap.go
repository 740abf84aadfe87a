// Package mocktransport is an in-memory fake of transport.DAP and
// transport.EJTAG. The armdpm tests and the mipspracc engine tests drive
// one of these instead of real hardware; both fakes let a test script the exact
// register values a target would present and assert on the exact sequence
// of accesses the code under test issued.
package mocktransport

import (
	"fmt"

	"github.com/probelab/dbgcore/transport"
)

// RegAccess records one access made through a DAP, for assertions.
type RegAccess struct {
	AP    transport.AP
	Addr  uint32
	Write bool
	Value uint32
}

// DAP is a fake transport.DAP backed by a plain map of addr->value per AP,
// with optional hooks so a test can react as each register is touched (eg.
// to flip DSCR.InstrCompl after the Nth poll).
type DAP struct {
	regs map[transport.AP]map[uint32]uint32
	sel  transport.AP

	// OnRead/OnWrite, if set, are called before the default map-backed
	// behaviour for every access, and may mutate the backing map to
	// simulate a register that changes in response to being polled.
	OnRead  func(ap transport.AP, addr uint32)
	OnWrite func(ap transport.AP, addr uint32, value uint32)

	Accesses []RegAccess
}

// NewDAP creates an empty DAP fake with AP 0 (MemoryAP) selected.
func NewDAP() *DAP {
	return &DAP{
		regs: map[transport.AP]map[uint32]uint32{
			transport.MemoryAP: {},
			transport.DebugAP:  {},
		},
		sel: transport.MemoryAP,
	}
}

// Set pre-loads a register value, for fixtures.
func (d *DAP) Set(ap transport.AP, addr uint32, value uint32) {
	d.regs[ap][addr] = value
}

// Get reads back a register value, for assertions.
func (d *DAP) Get(ap transport.AP, addr uint32) uint32 {
	return d.regs[ap][addr]
}

func (d *DAP) ReadU32(ap transport.AP, addr uint32) (uint32, error) {
	if d.OnRead != nil {
		d.OnRead(ap, addr)
	}
	v := d.regs[ap][addr]
	d.Accesses = append(d.Accesses, RegAccess{AP: ap, Addr: addr, Write: false, Value: v})
	return v, nil
}

func (d *DAP) WriteU32(ap transport.AP, addr uint32, value uint32) error {
	if d.OnWrite != nil {
		d.OnWrite(ap, addr, value)
	}
	d.regs[ap][addr] = value
	d.Accesses = append(d.Accesses, RegAccess{AP: ap, Addr: addr, Write: true, Value: value})
	return nil
}

func (d *DAP) ReadU32Atomic(ap transport.AP, addr uint32) (uint32, error) {
	return d.ReadU32(ap, addr)
}

func (d *DAP) WriteU32Atomic(ap transport.AP, addr uint32, value uint32) error {
	return d.WriteU32(ap, addr, value)
}

func (d *DAP) ReadBufU8(ap transport.AP, addr uint32, buf []uint8) error {
	for i := range buf {
		v, err := d.ReadU32(ap, addr+uint32(i))
		if err != nil {
			return err
		}
		buf[i] = uint8(v)
	}
	return nil
}

func (d *DAP) ReadBufU16(ap transport.AP, addr uint32, buf []uint16) error {
	for i := range buf {
		v, err := d.ReadU32(ap, addr+uint32(i)*2)
		if err != nil {
			return err
		}
		buf[i] = uint16(v)
	}
	return nil
}

func (d *DAP) ReadBufU32(ap transport.AP, addr uint32, buf []uint32) error {
	for i := range buf {
		v, err := d.ReadU32(ap, addr+uint32(i)*4)
		if err != nil {
			return err
		}
		buf[i] = v
	}
	return nil
}

func (d *DAP) WriteBufU8(ap transport.AP, addr uint32, buf []uint8) error {
	for i, v := range buf {
		if err := d.WriteU32(ap, addr+uint32(i), uint32(v)); err != nil {
			return err
		}
	}
	return nil
}

func (d *DAP) WriteBufU16(ap transport.AP, addr uint32, buf []uint16) error {
	for i, v := range buf {
		if err := d.WriteU32(ap, addr+uint32(i)*2, uint32(v)); err != nil {
			return err
		}
	}
	return nil
}

func (d *DAP) WriteBufU32(ap transport.AP, addr uint32, buf []uint32) error {
	for i, v := range buf {
		if err := d.WriteU32(ap, addr+uint32(i)*4, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *DAP) SelectAP(ap transport.AP) error {
	if _, ok := d.regs[ap]; !ok {
		return fmt.Errorf("mocktransport: unknown AP %d", ap)
	}
	d.sel = ap
	return nil
}

func (d *DAP) SelectedAP() (transport.AP, error) {
	return d.sel, nil
}

var _ transport.DAP = (*DAP)(nil)
