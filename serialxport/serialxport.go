// Package serialxport is a concrete transport.DAP/transport.EJTAG pair for
// USB-serial JTAG pods: small microcontroller-based probes that expose a
// byte-oriented command/response protocol over a virtual COM port instead
// of a fast USB-HID/bulk interface. It is the one place in this module that
// talks to real hardware; everything else only ever sees the transport
// interfaces.
//
// Framing is a minimal request/response wire format of our own design,
// chosen to be trivial for small probe firmware to implement: a one-byte
// opcode, a fixed-width argument block, and a fixed-width reply, with no
// length prefix or checksum beyond what the serial link itself guarantees.
package serialxport

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pkg/term"
	"golang.org/x/sys/unix"

	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/transport"
)

// opcode identifies one wire-level request the probe firmware understands.
type opcode byte

const (
	opSelectAP opcode = iota
	opReadU32
	opWriteU32
	opReadBuf8
	opReadBuf16
	opReadBuf32
	opWriteBuf8
	opWriteBuf16
	opWriteBuf32
	opEJTAGSetInstr
	opEJTAGDRScan32
	opEJTAGAddClocks
	opEJTAGExecute
)

// ioTimeout bounds every round trip to the probe; a pod that never answers
// looks the same as a dead transport link to the caller.
const ioTimeout = 2 * time.Second

// Port is a USB-serial JTAG pod, implementing both transport.DAP (for the
// ARM DPM) and transport.EJTAG (for the MIPS PrAcc engine). A single
// physical pod is expected to support whichever one the target needs; the
// other interface's methods are simply unused by that caller.
type Port struct {
	t  *term.Term
	ap transport.AP

	// queued holds EJTAG idle-clock requests not yet flushed to the wire,
	// mirroring the batching AddClocks/Execute's contract describes. Scans
	// are not queued: SetInstr and DRScan32 each make their own round trip.
	queued []byte
}

// Open opens path (eg. "/dev/ttyUSB0") at baud and returns a Port ready to
// drive either transport interface. The probe is assumed to already be in
// its command-protocol mode; there is no handshake/reset-to-bootloader
// dance here, unlike the target-side halt/resume state machines this
// transport ultimately serves.
func Open(path string, baud int) (*Port, error) {
	t, err := term.Open(path, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.Transport, fmt.Errorf("serialxport: open %s: %w", path, err))
	}
	return &Port{t: t}, nil
}

// Close releases the underlying serial port.
func (p *Port) Close() error {
	return p.t.Close()
}

// SetReset drives the probe's target-reset line, wired to RTS on the pods
// this module targets (an nTRST/nSRST pair driven off the serial adapter's
// modem-control lines is a common cheap-JTAG-pod shortcut, same idea as
// OpenOCD's ftdi/rts_reset layouts). asserted true pulls the line low
// (reset asserted); false releases it.
func (p *Port) SetReset(asserted bool) error {
	fd := int(p.t.Fd())
	req := uint(unix.TIOCMBIS)
	if !asserted {
		req = uint(unix.TIOCMBIC)
	}
	if err := unix.IoctlSetInt(fd, req, unix.TIOCM_RTS); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	return nil
}

func (p *Port) roundTrip(req []byte, replyLen int) ([]byte, error) {
	p.t.SetReadTimeout(ioTimeout)
	if _, err := p.t.Write(req); err != nil {
		return nil, dbgerr.Wrap(dbgerr.Transport, err)
	}
	reply := make([]byte, replyLen)
	if replyLen == 0 {
		return nil, nil
	}
	n := 0
	for n < replyLen {
		m, err := p.t.Read(reply[n:])
		if err != nil {
			return nil, dbgerr.Wrap(dbgerr.Transport, err)
		}
		if m == 0 {
			return nil, dbgerr.New(dbgerr.Timeout, "serialxport: no reply from probe")
		}
		n += m
	}
	return reply, nil
}

// --- transport.DAP ---

var _ transport.DAP = (*Port)(nil)

func (p *Port) SelectAP(ap transport.AP) error {
	req := []byte{byte(opSelectAP), byte(ap)}
	_, err := p.roundTrip(req, 0)
	if err == nil {
		p.ap = ap
	}
	return err
}

func (p *Port) SelectedAP() (transport.AP, error) { return p.ap, nil }

func (p *Port) ReadU32(ap transport.AP, addr uint32) (uint32, error) {
	if err := p.SelectAP(ap); err != nil {
		return 0, err
	}
	req := make([]byte, 5)
	req[0] = byte(opReadU32)
	binary.LittleEndian.PutUint32(req[1:], addr)
	reply, err := p.roundTrip(req, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(reply), nil
}

func (p *Port) WriteU32(ap transport.AP, addr uint32, value uint32) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9)
	req[0] = byte(opWriteU32)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], value)
	_, err := p.roundTrip(req, 0)
	return err
}

// ReadU32Atomic/WriteU32Atomic have no separate queued-write path on this
// transport — every request is already a synchronous round trip — so they
// are identical to the ordinary accessors.
func (p *Port) ReadU32Atomic(ap transport.AP, addr uint32) (uint32, error) {
	return p.ReadU32(ap, addr)
}
func (p *Port) WriteU32Atomic(ap transport.AP, addr uint32, value uint32) error {
	return p.WriteU32(ap, addr, value)
}

func (p *Port) ReadBufU8(ap transport.AP, addr uint32, buf []uint8) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9)
	req[0] = byte(opReadBuf8)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], uint32(len(buf)))
	reply, err := p.roundTrip(req, len(buf))
	if err != nil {
		return err
	}
	copy(buf, reply)
	return nil
}

func (p *Port) ReadBufU16(ap transport.AP, addr uint32, buf []uint16) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9)
	req[0] = byte(opReadBuf16)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], uint32(len(buf)))
	reply, err := p.roundTrip(req, len(buf)*2)
	if err != nil {
		return err
	}
	for i := range buf {
		buf[i] = binary.LittleEndian.Uint16(reply[i*2:])
	}
	return nil
}

func (p *Port) ReadBufU32(ap transport.AP, addr uint32, buf []uint32) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9)
	req[0] = byte(opReadBuf32)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], uint32(len(buf)))
	reply, err := p.roundTrip(req, len(buf)*4)
	if err != nil {
		return err
	}
	for i := range buf {
		buf[i] = binary.LittleEndian.Uint32(reply[i*4:])
	}
	return nil
}

func (p *Port) WriteBufU8(ap transport.AP, addr uint32, buf []uint8) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9+len(buf))
	req[0] = byte(opWriteBuf8)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], uint32(len(buf)))
	copy(req[9:], buf)
	_, err := p.roundTrip(req, 0)
	return err
}

func (p *Port) WriteBufU16(ap transport.AP, addr uint32, buf []uint16) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9+len(buf)*2)
	req[0] = byte(opWriteBuf16)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], uint32(len(buf)))
	for i, v := range buf {
		binary.LittleEndian.PutUint16(req[9+i*2:], v)
	}
	_, err := p.roundTrip(req, 0)
	return err
}

func (p *Port) WriteBufU32(ap transport.AP, addr uint32, buf []uint32) error {
	if err := p.SelectAP(ap); err != nil {
		return err
	}
	req := make([]byte, 9+len(buf)*4)
	req[0] = byte(opWriteBuf32)
	binary.LittleEndian.PutUint32(req[1:], addr)
	binary.LittleEndian.PutUint32(req[5:], uint32(len(buf)))
	for i, v := range buf {
		binary.LittleEndian.PutUint32(req[9+i*4:], v)
	}
	_, err := p.roundTrip(req, 0)
	return err
}

// --- transport.EJTAG ---

var _ transport.EJTAG = (*Port)(nil)

func (p *Port) SetInstr(instr transport.EJTAGInstr) error {
	_, err := p.roundTrip([]byte{byte(opEJTAGSetInstr), byte(instr)}, 0)
	return err
}

func (p *Port) DRScan32(word *uint32) error {
	req := make([]byte, 5)
	req[0] = byte(opEJTAGDRScan32)
	binary.LittleEndian.PutUint32(req[1:], *word)
	reply, err := p.roundTrip(req, 4)
	if err != nil {
		return err
	}
	*word = binary.LittleEndian.Uint32(reply)
	return nil
}

// AddClocks queues idle clocks on this transport rather than issuing them
// immediately; Execute flushes the queue in one round trip, same batching
// shape the PrAcc engine's own comment describes.
func (p *Port) AddClocks(n int) {
	req := make([]byte, 5)
	req[0] = byte(opEJTAGAddClocks)
	binary.LittleEndian.PutUint32(req[1:], uint32(n))
	p.queued = append(p.queued, req...)
}

func (p *Port) Execute() error {
	if len(p.queued) == 0 {
		return nil
	}
	queued := p.queued
	p.queued = nil
	_, err := p.roundTrip(append([]byte{byte(opEJTAGExecute)}, queued...), 0)
	return err
}
