// Package transport defines the abstract operations the ARM DPM and MIPS
// PrAcc engines consume: memory-mapped AP reads/writes for ADIv5, and
// EJTAG control/data/address scan primitives for MIPS. Neither the ADIv5
// DAP transport nor the raw JTAG cable driver is implemented here — per
// spec.md, those are external collaborators, reached only through these
// interfaces. See serialxport for one concrete implementation and
// mocktransport for the in-memory fake the armdpm and mipspracc tests use.
package transport

// AP identifies which Access Port a DAP operation targets. spec.md reserves
// AP 0 for memory access and AP 1 for the CPUDBG debug register block.
type AP int

// The two APs this module's ARM DPM ever touches.
const (
	MemoryAP AP = 0
	DebugAP  AP = 1
)

// DAP is the ADIv5 Debug Access Port transport consumed by the ARM DPM. All
// methods return a transport-kind error (see dbgerr) on failure; a non-nil
// error must be propagated by the caller unchanged.
type DAP interface {
	// ReadU32 performs a single memory-mapped 32-bit read through ap.
	ReadU32(ap AP, addr uint32) (uint32, error)

	// WriteU32 performs a single memory-mapped 32-bit write through ap.
	WriteU32(ap AP, addr uint32, value uint32) error

	// ReadU32Atomic is like ReadU32 but flushes any queued transport
	// operations first, guaranteeing the value returned reflects everything
	// issued so far. Used by the halt/resume handshake, which cannot
	// tolerate a stale, queued read.
	ReadU32Atomic(ap AP, addr uint32) (uint32, error)

	// WriteU32Atomic is the write-side equivalent of ReadU32Atomic.
	WriteU32Atomic(ap AP, addr uint32, value uint32) error

	// ReadBufU8/U16/U32 perform a buffered block read of count units of the
	// given width, starting at addr. Used for bulk memory access.
	ReadBufU8(ap AP, addr uint32, buf []uint8) error
	ReadBufU16(ap AP, addr uint32, buf []uint16) error
	ReadBufU32(ap AP, addr uint32, buf []uint32) error

	// WriteBufU8/U16/U32 are the write-side equivalents.
	WriteBufU8(ap AP, addr uint32, buf []uint8) error
	WriteBufU16(ap AP, addr uint32, buf []uint16) error
	WriteBufU32(ap AP, addr uint32, buf []uint32) error

	// SelectAP selects which AP subsequent operations on this DAP target.
	SelectAP(ap AP) error

	// SelectedAP reports which AP is currently selected.
	SelectedAP() (AP, error)
}
