package transport

// EJTAGInstr identifies which EJTAG IR register is selected for the next DR
// scan.
type EJTAGInstr int

// The three EJTAG instructions the MIPS PrAcc engine uses.
const (
	EJTAGInstrControl EJTAGInstr = iota
	EJTAGInstrAddress
	EJTAGInstrData
)

// EJTAG is the transport consumed by the MIPS PrAcc engine: IR selection,
// a 32-bit in-place DR scan, and idle clock insertion/flush.
type EJTAG interface {
	// SetInstr selects instr as the TAP's current IR.
	SetInstr(instr EJTAGInstr) error

	// DRScan32 performs a 32-bit DR scan, shifting *word out onto TDI and
	// replacing it with whatever comes back on TDO, in place.
	DRScan32(word *uint32) error

	// AddClocks queues n idle (TCK) clocks, giving the target time to react
	// between PrAcc iterations without forcing an immediate flush.
	AddClocks(n int)

	// Execute flushes any queued scans/clocks to the wire.
	Execute() error
}
