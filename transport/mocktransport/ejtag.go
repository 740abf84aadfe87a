package mocktransport

import (
	"fmt"

	"github.com/probelab/dbgcore/transport"
)

// Access records one EJTAG exchange observed by the mock, for assertions.
type Access struct {
	Instr transport.EJTAGInstr
	Value uint32
}

// EJTAG is a scripted fake of transport.EJTAG. A test builds the exact
// sequence of processor accesses the real silicon would generate while
// running a given PrAcc snippet (instruction fetches from PRACC_TEXT, data
// reads/writes against PRACC_PARAM_IN/OUT), and the fake walks through it
// one micro-step at a time as the engine under test drives SetInstr/
// DRScan32, exactly as wait_for_pracc_rw/mips32_pracc_exec_read/_write do
// against real hardware.
type EJTAG struct {
	instr transport.EJTAGInstr

	requests []Request
	idx      int
	step     step

	// Captured holds, in order, the values the engine under test supplied
	// on each processor-read request (the code/param words it resolved).
	Captured []uint32

	Accesses []Access
	Clocks   int

	seenEntry bool
}

// Request describes one processor access the scripted target makes.
// Write false models a processor read (PRnW=0): the engine must supply the
// word. Write true models a processor write (PRnW=1): WriteValue is the
// word the "processor" is writing, which the engine must absorb.
type Request struct {
	Address    uint32
	Write      bool
	WriteValue uint32
}

type step int

const (
	stepControlPoll step = iota
	stepAddress
	stepData
	stepControlClear
)

// NewEJTAG builds a fake scripted to present requests in order, then refuse
// any further access.
func NewEJTAG(requests []Request) *EJTAG {
	return &EJTAG{requests: requests}
}

func (e *EJTAG) SetInstr(instr transport.EJTAGInstr) error {
	e.instr = instr
	return nil
}

func (e *EJTAG) DRScan32(word *uint32) error {
	if e.idx >= len(e.requests) {
		return fmt.Errorf("mock ejtag: exhausted scripted requests, got scan on instr %d", e.instr)
	}
	req := e.requests[e.idx]

	switch e.step {
	case stepControlPoll:
		if e.instr != transport.EJTAGInstrControl {
			return fmt.Errorf("mock ejtag: expected CONTROL poll, got instr %d", e.instr)
		}
		ctrl := uint32(ctrlPRACC)
		if req.Write {
			ctrl |= ctrlPRNW
		}
		*word = ctrl
		e.Accesses = append(e.Accesses, Access{Instr: e.instr, Value: ctrl})
		e.step = stepAddress

	case stepAddress:
		if e.instr != transport.EJTAGInstrAddress {
			return fmt.Errorf("mock ejtag: expected ADDRESS scan, got instr %d", e.instr)
		}
		*word = req.Address
		e.Accesses = append(e.Accesses, Access{Instr: e.instr, Value: req.Address})

		// Mirrors mips32_pracc_exec: the second fetch exactly at the debug
		// vector entry ends the session before any DATA/CONTROL-clear
		// exchange happens.
		if !req.Write && len(e.requests) > 0 && req.Address == e.requests[0].Address {
			if e.seenEntry {
				e.idx = len(e.requests)
				return nil
			}
			e.seenEntry = true
		}
		e.step = stepData

	case stepData:
		if e.instr != transport.EJTAGInstrData {
			return fmt.Errorf("mock ejtag: expected DATA scan, got instr %d", e.instr)
		}
		if req.Write {
			*word = req.WriteValue
		} else {
			e.Captured = append(e.Captured, *word)
		}
		e.Accesses = append(e.Accesses, Access{Instr: e.instr, Value: *word})
		e.step = stepControlClear

	case stepControlClear:
		if e.instr != transport.EJTAGInstrControl {
			return fmt.Errorf("mock ejtag: expected CONTROL clear, got instr %d", e.instr)
		}
		e.Accesses = append(e.Accesses, Access{Instr: e.instr, Value: *word})
		e.idx++
		e.step = stepControlPoll
	}

	return nil
}

func (e *EJTAG) AddClocks(n int) { e.Clocks += n }

func (e *EJTAG) Execute() error { return nil }

// Done reports whether every scripted request has been consumed.
func (e *EJTAG) Done() bool { return e.idx >= len(e.requests) }

const (
	ctrlPRACC = 1 << 18
	ctrlPRNW  = 1 << 19
)

var _ transport.EJTAG = (*EJTAG)(nil)
