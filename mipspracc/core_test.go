package mipspracc_test

import (
	"testing"

	"github.com/probelab/dbgcore/execstate"
	"github.com/probelab/dbgcore/mipspracc"
	"github.com/probelab/dbgcore/test"
	"github.com/probelab/dbgcore/transport"
)

const (
	ctrlBrkst   = 1 << 3
	ctrlJtagBrk = 1 << 12
)

// controlOnlyEJTAG is a bare CONTROL-register fake, used instead of
// mocktransport.EJTAG here since that fake models the full PrAcc
// request/address/data exchange sequence, not a standalone register poll.
// Only JtagBrk is software-writable; BrkSt and the rest are hardware status
// a scan-in of 0 never clears, mirroring real EJTAG CONTROL semantics.
type controlOnlyEJTAG struct {
	instr transport.EJTAGInstr
	ctrl  uint32
}

func (e *controlOnlyEJTAG) SetInstr(instr transport.EJTAGInstr) error { e.instr = instr; return nil }
func (e *controlOnlyEJTAG) DRScan32(word *uint32) error {
	out := e.ctrl
	e.ctrl = (e.ctrl &^ ctrlJtagBrk) | (*word & ctrlJtagBrk)
	*word = out
	return nil
}
func (e *controlOnlyEJTAG) AddClocks(n int) {}
func (e *controlOnlyEJTAG) Execute() error  { return nil }

var _ transport.EJTAG = (*controlOnlyEJTAG)(nil)

// invariant 7: Halt on an already-halted core is a no-op returning Ok.
func TestCoreHaltIdempotent(t *testing.T) {
	ejtag := &controlOnlyEJTAG{ctrl: ctrlBrkst}
	e := mipspracc.NewEngine(ejtag)
	c := mipspracc.NewCore(e, ejtag)

	test.NoError(t, c.Halt())
	test.Equate(t, int(c.State()), int(execstate.Halted))

	test.NoError(t, c.Halt())
	test.Equate(t, int(c.State()), int(execstate.Halted))
}

// scenario: Poll observes BrkSt clear then set, firing exactly one Halted
// event on the transition.
func TestCorePollTransitionsOnce(t *testing.T) {
	ejtag := &controlOnlyEJTAG{}
	e := mipspracc.NewEngine(ejtag)
	c := mipspracc.NewCore(e, ejtag)

	state, ev, err := c.Poll()
	test.NoError(t, err)
	test.Equate(t, int(state), int(execstate.Running))
	test.ExpectedSuccess(t, ev == nil)

	ejtag.ctrl = ctrlBrkst
	state, ev, err = c.Poll()
	test.NoError(t, err)
	test.Equate(t, int(state), int(execstate.Halted))
	test.ExpectedSuccess(t, ev != nil && *ev == execstate.EventHalted)

	_, ev, err = c.Poll()
	test.NoError(t, err)
	test.ExpectedSuccess(t, ev == nil)
}
