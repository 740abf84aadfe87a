package dbgerr_test

import (
	"testing"

	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/test"
)

func TestKindOf(t *testing.T) {
	e := dbgerr.New(dbgerr.Timeout, "timeout waiting for %s", "InstrCompl")
	test.Equate(t, dbgerr.KindOf(e), dbgerr.Timeout)
	test.Equate(t, e.Error(), "timeout waiting for InstrCompl")

	test.Equate(t, dbgerr.KindOf(nil), dbgerr.Ok)
}

func TestWrapTransport(t *testing.T) {
	inner := dbgerr.Failf("scan chain broken")
	e := dbgerr.Wrap(dbgerr.Transport, inner)
	test.Equate(t, dbgerr.KindOf(e), dbgerr.Transport)
	test.ExpectedSuccess(t, dbgerr.Is(e, "scan chain broken"))
}

func TestUnclassifiedIsFail(t *testing.T) {
	plain := &plainError{"boom"}
	test.Equate(t, dbgerr.KindOf(plain), dbgerr.Fail)
}

type plainError struct{ s string }

func (p *plainError) Error() string { return p.s }
