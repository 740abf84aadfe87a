package mipspracc

import (
	"github.com/probelab/dbgcore/dbgerr"
	"github.com/probelab/dbgcore/logger"
	"github.com/probelab/dbgcore/transport"
)

const logTag = "mipspracc"

// execContext is the scratch state one pracc_exec call thread through: the
// injected code, the two parameter windows, and the software-simulated
// debug stack. None of this lives on the target; PraccStack addresses are
// simply routed back to ctx.stack by this engine.
type execContext struct {
	code       []uint32
	paramIn    []uint32
	paramOut   []uint32
	stack      [32]uint32
	stackTop   int
}

// exec runs one code snippet to completion, feeding paramIn and collecting
// paramOut, mirroring mips32_pracc_exec's read/write dispatch loop.
func (e *Engine) exec(code []uint32, paramIn []uint32, numOut int) ([]uint32, error) {
	ctx := &execContext{
		code:     code,
		paramIn:  paramIn,
		paramOut: make([]uint32, numOut),
	}

	pass := 0
	for {
		ctrl, err := e.waitForPrAcc()
		if err != nil {
			return nil, err
		}

		if err := e.ejtag.SetInstr(transport.EJTAGInstrAddress); err != nil {
			return nil, dbgerr.Wrap(dbgerr.Transport, err)
		}
		var address uint32
		if err := e.ejtag.DRScan32(&address); err != nil {
			return nil, dbgerr.Wrap(dbgerr.Transport, err)
		}

		const ctrlPRNW = 1 << 19
		if ctrl&ctrlPRNW != 0 {
			if err := e.execWrite(ctx, address); err != nil {
				return nil, err
			}
			continue
		}

		if address == PraccText {
			pass++
			if pass > 1 {
				break
			}
		}

		if err := e.execRead(ctx, address); err != nil {
			return nil, err
		}
	}

	if ctx.stackTop != 0 {
		logger.Logf(logTag, "debug stack not empty at end of exec: depth %d", ctx.stackTop)
	}

	return ctx.paramOut, nil
}

func (e *Engine) waitForPrAcc() (uint32, error) {
	if err := e.ejtag.SetInstr(transport.EJTAGInstrControl); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	var ctrl uint32
	if err := e.ejtag.DRScan32(&ctrl); err != nil {
		return 0, dbgerr.Wrap(dbgerr.Transport, err)
	}
	const ctrlPRACC = 1 << 18
	if ctrl&ctrlPRACC == 0 {
		return 0, dbgerr.New(dbgerr.Fail, "mipspracc: no memory access in progress (ctrl=%#x)", ctrl)
	}
	return ctrl, nil
}

func (e *Engine) execRead(ctx *execContext, address uint32) error {
	data, err := ctx.resolveRead(address)
	if err != nil {
		return err
	}

	if err := e.ejtag.SetInstr(transport.EJTAGInstrData); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	if err := e.ejtag.DRScan32(&data); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	return e.clearPrAcc()
}

func (e *Engine) execWrite(ctx *execContext, address uint32) error {
	var data uint32
	if err := e.ejtag.SetInstr(transport.EJTAGInstrData); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	if err := e.ejtag.DRScan32(&data); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}

	if err := e.clearPrAcc(); err != nil {
		return err
	}

	return ctx.resolveWrite(address, data)
}

func (e *Engine) clearPrAcc() error {
	const ctrlPRACC = 1 << 18
	var ctrl uint32
	if err := e.ejtag.SetInstr(transport.EJTAGInstrControl); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	ctrl &^= ctrlPRACC
	if err := e.ejtag.DRScan32(&ctrl); err != nil {
		return dbgerr.Wrap(dbgerr.Transport, err)
	}
	e.ejtag.AddClocks(5)
	return dbgerr.Wrap(dbgerr.Transport, e.ejtag.Execute())
}

func (ctx *execContext) resolveRead(address uint32) (uint32, error) {
	switch {
	case inRange(address, PraccParamIn, len(ctx.paramIn)):
		return ctx.paramIn[(address-PraccParamIn)/4], nil
	case inRange(address, PraccParamOut, len(ctx.paramOut)):
		return ctx.paramOut[(address-PraccParamOut)/4], nil
	case inRange(address, PraccText, len(ctx.code)):
		return ctx.code[(address-PraccText)/4], nil
	case address == PraccStack:
		if ctx.stackTop == 0 {
			return 0, dbgerr.New(dbgerr.Fail, "mipspracc: debug stack underflow")
		}
		ctx.stackTop--
		return ctx.stack[ctx.stackTop], nil
	default:
		return 0, dbgerr.New(dbgerr.Fail, "mipspracc: read from unexpected address %#x", address)
	}
}

func (ctx *execContext) resolveWrite(address, data uint32) error {
	switch {
	case inRange(address, PraccParamIn, len(ctx.paramIn)):
		ctx.paramIn[(address-PraccParamIn)/4] = data
		return nil
	case inRange(address, PraccParamOut, len(ctx.paramOut)):
		ctx.paramOut[(address-PraccParamOut)/4] = data
		return nil
	case address == PraccStack:
		if ctx.stackTop >= len(ctx.stack) {
			return dbgerr.New(dbgerr.Fail, "mipspracc: debug stack overflow")
		}
		ctx.stack[ctx.stackTop] = data
		ctx.stackTop++
		return nil
	default:
		return dbgerr.New(dbgerr.Fail, "mipspracc: write to unexpected address %#x", address)
	}
}

func inRange(addr, base uint32, count int) bool {
	if count <= 0 {
		return false
	}
	span := uint32(count) * 4
	return addr >= base && addr < base+span
}
