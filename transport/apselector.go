package transport

// APSelector formalises the "save/restore around every borrow" rule spec.md
// §5 places on the AP selector, a resource shared by every caller of a DAP.
// Callers that need DebugAP for a handful of operations use it as:
//
//	restore, err := transport.BorrowAP(dap, transport.DebugAP)
//	if err != nil { return err }
//	defer restore()
//
// restore is guaranteed to put the selector back to what it was before the
// borrow, on both the success and error paths, by virtue of being a defer.
func BorrowAP(dap DAP, want AP) (restore func() error, err error) {
	prev, err := dap.SelectedAP()
	if err != nil {
		return nil, err
	}

	if prev != want {
		if err := dap.SelectAP(want); err != nil {
			return nil, err
		}
	}

	return func() error {
		if prev == want {
			return nil
		}
		return dap.SelectAP(prev)
	}, nil
}
