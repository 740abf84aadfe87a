package tapstate

// Tracker mirrors the TAP's actual current state and the queued end state
// (what the next SIR/SDR will leave the TAP in), as spec.md §3 requires.
// Unlike the original source this mirrors, a Tracker is a value owned and
// mutated only by the one driver instance that created it — never a
// package-level global — per the design note in §9.
type Tracker struct {
	current State
	end     State
}

// NewTracker creates a Tracker in the given current and end state. Real
// hardware starts in an unknown state after power-up; callers that don't
// know the true state should pass Reset after actually resetting the TAP.
func NewTracker(initial State) *Tracker {
	return &Tracker{current: initial, end: initial}
}

// Current returns the tracked current state.
func (t *Tracker) Current() State {
	return t.current
}

// End returns the tracked end state.
func (t *Tracker) End() State {
	return t.end
}

// SetEnd records the state that the next SIR/SDR is queued to leave the TAP
// in. It does not itself move the TAP; Advance does that.
func (t *Tracker) SetEnd(s State) {
	t.end = s
}

// Advance records that a single TMS bit has actually been clocked into the
// TAP, updating the tracked current state via the static transition table.
// The caller (the driver layer) is solely responsible for calling Advance
// exactly once per TMS bit actually driven on the wire — Tracker has no way
// to verify that on its own.
func (t *Tracker) Advance(tms bool) {
	t.current = NextState(t.current, tms)
}

// MoveToEnd returns the TMS bit sequence required to move from the tracked
// current state to the tracked end state, and advances the tracked current
// state to end as a side effect (mirroring the TMS bits this sequence
// represents actually having been clocked).
//
// Both current and end must be stable states; that is the only state a
// driver should ever queue as an end state between SIR/SDR operations.
func (t *Tracker) MoveToEnd() (bits uint64, length int) {
	bits, length = TMSPath(t.current, t.end)
	t.current = t.end
	return bits, length
}
