// Package tapstate is a pure function library over the IEEE 1149.1 JTAG
// TAP's 16-state machine. Nothing in this package holds state at package
// scope: the "current"/"end" state pair that a real driver tracks lives in
// a Tracker value owned by that driver (see tracker.go), per the design note
// that the state follower must never be process-wide.
package tapstate

import "fmt"

// State is one of the 16 states of the IEEE 1149.1 TAP controller.
type State int

// List of valid State values.
const (
	Reset State = iota
	Idle
	DRSelect
	DRCapture
	DRShift
	DRExit1
	DRPause
	DRExit2
	DRUpdate
	IRSelect
	IRCapture
	IRShift
	IRExit1
	IRPause
	IRExit2
	IRUpdate

	numStates = 16
)

// names is indexed by State.
var names = [numStates]string{
	Reset:     "RESET",
	Idle:      "IDLE",
	DRSelect:  "DRSELECT",
	DRCapture: "DRCAPTURE",
	DRShift:   "DRSHIFT",
	DRExit1:   "DREXIT1",
	DRPause:   "DRPAUSE",
	DRExit2:   "DREXIT2",
	DRUpdate:  "DRUPDATE",
	IRSelect:  "IRSELECT",
	IRCapture: "IRCAPTURE",
	IRShift:   "IRSHIFT",
	IRExit1:   "IREXIT1",
	IRPause:   "IRPAUSE",
	IRExit2:   "IREXIT2",
	IRUpdate:  "IRUPDATE",
}

// Name returns the human-readable name of s. It panics if s is not a valid
// State, since that can only happen as a result of a programming error.
func Name(s State) string {
	if s < 0 || int(s) >= numStates {
		panic(fmt.Sprintf("tapstate: invalid state %d", int(s)))
	}
	return names[s]
}

// String implements the fmt.Stringer interface.
func (s State) String() string {
	return Name(s)
}

// ByName returns the State with the given name (case sensitive, matching
// Name's output), and true if one was found.
func ByName(name string) (State, bool) {
	for i, n := range names {
		if n == name {
			return State(i), true
		}
	}
	return 0, false
}

// next is the static transition table of the 1149.1 TAP: next[s][tms] is the
// state entered from s when the given TMS bit is driven.
//
//	          TMS=0        TMS=1
var next = [numStates][2]State{
	Reset:     {Idle, Reset},
	Idle:      {Idle, DRSelect},
	DRSelect:  {DRCapture, IRSelect},
	DRCapture: {DRShift, DRExit1},
	DRShift:   {DRShift, DRExit1},
	DRExit1:   {DRPause, DRUpdate},
	DRPause:   {DRPause, DRExit2},
	DRExit2:   {DRShift, DRUpdate},
	DRUpdate:  {Idle, DRSelect},
	IRSelect:  {IRCapture, Reset},
	IRCapture: {IRShift, IRExit1},
	IRShift:   {IRShift, IRExit1},
	IRExit1:   {IRPause, IRUpdate},
	IRPause:   {IRPause, IRExit2},
	IRExit2:   {IRShift, IRUpdate},
	IRUpdate:  {Idle, DRSelect},
}

// NextState returns the state entered from s when tms is driven.
func NextState(s State, tms bool) State {
	idx := 0
	if tms {
		idx = 1
	}
	return next[s][idx]
}

// stableStates is the canonical stable-state ordering used to index the
// precomputed path table: [Reset, Idle, DRShift, DRPause, IRShift, IRPause].
var stableStates = [6]State{Reset, Idle, DRShift, DRPause, IRShift, IRPause}

// IsStable reports whether s has a self-loop on some value of TMS, ie.
// whether a driver can sit in s indefinitely.
func IsStable(s State) bool {
	return next[s][0] == s || next[s][1] == s
}

// StableIndex returns the 0..5 index of s within the canonical stable-state
// ordering. It panics if s is not stable, since every caller of this
// function is expected to have already checked (the path table can only be
// indexed by stable states).
func StableIndex(s State) int {
	for i, ss := range stableStates {
		if ss == s {
			return i
		}
	}
	panic(fmt.Sprintf("tapstate: %s is not a stable state", Name(s)))
}
