package tapstate

// Path is the shortest TMS sequence and its exact bit length for moving the
// TAP from the stable state "from" to the stable state "to". Both arguments
// must be stable (see IsStable); TMSPath panics otherwise; spec.md treats this
// as a caller-level precondition, not a recoverable error, since asking for
// a path from/to a non-stable state can only be a programming mistake.
//
// bits is LSB-first: bit 0 of bits is the first TMS value to drive. The
// sequence is never padded to a byte boundary — callers that need to clock
// exactly len bits must do so themselves, since some probe firmware
// mishandles padded transitions.
type Path struct {
	Bits uint64
	Len  int
}

// pathTable[from][to] holds the precomputed shortest path between every pair
// of stable states, indexed by StableIndex. It is built once, at package
// initialisation, by breadth-first search over the full 16-state transition
// graph (next), not transcribed by hand — the TAP graph is small enough that
// computing it is both simpler and safer than copying a table from memory.
var pathTable [6][6]Path

func init() {
	for i, from := range stableStates {
		dist, prevTMS, prevState := bfs(from)
		for j, to := range stableStates {
			if from == to {
				pathTable[i][j] = Path{Bits: 0, Len: 0}
				continue
			}
			pathTable[i][j] = reconstruct(pathLandingState(to), dist, prevTMS, prevState)
		}
	}
}

// pathLandingState maps a shift-state destination to the Capture state one
// edge short of it: every path to DRShift/IRShift ends at DRCapture/
// IRCapture, from DRPause/IRPause too (through Update and Select rather
// than Exit2), so each scan starts with a fresh capture. The Capture->Shift
// TMS=0 clock is the scan's own first data bit, not a separate TMS
// transition a caller needs to drive. Every other destination is landed on
// exactly.
func pathLandingState(to State) State {
	switch to {
	case DRShift:
		return DRCapture
	case IRShift:
		return IRCapture
	default:
		return to
	}
}

// bfs performs a breadth-first search of the 16-state graph starting at
// from, returning: the distance (in TMS clocks) to every state, the TMS bit
// driven on the last edge into that state, and the predecessor state.
func bfs(from State) (dist [numStates]int, prevTMS [numStates]bool, prevState [numStates]State) {
	const unvisited = -1
	for i := range dist {
		dist[i] = unvisited
	}
	dist[from] = 0

	queue := []State{from}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		for _, tms := range [2]bool{false, true} {
			n := NextState(s, tms)
			if dist[n] == unvisited {
				dist[n] = dist[s] + 1
				prevTMS[n] = tms
				prevState[n] = s
				queue = append(queue, n)
			}
		}
	}
	return
}

// reconstruct walks prevState/prevTMS backwards from "to" to build the
// LSB-first bit sequence, then reverses it into driving order.
func reconstruct(to State, dist [numStates]int, prevTMS [numStates]bool, prevState [numStates]State) Path {
	n := dist[to]

	// walk backwards, collecting TMS bits from last-driven to first-driven
	bitsReversed := make([]bool, 0, n)
	s := to
	for i := 0; i < n; i++ {
		bitsReversed = append(bitsReversed, prevTMS[s])
		s = prevState[s]
	}

	var bits uint64
	for i := 0; i < n; i++ {
		// bitsReversed[n-1-i] is the i-th bit driven (LSB-first)
		if bitsReversed[n-1-i] {
			bits |= 1 << uint(i)
		}
	}

	return Path{Bits: bits, Len: n}
}

// TMSPath returns the shortest TMS sequence from the stable state "from" to
// the stable state "to".
func TMSPath(from, to State) (bits uint64, length int) {
	i := StableIndex(from)
	j := StableIndex(to)
	p := pathTable[i][j]
	return p.Bits, p.Len
}
