// Package visualize renders the TAP state graph to Graphviz DOT, for
// debugging the debug core itself. It is a thin adapter over
// bradleyjkemp/memviz, which the teacher codebase uses to dump arbitrary
// in-memory structures for ad-hoc inspection; the TAP's 16-state adjacency
// table is exactly the kind of small, pointer-heavy structure memviz targets.
package visualize

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/probelab/dbgcore/tapstate"
)

// edge is one transition of the TAP graph, named for display rather than
// relying on memviz to render the raw State ints.
type edge struct {
	TMS0 string
	TMS1 string
}

// graph is the structure actually handed to memviz: a map from state name to
// its two outgoing edges. Building this instead of handing memviz the raw
// next[] table gives the rendered graph readable node labels.
type graph struct {
	Stable   []string
	Unstable []string
	Edges    map[string]*edge
}

func buildGraph() *graph {
	g := &graph{Edges: make(map[string]*edge)}

	for s := tapstate.Reset; s <= tapstate.IRUpdate; s++ {
		name := tapstate.Name(s)
		if tapstate.IsStable(s) {
			g.Stable = append(g.Stable, name)
		} else {
			g.Unstable = append(g.Unstable, name)
		}
		g.Edges[name] = &edge{
			TMS0: tapstate.Name(tapstate.NextState(s, false)),
			TMS1: tapstate.Name(tapstate.NextState(s, true)),
		}
	}
	return g
}

// DumpGraph writes a Graphviz DOT rendering of the full 16-state TAP
// transition graph to w.
func DumpGraph(w io.Writer) {
	memviz.Map(w, buildGraph())
}

// DumpPath writes a Graphviz DOT rendering of the precomputed shortest-path
// table between the six stable states, useful when a path looks wrong and
// the whole table needs eyeballing at once.
func DumpPath(w io.Writer) {
	type entry struct {
		From, To string
		Bits     uint64
		Len      int
	}

	stable := []tapstate.State{
		tapstate.Reset, tapstate.Idle, tapstate.DRShift,
		tapstate.DRPause, tapstate.IRShift, tapstate.IRPause,
	}

	var entries []*entry
	for _, from := range stable {
		for _, to := range stable {
			bits, length := tapstate.TMSPath(from, to)
			entries = append(entries, &entry{
				From: tapstate.Name(from),
				To:   tapstate.Name(to),
				Bits: bits,
				Len:  length,
			})
		}
	}

	memviz.Map(w, entries)
}
