package transform

import "github.com/vigna/bvgraph/arcsort"

// arcStream is the minimal pull-based interface Union merges over — both
// *arcsort.MergeIterator and any other already-sorted arc source can
// implement it.
type arcStream interface {
	Next() (arcsort.Arc, bool, error)
}

// Union lazily merges n already-sorted, ascending arc streams into one
// ascending stream, without buffering more than one pending arc per
// input — a read-only k-way merge, the arc-stream analogue of
// webgraph's union_graph.rs, which merges two BVGraphs node-by-node
// instead of materializing their union. Duplicate arcs across inputs
// (an arc present in more than one stream) are emitted once.
type Union struct {
	streams []arcStream
	pending []arcsort.Arc
	valid   []bool
	started bool
	err     error
}

// NewUnion returns a Union over streams, each of which must already
// yield arcs in ascending (Src, Dst) order.
func NewUnion(streams ...arcStream) *Union {
	return &Union{
		streams: streams,
		pending: make([]arcsort.Arc, len(streams)),
		valid:   make([]bool, len(streams)),
	}
}

func (u *Union) fill() {
	for i, s := range u.streams {
		a, ok, err := s.Next()
		if err != nil {
			u.err = err
			return
		}
		u.pending[i] = a
		u.valid[i] = ok
	}
}

// Next returns the next arc in the union's ascending merged order, or
// ok=false once every input stream is exhausted.
func (u *Union) Next() (arcsort.Arc, bool, error) {
	if u.err != nil {
		return arcsort.Arc{}, false, u.err
	}
	if !u.started {
		u.fill()
		u.started = true
		if u.err != nil {
			return arcsort.Arc{}, false, u.err
		}
	}

	best := -1
	for i, ok := range u.valid {
		if !ok {
			continue
		}
		if best == -1 || arcsort.Less(u.pending[i], u.pending[best]) {
			best = i
		}
	}
	if best == -1 {
		return arcsort.Arc{}, false, nil
	}
	result := u.pending[best]

	// Advance every stream currently pointing at result, so duplicate
	// arcs across inputs collapse to one. Equality is by (Src, Dst) only,
	// matching arcsort.MergeIterator's dedup key — Label never
	// participates (see arcsort.Less).
	for i, ok := range u.valid {
		if !ok || u.pending[i].Src != result.Src || u.pending[i].Dst != result.Dst {
			continue
		}
		a, ok2, err := u.streams[i].Next()
		if err != nil {
			u.err = err
			return arcsort.Arc{}, false, err
		}
		u.pending[i], u.valid[i] = a, ok2
	}
	return result, true, nil
}
