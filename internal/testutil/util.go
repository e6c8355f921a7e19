// Package testutil is a collection of testing helper methods shared across
// the bvgraph packages.
package testutil

import "encoding/hex"

// MustDecodeHex must decode a hexadecimal string or else panics.
func MustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// MustDecodeBitGen must decode a BitGen formatted string or else panics.
func MustDecodeBitGen(s string) []byte {
	b, err := DecodeBitGen(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Arc is a (src, dst) pair, used by tests across arcsort/bvgraph/transform.
type Arc struct {
	Src, Dst uint64
}

// RandomGraph deterministically generates a small sorted adjacency list for
// n nodes, each with an out-degree drawn uniformly from [0, 2*avgDeg) (a
// mean of avgDeg-1/2), using seed to drive Rand.
// It returns, for each node in [0,n), its strictly increasing successor list.
func RandomGraph(seed int, n int, avgDeg int) [][]uint64 {
	r := NewRand(seed)
	succ := make([][]uint64, n)
	for v := 0; v < n; v++ {
		deg := r.Intn(2 * avgDeg)
		seen := make(map[uint64]bool, deg)
		list := make([]uint64, 0, deg)
		for len(list) < deg {
			w := uint64(r.Intn(n))
			if w == uint64(v) || seen[w] {
				continue
			}
			seen[w] = true
			list = append(list, w)
		}
		// Insertion sort: deg is small, and this keeps the generator
		// allocation-free beyond the slice itself.
		for i := 1; i < len(list); i++ {
			for j := i; j > 0 && list[j-1] > list[j]; j-- {
				list[j-1], list[j] = list[j], list[j-1]
			}
		}
		succ[v] = list
	}
	return succ
}

// RandomArcs flattens a RandomGraph's adjacency lists into an unordered arc
// slice, permuted by seed so callers can exercise external sorting.
func RandomArcs(seed int, n int, avgDeg int) []Arc {
	succ := RandomGraph(seed, n, avgDeg)
	var arcs []Arc
	for v, list := range succ {
		for _, w := range list {
			arcs = append(arcs, Arc{Src: uint64(v), Dst: w})
		}
	}
	r := NewRand(seed + 1)
	perm := r.Perm(len(arcs))
	out := make([]Arc, len(arcs))
	for i, p := range perm {
		out[p] = arcs[i]
	}
	return out
}
