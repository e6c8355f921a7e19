package graphio

import (
	"bytes"

	"github.com/vigna/bvgraph/bitio"
	"github.com/vigna/bvgraph/bvgraph"
)

// ArrayOffsets is a fully materialized RandomAccessOffsets: every node's
// starting bit position lives in one []uint64, decoded once from a
// .offsets file. SPEC_FULL explicitly scopes a real succinct (Elias-Fano)
// offsets index out of this module; ArrayOffsets is the conforming,
// non-succinct implementation that satisfies bvgraph.RandomAccessOffsets
// in its place — O(nodes) words of memory instead of O(nodes) bits.
type ArrayOffsets struct {
	bitPos []uint64
}

// NewArrayOffsets decodes a .offsets stream (gamma-coded deltas, per
// bvgraph.OffsetsWriter) for a graph with the given node count.
func NewArrayOffsets(offsetsBytes []byte, order bitio.Order, nodes uint64) (*ArrayOffsets, error) {
	r := bitio.NewReader(bytes.NewReader(offsetsBytes), order)
	bitPos, err := bvgraph.ReadOffsets(r, nodes)
	if err != nil {
		return nil, err
	}
	return &ArrayOffsets{bitPos: bitPos}, nil
}

// Get implements bvgraph.RandomAccessOffsets.
func (a *ArrayOffsets) Get(node uint64) (uint64, error) {
	if node >= uint64(len(a.bitPos)) {
		return 0, Error("node index out of range")
	}
	return a.bitPos[node], nil
}
