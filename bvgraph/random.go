package bvgraph

import (
	"io"

	"github.com/vigna/bvgraph/bitio"
)

// RandomAccessOffsets maps a node id to the bit position of its record in
// the .graph stream. spec.md explicitly scopes a real succinct (Elias-Fano)
// implementation out of this module; ArrayOffsets in package graphio is
// the conforming, fully-materialized stand-in.
type RandomAccessOffsets interface {
	Get(node uint64) (bitPos uint64, err error)
}

// RandomAccessReader decodes any single node's successor list on demand,
// without maintaining a window: a reference is resolved by seeking to and
// recursively decoding the referenced node, bounded by maxrefcount so a
// malicious or corrupt reference chain cannot recurse unboundedly (spec.md
// §4.5, §7 "Chain too deep").
type RandomAccessReader struct {
	src         io.ReaderAt
	order       bitio.Order
	offsets     RandomAccessOffsets
	nodes       uint64
	windowSize  uint64
	maxRefCount uint64
	codes       CodeSet
}

// NewRandomAccessReader builds a reader over src using p's stream
// parameters and offsets for seeking to each node's record.
func NewRandomAccessReader(src io.ReaderAt, p Properties, offsets RandomAccessOffsets) *RandomAccessReader {
	return &RandomAccessReader{
		src:         src,
		order:       p.Order(),
		offsets:     offsets,
		nodes:       p.Nodes,
		windowSize:  p.WindowSize,
		maxRefCount: p.MaxRefCount,
		codes:       p.Codes,
	}
}

// newDecoder builds the Decoder matching r.codes over a reader positioned
// at bitPos, dispatching dynamically unless r.codes is the default set
// (spec.md §4.3: the static path only covers DefaultCodeSet).
func (r *RandomAccessReader) newDecoder(bitPos uint64) Decoder {
	bitReader := bitio.NewReaderAt(r.src, r.order, bitPos)
	if r.codes.IsDefault() {
		return NewDefaultDecoder(bitReader)
	}
	return NewDynDecoder(bitReader, r.codes)
}

// Successors decodes and returns node's successor list.
func (r *RandomAccessReader) Successors(node uint64) (succ []uint64, err error) {
	defer recoverErr(&err)
	return r.decodeAt(node, 0), nil
}

// Outdegree decodes only node's outdegree field, skipping the rest of its
// record — the fast path spec.md §4.5 calls out for callers that don't
// need the full successor list.
func (r *RandomAccessReader) Outdegree(node uint64) (outdegree uint64, err error) {
	defer recoverErr(&err)
	bitPos, e := r.offsets.Get(node)
	if e != nil {
		panic(e)
	}
	dec := r.newDecoder(bitPos)
	od, e := dec.ReadOutdegree()
	if e != nil {
		panic(e)
	}
	return od, nil
}

// decodeAt decodes node's successor list, recursing through reference
// chains as needed. depth counts how many reference hops deep this call
// is, so a chain longer than maxrefcount panics ErrChainTooDeep rather
// than recursing indefinitely.
func (r *RandomAccessReader) decodeAt(node uint64, depth uint64) []uint64 {
	if depth > r.maxRefCount {
		panic(ErrChainTooDeep)
	}
	bitPos, err := r.offsets.Get(node)
	if err != nil {
		panic(err)
	}
	dec := r.newDecoder(bitPos)
	succ, err := decodeNode(dec, node, r.windowSize, func(offset uint64) ([]uint64, error) {
		return r.decodeAt(node-offset, depth+1), nil
	})
	if err != nil {
		panic(err)
	}
	return succ
}
