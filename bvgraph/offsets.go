package bvgraph

import "github.com/vigna/bvgraph/codes"

// OffsetsWriter writes the .offsets side file: one gamma-coded value per
// node, the bit length of that node's record (i.e. the delta between
// consecutive cumulative bit positions), per spec.md §6. ArrayOffsets (in
// package graphio) decodes this stream back into a fully materialized
// RandomAccessOffsets, standing in for the real succinct Elias-Fano index
// this module scopes out.
type OffsetsWriter struct {
	w    writer
	last uint64
}

// NewOffsetsWriter wraps w (positioned at bit 0 of a fresh .offsets
// stream).
func NewOffsetsWriter(w writer) *OffsetsWriter {
	return &OffsetsWriter{w: w}
}

// Put records that the node just encoded ended at the given absolute bit
// position in the .graph stream.
func (o *OffsetsWriter) Put(endBitPos uint64) error {
	delta := endBitPos - o.last
	if _, err := codes.WriteGamma(o.w, delta); err != nil {
		return err
	}
	o.last = endBitPos
	return nil
}

// Flush pads the offsets stream to a byte boundary.
func (o *OffsetsWriter) Flush() error {
	_, err := o.w.Flush()
	return err
}

// ReadOffsets decodes a full .offsets stream into a slice of cumulative
// bit positions, offsets[i] being the bit position at which node i's
// record begins (offsets[0] == 0, offsets[nodes] the stream's total bit
// length).
func ReadOffsets(r reader, nodes uint64) ([]uint64, error) {
	out := make([]uint64, nodes+1)
	var cum uint64
	for i := uint64(0); i < nodes; i++ {
		delta, err := codes.ReadGamma(r)
		if err != nil {
			return nil, err
		}
		cum += delta
		out[i+1] = cum
	}
	return out, nil
}
