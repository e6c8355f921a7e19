package transform

import (
	"bufio"
	"encoding/binary"
	"io"
)

// ReadPermutation reads a permutation file: nodes big-endian uint64
// values, perm[i] being the new id of old node i (spec.md §6's
// fixed-width permutation format).
func ReadPermutation(r io.Reader, nodes uint64) ([]uint64, error) {
	br := bufio.NewReader(r)
	perm := make([]uint64, nodes)
	if err := binary.Read(br, binary.BigEndian, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// WritePermutation writes perm in the same fixed-width big-endian format
// ReadPermutation accepts.
func WritePermutation(w io.Writer, perm []uint64) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.BigEndian, perm); err != nil {
		return err
	}
	return bw.Flush()
}
