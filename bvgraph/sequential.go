package bvgraph

// SequentialReader walks a BV graph stream node by node, in increasing
// node order, maintaining only the last windowsize+1 decoded successor
// lists (spec.md §4.4) rather than a full random-access index.
type SequentialReader struct {
	dec        Decoder
	nodes      uint64
	windowSize uint64
	win        *window
	next       uint64
	checksum   *Checksum
}

// NewSequentialReader wraps dec (already positioned at bit 0 of the
// stream) for sequential traversal of a graph with the given node count
// and windowsize.
func NewSequentialReader(dec Decoder, nodes, windowSize uint64) *SequentialReader {
	return &SequentialReader{
		dec:        dec,
		nodes:      nodes,
		windowSize: windowSize,
		win:        newWindow(windowSize),
	}
}

// HasNext reports whether another node remains to be read.
func (s *SequentialReader) HasNext() bool { return s.next < s.nodes }

// EnableChecksum turns on whole-graph checksum accumulation over the
// successor lists this reader decodes; see GraphEncoder.EnableChecksum and
// VerifyChecksum.
func (s *SequentialReader) EnableChecksum() { s.checksum = &Checksum{} }

// Sum32 returns the checksum accumulated so far and whether EnableChecksum
// was ever called.
func (s *SequentialReader) Sum32() (uint32, bool) {
	if s.checksum == nil {
		return 0, false
	}
	return s.checksum.Sum32(), true
}

// Next decodes and returns the successor list of the next node, in order.
// The returned slice is owned by the caller; SequentialReader will not
// reuse its backing array until that node falls out of the window (i.e.
// not before windowsize further calls to Next).
func (s *SequentialReader) Next() (node uint64, succ []uint64, err error) {
	defer recoverErr(&err)
	if !s.HasNext() {
		panic(Error("Next called with no nodes remaining"))
	}
	node = s.next
	succ, err = decodeNode(s.dec, node, s.windowSize, func(offset uint64) ([]uint64, error) {
		ref := node - offset
		return s.win.At(ref), nil
	})
	if err != nil {
		return node, nil, err
	}
	s.win.Put(node, succ)
	s.next++
	if s.checksum != nil {
		s.checksum.Write(succ)
	}
	return node, succ, nil
}
