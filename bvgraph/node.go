package bvgraph

// refResolver returns the (already decoded) successor list of the node
// `offset` positions before the node currently being decoded. A
// SequentialReader implements this as a window lookup; a RandomAccessReader
// implements it as a recursive decode, bounded by maxrefcount.
type refResolver func(offset uint64) ([]uint64, error)

// decodeNode runs the shared BV decode algorithm for a single node (spec.md
// §4.1/§4.4/§4.5): outdegree, then (if referenced) a block-masked copy from
// a prior successor list, then interval runs, then residual gaps — the
// three of which partition the node's successor set and are merged back
// into one sorted list.
func decodeNode(d Decoder, node uint64, windowSize uint64, resolve refResolver) ([]uint64, error) {
	outdegree, err := d.ReadOutdegree()
	if err != nil {
		return nil, err
	}
	if outdegree == 0 {
		return nil, nil
	}

	var copied []uint64
	if windowSize > 0 {
		refOffset, err := d.ReadReferenceOffset()
		if err != nil {
			return nil, err
		}
		if refOffset > 0 {
			if refOffset > windowSize || refOffset > node {
				return nil, ErrRefOutOfRange
			}
			referenced, err := resolve(refOffset)
			if err != nil {
				return nil, err
			}
			copied, err = decodeBlocks(d, referenced)
			if err != nil {
				return nil, err
			}
		}
	}

	intervalExpanded, err := decodeIntervals(d, node)
	if err != nil {
		return nil, err
	}

	remaining := outdegree - uint64(len(copied)) - uint64(len(intervalExpanded))
	residuals, err := decodeResiduals(d, node, remaining)
	if err != nil {
		return nil, err
	}

	return mergeSorted3(copied, intervalExpanded, residuals), nil
}

// decodeBlocks reads the block-count and block-length sequence and applies
// it to referenced as alternating copy/skip runs, starting with copy.
// Every block length after the first is stored decremented by one, since
// two consecutive blocks of the same kind are always merged by the
// encoder and so can never have zero length; the trailing, unwritten block
// implicitly runs to the end of referenced and is a copy block iff an even
// number of blocks were written explicitly.
func decodeBlocks(d Decoder, referenced []uint64) ([]uint64, error) {
	blockCount, err := d.ReadBlockCount()
	if err != nil {
		return nil, err
	}
	var out []uint64
	pos := uint64(0)
	copying := true
	for i := uint64(0); i < blockCount; i++ {
		blen, err := d.ReadBlock()
		if err != nil {
			return nil, err
		}
		if i > 0 {
			blen++
		}
		if pos+blen > uint64(len(referenced)) {
			return nil, ErrCorrupt
		}
		if copying {
			out = append(out, referenced[pos:pos+blen]...)
		}
		pos += blen
		copying = !copying
	}
	if copying {
		out = append(out, referenced[pos:]...)
	}
	return out, nil
}

// decodeIntervals reads the interval-run section. The first interval's
// start is a signed gap from node itself; every later interval's start is
// a signed gap from the end (start+length) of the previous one. Each
// interval's length is stored as length-minIntervalLength... in this
// package minIntervalLength is folded into the caller via the encoder's
// choice of when to emit an interval at all, so here length is read back
// as length-1 directly (the "block-length-minus-one" quirk): every
// interval the encoder emits has length >= 1, so subtracting one before
// writing and adding it back on read never loses information.
func decodeIntervals(d Decoder, node uint64) ([]uint64, error) {
	count, err := d.ReadIntervalCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	var out []uint64
	cursor := int64(node)
	for i := uint64(0); i < count; i++ {
		gap, err := d.ReadIntervalStart()
		if err != nil {
			return nil, err
		}
		start := cursor + gap
		if start < 0 {
			return nil, ErrCorrupt
		}
		lenMinus1, err := d.ReadIntervalLen()
		if err != nil {
			return nil, err
		}
		length := lenMinus1 + 1
		for v := uint64(start); v < uint64(start)+length; v++ {
			out = append(out, v)
		}
		cursor = start + int64(length)
	}
	return out, nil
}

// decodeResiduals reads exactly n residual gaps, each a signed gap from a
// cursor that starts at node and advances to (value+1) after each one is
// read, so a zero gap always means "the next integer after the last value
// emitted". Gaps are signed, so a negative first gap is what lets the very
// first residual be less than node itself (a successor the
// reference/interval sections didn't cover).
func decodeResiduals(d Decoder, node uint64, n uint64) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]uint64, 0, n)
	cursor := int64(node)
	for i := uint64(0); i < n; i++ {
		gap, err := d.ReadResidual()
		if err != nil {
			return nil, err
		}
		v := cursor + gap
		if v < 0 {
			return nil, ErrCorrupt
		}
		out = append(out, uint64(v))
		cursor = v + 1
	}
	return out, nil
}

// encodeNode is decodeNode's write-side mirror: given a node's full sorted
// successor list plus a pre-decomposed reference/block plan (the encoder
// package's job to compute), write the same five sections decodeNode
// expects to read back.
type nodePlan struct {
	refOffset uint64   // 0 if no reference
	blocks    []uint64 // raw lengths, not yet offset by the "i>0: +1" quirk
	copied    []uint64 // the actual copied successor values, for validation only

	intervalStarts []uint64 // absolute start of each interval run
	intervalLens   []uint64 // actual length (>=1) of each interval run

	residuals []uint64 // absolute values of the residual gaps, ascending
}

func encodeNode(e Encoder, node uint64, outdegree uint64, windowSize uint64, p nodePlan) error {
	if err := e.StartNode(node); err != nil {
		return err
	}
	if err := e.WriteOutdegree(outdegree); err != nil {
		return err
	}
	if outdegree == 0 {
		return e.EndNode()
	}

	if windowSize > 0 {
		if err := e.WriteReferenceOffset(p.refOffset); err != nil {
			return err
		}
	}
	if p.refOffset > 0 {
		if err := e.WriteBlockCount(uint64(len(p.blocks))); err != nil {
			return err
		}
		for i, blen := range p.blocks {
			v := blen
			if i > 0 {
				v--
			}
			if err := e.WriteBlock(v); err != nil {
				return err
			}
		}
	}

	if err := e.WriteIntervalCount(uint64(len(p.intervalStarts))); err != nil {
		return err
	}
	cursor := int64(node)
	for i, start := range p.intervalStarts {
		if err := e.WriteIntervalStart(int64(start) - cursor); err != nil {
			return err
		}
		length := p.intervalLens[i]
		if err := e.WriteIntervalLen(length - 1); err != nil {
			return err
		}
		cursor = int64(start) + int64(length)
	}

	cursor = int64(node)
	for _, v := range p.residuals {
		if err := e.WriteResidual(int64(v) - cursor); err != nil {
			return err
		}
		cursor = int64(v) + 1
	}

	return e.EndNode()
}
