package bvgraph

import "container/heap"

// ZuckerliEncoder is the heap-greedy reference-selection variant SPEC_FULL
// calls out as optional (Google's Zuckerli paper describes both a DP and a
// heap-greedy search over candidate references; only the heap-greedy
// variant is implemented here). Instead of GraphEncoder's exact O(window)
// cost estimate per node, it ranks window candidates by a cheap overlap
// heuristic (popcount of the intersection with the target) and only
// fully costs the top few, trading a small amount of compression for a
// candidate pool that shrinks as nodes with few remaining overlaps sink to
// the bottom of the heap.
type ZuckerliEncoder struct {
	*GraphEncoder
	beamWidth int
}

// NewZuckerliEncoder wraps enc/off like NewGraphEncoder, but EncodeNode
// will only fully cost the beamWidth most-overlapping window candidates
// instead of every candidate in the window.
func NewZuckerliEncoder(enc Encoder, off *OffsetsWriter, cfg EncoderConfig, beamWidth int) *ZuckerliEncoder {
	if beamWidth <= 0 {
		beamWidth = 4
	}
	return &ZuckerliEncoder{GraphEncoder: NewGraphEncoder(enc, off, cfg), beamWidth: beamWidth}
}

type candidateScore struct {
	offset  uint64
	overlap int
}

// candidateHeap is a max-heap on overlap, so the most promising candidates
// pop first.
type candidateHeap []candidateScore

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].overlap > h[j].overlap }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidateScore)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// EncodeNode overrides GraphEncoder.EncodeNode's reference search with the
// beam-limited heap-greedy strategy; everything else (interval
// decomposition, residual writing, offset tracking) is shared.
func (z *ZuckerliEncoder) EncodeNode(successors []uint64) error {
	node := z.GraphEncoder.node
	outdegree := uint64(len(successors))

	plan := nodePlan{}
	chainDepth := uint64(0)
	if outdegree > 0 && z.cfg.WindowSize > 0 {
		offset, blocks, copied, chainD := z.chooseReferenceBeam(node, successors)
		if offset > 0 {
			plan.refOffset = offset
			plan.blocks = blocks
			plan.copied = copied
			chainDepth = chainD
		}
	}

	leftover := setDiffSorted(successors, plan.copied)
	if outdegree > 0 {
		intervals, intervalLens, residual := decomposeIntervals(leftover, z.cfg.MinIntervalLength)
		plan.intervalStarts = intervals
		plan.intervalLens = intervalLens
		plan.residuals = residual
	}

	if err := encodeNode(z.enc, node, outdegree, z.cfg.WindowSize, plan); err != nil {
		return err
	}
	bitPos, err := z.enc.Flush()
	if err != nil {
		return err
	}
	if err := z.offsets.Put(bitPos); err != nil {
		return err
	}

	slot := int(node % uint64(len(z.depth)))
	z.depth[slot] = chainDepth
	z.win.Put(node, successors)
	z.GraphEncoder.node++
	if z.checksum != nil {
		z.checksum.Write(successors)
	}
	return nil
}

func (z *ZuckerliEncoder) chooseReferenceBeam(node uint64, successors []uint64) (offset uint64, blocks, copied []uint64, chainDepth uint64) {
	maxOffset := z.cfg.WindowSize
	if node < maxOffset {
		maxOffset = node
	}

	h := &candidateHeap{}
	heap.Init(h)
	for off := uint64(1); off <= maxOffset; off++ {
		slot := int((node - off) % uint64(len(z.depth)))
		if z.depth[slot]+1 > z.cfg.MaxRefCount {
			continue
		}
		candidate := z.win.At(node - off)
		if candidate == nil {
			continue
		}
		overlap := countOverlap(candidate, successors)
		if overlap == 0 {
			continue
		}
		heap.Push(h, candidateScore{offset: off, overlap: overlap})
	}

	bestCost := estimateDirectCost(z.cfg.Codes, node, z.cfg.WindowSize, successors)
	var bestOffset uint64
	var bestBlocks, bestCopied []uint64
	var bestChainDepth uint64

	for i := 0; i < z.beamWidth && h.Len() > 0; i++ {
		cs := heap.Pop(h).(candidateScore)
		slot := int((node - cs.offset) % uint64(len(z.depth)))
		candidate := z.win.At(node - cs.offset)
		blk, cop := computeBlocks(candidate, successors)
		if len(cop) == 0 {
			continue
		}
		remaining := setDiffSorted(successors, cop)
		cost := estimateReferenceCost(z.cfg.Codes, node, cs.offset, z.cfg.WindowSize, blk, remaining, uint64(len(successors)))
		if cost < bestCost {
			bestCost = cost
			bestOffset = cs.offset
			bestBlocks = blk
			bestCopied = cop
			bestChainDepth = z.depth[slot] + 1
		}
	}
	return bestOffset, bestBlocks, bestCopied, bestChainDepth
}

// countOverlap counts how many elements two sorted, duplicate-free slices
// have in common.
func countOverlap(a, b []uint64) int {
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}
