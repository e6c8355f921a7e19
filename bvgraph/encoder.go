package bvgraph

import (
	"io"

	"github.com/vigna/bvgraph/bitio"
)

// EncoderConfig controls how GraphEncoder chooses references and splits
// successor lists into intervals versus residuals. The blank field mirrors
// package bzip2's ReaderConfig/WriterConfig convention: it forbids unkeyed
// struct literals, so options can be added later without breaking callers.
type EncoderConfig struct {
	WindowSize        uint64
	MaxRefCount       uint64
	MinIntervalLength uint64
	Codes             CodeSet

	_ struct{}
}

// GraphEncoder runs the greedy BV encoding algorithm (spec.md §4.1): for
// each node, search the window for the reference whose encoding costs the
// fewest bits, then split whatever the reference (if any) didn't cover
// into interval runs and residual gaps.
type GraphEncoder struct {
	cfg      EncoderConfig
	enc      Encoder
	offsets  *OffsetsWriter
	win      *window
	depth    []uint64 // per-window-slot reference chain depth, parallel to win.buf
	node     uint64
	checksum *Checksum
}

// NewGraphEncoder wraps enc (a fresh Encoder over a bit writer positioned
// at bit 0) and off (its matching offsets writer).
func NewGraphEncoder(enc Encoder, off *OffsetsWriter, cfg EncoderConfig) *GraphEncoder {
	return &GraphEncoder{
		cfg:     cfg,
		enc:     enc,
		offsets: off,
		win:     newWindow(cfg.WindowSize),
		depth:   make([]uint64, cfg.WindowSize+1),
	}
}

// EnableChecksum turns on whole-graph checksum accumulation (spec.md §6's
// graphchecksum property, written by a caller into Properties.GraphChecksum
// once encoding finishes); call Sum32 after the last EncodeNode to read it.
func (e *GraphEncoder) EnableChecksum() { e.checksum = &Checksum{} }

// Sum32 returns the checksum accumulated so far and whether EnableChecksum
// was ever called.
func (e *GraphEncoder) Sum32() (uint32, bool) {
	if e.checksum == nil {
		return 0, false
	}
	return e.checksum.Sum32(), true
}

// EncodeNode encodes node's successor list, which must be sorted ascending
// and duplicate-free, and must equal node's actual position in node order
// (nodes must be encoded 0, 1, 2, ... in sequence).
func (e *GraphEncoder) EncodeNode(successors []uint64) error {
	node := e.node
	outdegree := uint64(len(successors))

	plan := nodePlan{}
	chainDepth := uint64(0)
	if outdegree > 0 && e.cfg.WindowSize > 0 {
		offset, blocks, copied, chainD := e.chooseReference(node, successors)
		if offset > 0 {
			plan.refOffset = offset
			plan.blocks = blocks
			plan.copied = copied
			chainDepth = chainD
		}
	}

	leftover := setDiffSorted(successors, plan.copied)
	if outdegree > 0 {
		intervals, intervalLens, residual := decomposeIntervals(leftover, e.cfg.MinIntervalLength)
		plan.intervalStarts = intervals
		plan.intervalLens = intervalLens
		plan.residuals = residual
	}

	if err := encodeNode(e.enc, node, outdegree, e.cfg.WindowSize, plan); err != nil {
		return err
	}
	bitPos, err := e.enc.Flush()
	if err != nil {
		return err
	}
	if err := e.offsets.Put(bitPos); err != nil {
		return err
	}

	slot := int(node % uint64(len(e.depth)))
	e.depth[slot] = chainDepth
	e.win.Put(node, successors)
	e.node++
	if e.checksum != nil {
		e.checksum.Write(successors)
	}
	return nil
}

// chooseReference searches the window for the candidate offset whose
// block-masked copy of successors costs the fewest estimated bits,
// returning offset 0 if no candidate beats encoding everything directly.
func (e *GraphEncoder) chooseReference(node uint64, successors []uint64) (offset uint64, blocks, copied []uint64, chainDepth uint64) {
	bestCost := estimateDirectCost(e.cfg.Codes, node, e.cfg.WindowSize, successors)
	var bestOffset uint64
	var bestBlocks, bestCopied []uint64
	var bestChainDepth uint64

	maxOffset := e.cfg.WindowSize
	if node < maxOffset {
		maxOffset = node
	}
	for off := uint64(1); off <= maxOffset; off++ {
		slot := int((node - off) % uint64(len(e.depth)))
		d := e.depth[slot]
		if d+1 > e.cfg.MaxRefCount {
			continue
		}
		candidate := e.win.At(node - off)
		if candidate == nil {
			continue
		}
		blk, cop := computeBlocks(candidate, successors)
		if len(cop) == 0 {
			continue
		}
		remaining := setDiffSorted(successors, cop)
		cost := estimateReferenceCost(e.cfg.Codes, node, off, e.cfg.WindowSize, blk, remaining, uint64(len(successors)))
		if cost < bestCost {
			bestCost = cost
			bestOffset = off
			bestBlocks = blk
			bestCopied = cop
			bestChainDepth = d + 1
		}
	}
	return bestOffset, bestBlocks, bestCopied, bestChainDepth
}

// computeBlocks marks which elements of candidate also occur in target,
// then run-length-encodes that boolean mask into alternating copy/skip
// block lengths (starting with copy), mirroring decodeBlocks' convention.
func computeBlocks(candidate, target []uint64) (blocks, copied []uint64) {
	mask := make([]bool, len(candidate))
	i, j := 0, 0
	for i < len(candidate) && j < len(target) {
		switch {
		case candidate[i] == target[j]:
			mask[i] = true
			copied = append(copied, candidate[i])
			i++
			j++
		case candidate[i] < target[j]:
			i++
		default:
			j++
		}
	}
	if len(copied) == 0 {
		return nil, nil
	}
	cur := true
	run := uint64(0)
	for _, m := range mask {
		if m == cur {
			run++
			continue
		}
		blocks = append(blocks, run)
		cur = m
		run = 1
	}
	// A trailing skip run is never appended here, so the last explicit
	// block is always a copy block and the block count is odd:
	// decodeBlocks treats everything after the last explicit block of an
	// odd count as skipped, so omitting the run costs nothing and saves a
	// block.
	if cur {
		blocks = append(blocks, run)
	}
	return blocks, copied
}

// setDiffSorted returns a minus b, both assumed sorted ascending with no
// duplicates and b a subset of a.
func setDiffSorted(a, b []uint64) []uint64 {
	if len(b) == 0 {
		return a
	}
	out := make([]uint64, 0, len(a)-len(b))
	j := 0
	for _, v := range a {
		if j < len(b) && b[j] == v {
			j++
			continue
		}
		out = append(out, v)
	}
	return out
}

// decomposeIntervals greedily extracts maximal runs of minLen or more
// consecutive integers from sorted as interval runs, returning the
// remainder (still sorted) as residuals.
func decomposeIntervals(sorted []uint64, minLen uint64) (starts, lens, residual []uint64) {
	if minLen == 0 {
		minLen = 1
	}
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[j-1]+1 {
			j++
		}
		runLen := uint64(j - i)
		if runLen >= minLen {
			starts = append(starts, sorted[i])
			lens = append(lens, runLen)
		} else {
			residual = append(residual, sorted[i:j]...)
		}
		i = j
	}
	return starts, lens, residual
}

// estimateDirectCost and estimateReferenceCost measure the bit cost of a
// candidate encoding by actually running it through the real encoder
// machinery against a discarding bit writer, so the cost estimate can
// never drift out of sync with what EncodeNode actually writes.
func estimateDirectCost(cs CodeSet, node uint64, windowSize uint64, successors []uint64) uint64 {
	w := newCountingWriter(cs)
	_ = encodeNode(w.enc, node, uint64(len(successors)), windowSize, nodePlan{
		residuals: successors,
	})
	return w.bits()
}

func estimateReferenceCost(cs CodeSet, node, offset uint64, windowSize uint64, blocks, remaining []uint64, outdegree uint64) uint64 {
	w := newCountingWriter(cs)
	plan := nodePlan{refOffset: offset, blocks: blocks, residuals: remaining}
	_ = encodeNode(w.enc, node, outdegree, windowSize, plan)
	return w.bits()
}

type countingWriter struct {
	enc Encoder
}

func newCountingWriter(cs CodeSet) *countingWriter {
	bw := bitio.NewWriter(io.Discard, bitio.BigEndian)
	var enc Encoder
	if cs.IsDefault() {
		enc = NewDefaultEncoder(bw)
	} else {
		enc = NewDynEncoder(bw, cs)
	}
	return &countingWriter{enc: enc}
}

func (c *countingWriter) bits() uint64 {
	n, _ := c.enc.Flush()
	return n
}

// EstimateCost reports, for each CodeSet in candidates, the total number
// of bits a GraphEncoder configured with that CodeSet and the given
// window/interval parameters would spend encoding graph (a full node-index
// adjacency list, not just one node). It exists so a caller can pick the
// cheapest CodeSet for a given graph without encoding it once per
// candidate by hand.
func EstimateCost(graph [][]uint64, cfg EncoderConfig, candidates []CodeSet) map[CodeSet]uint64 {
	results := make(map[CodeSet]uint64, len(candidates))
	for _, cs := range candidates {
		trialCfg := cfg
		trialCfg.Codes = cs
		bw := bitio.NewWriter(io.Discard, bitio.BigEndian)
		var enc Encoder
		if cs.IsDefault() {
			enc = NewDefaultEncoder(bw)
		} else {
			enc = NewDynEncoder(bw, cs)
		}
		discardOffsets := NewOffsetsWriter(bitio.NewWriter(io.Discard, bitio.BigEndian))
		ge := NewGraphEncoder(enc, discardOffsets, trialCfg)
		for _, succ := range graph {
			_ = ge.EncodeNode(succ)
		}
		n, _ := enc.Flush()
		results[cs] = n
	}
	return results
}
