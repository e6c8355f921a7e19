package arcsort

import (
	"container/heap"
	"os"
)

// batchIterator streams arcs out of one spilled batch file on demand,
// decoding lazily so a k-way merge never materializes a whole batch in
// memory at once.
type batchIterator struct {
	f    *os.File
	dec  BatchDecoder
	next Arc
	ok   bool
	err  error
}

func newBatchIterator(f *os.File, codec BatchCodec) *batchIterator {
	it := &batchIterator{f: f, dec: codec.NewDecoder(f)}
	it.advance()
	return it
}

func (it *batchIterator) advance() {
	it.next, it.ok, it.err = it.dec.Next()
}

func (it *batchIterator) close() error { return it.f.Close() }

// heapItem is one live batchIterator slotted into the merge heap.
type heapItem struct {
	it    *batchIterator
	index int
}

type mergeHeap []*heapItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	return Less(h[i].it.next, h[j].it.next)
}
func (h mergeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *mergeHeap) Push(x interface{}) {
	item := x.(*heapItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// MergeIterator produces the fully merged, ascending, (Src,Dst)-deduplicated
// stream over every batch a Sorter spilled, via a container/heap k-way
// merge (spec.md §4.8: "after sorting, adjacent duplicates are
// deduplicated by the merger"). Len reports the remaining count without
// decoding: it counts arcs before deduplication, so it is exact only when
// no (Src, Dst) pair repeats, and an upper bound on what Next still
// returns otherwise.
type MergeIterator struct {
	h       mergeHeap
	iters   []*batchIterator
	err     error
	hasLast bool
	lastSrc uint64
	lastDst uint64
}

func newMergeIterator(iters []*batchIterator) *MergeIterator {
	m := &MergeIterator{iters: iters}
	h := make(mergeHeap, 0, len(iters))
	for _, it := range iters {
		if it.err != nil {
			m.err = it.err
			continue
		}
		if it.ok {
			h = append(h, &heapItem{it: it})
		}
	}
	heap.Init(&h)
	m.h = h
	return m
}

// Next returns the next arc in ascending order, skipping any arc whose
// (Src, Dst) equals the previously returned arc's, or ok=false once every
// batch is exhausted.
func (m *MergeIterator) Next() (arc Arc, ok bool, err error) {
	for {
		arc, ok, err = m.next()
		if !ok || err != nil {
			return arc, ok, err
		}
		if m.hasLast && arc.Src == m.lastSrc && arc.Dst == m.lastDst {
			continue
		}
		m.hasLast = true
		m.lastSrc, m.lastDst = arc.Src, arc.Dst
		return arc, true, nil
	}
}

// next pops and returns the single smallest arc across all live batches,
// with no deduplication; Next layers dedup on top of this.
func (m *MergeIterator) next() (arc Arc, ok bool, err error) {
	if m.err != nil {
		return Arc{}, false, m.err
	}
	if m.h.Len() == 0 {
		return Arc{}, false, nil
	}
	top := m.h[0]
	arc = top.it.next
	top.it.advance()
	if top.it.err != nil {
		m.err = top.it.err
		return Arc{}, false, m.err
	}
	if top.it.ok {
		heap.Fix(&m.h, 0)
	} else {
		heap.Pop(&m.h)
	}
	return arc, true, nil
}

// Len reports how many arcs are left to decode from the underlying
// batches, without decoding them: the sum of each live batch iterator's
// undecoded count (see gapDecoder.count) plus the one arc it holds read
// ahead. This is the count before
// dedup, so it's exact for arc streams with no duplicate (Src, Dst) pairs
// and an upper bound otherwise (e.g. Simplify's symmetrized output, before
// Next has had a chance to drop any duplicates).
func (m *MergeIterator) Len() int {
	n := 0
	for _, item := range m.h {
		if d, ok := item.it.dec.(*gapDecoder); ok {
			n += int(d.count-d.read) + 1
		}
	}
	return n
}

// Close closes every underlying batch file and removes it from disk.
func (m *MergeIterator) Close() error {
	var firstErr error
	for _, it := range m.iters {
		name := it.f.Name()
		if err := it.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := os.Remove(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
