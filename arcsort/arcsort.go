// Package arcsort external-sorts arc pairs (src, dst) that don't fit in
// memory: buffer a batch, spill it to a temp file once full, and merge all
// spilled batches back into one ascending stream with a k-way heap merge.
// It follows package bzip2's "accumulate into a fixed buffer, flush when
// full" shape, generalized from one compressed block to many sorted
// temp-file batches.
package arcsort

import (
	"bufio"
	"io"
	"log"
	"os"
	"sort"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "arcsort: " + string(e) }

// Arc is one (Src, Dst[, Label]) triple in the arc-pair stream the sorter
// consumes and produces (spec.md §1/§9's CORE data model). Label is unit
// (always 0, never serialized) unless a caller supplies a non-default
// LabelCodec to a BatchCodec; labeled-graph variants beyond this
// unit-label case are this module's Non-goal.
type Arc struct {
	Src, Dst uint64
	Label    uint64
}

// Less orders arcs lexicographically by (Src, Dst) only, the order every
// package in this module expects arc streams to be in. Label never
// participates in ordering or tie-breaking (DESIGN.md's Open Question
// decision on tie-breaking): two arcs with equal (Src, Dst) and different
// Label are still adjacent duplicates as far as sorting is concerned.
func Less(a, b Arc) bool {
	if a.Src != b.Src {
		return a.Src < b.Src
	}
	return a.Dst < b.Dst
}

// Config controls a Sorter's memory/spill behavior. The blank field
// reserves room for future options without breaking existing struct
// literals, mirroring package bzip2's ReaderConfig/WriterConfig.
type Config struct {
	// BufferArcs caps how many arcs are buffered in memory before a batch
	// is spilled to a temp file. Zero selects a sensible default.
	BufferArcs int
	// TempDir is passed to os.CreateTemp for spilled batches; "" selects
	// the OS default.
	TempDir string
	// Codec controls how spilled batches are serialized. nil selects
	// DefaultCodec.
	Codec BatchCodec
	// Logger, if non-nil, receives one line per spilled batch. Safe to
	// leave nil.
	Logger *log.Logger

	_ struct{}
}

const defaultBufferArcs = 1 << 20

// Sorter accumulates arcs, spilling sorted batches to temp files, and
// produces the fully merged ascending stream via Result.
type Sorter struct {
	cfg     Config
	buf     []Arc
	batches []*os.File
}

// NewSorter returns a Sorter ready to accept arcs via Add.
func NewSorter(cfg Config) *Sorter {
	if cfg.BufferArcs <= 0 {
		cfg.BufferArcs = defaultBufferArcs
	}
	if cfg.Codec == nil {
		cfg.Codec = DefaultCodec
	}
	return &Sorter{cfg: cfg, buf: make([]Arc, 0, cfg.BufferArcs)}
}

// Add appends one arc, spilling the current buffer to a temp file if it's
// full.
func (s *Sorter) Add(a Arc) error {
	s.buf = append(s.buf, a)
	if len(s.buf) >= s.cfg.BufferArcs {
		return s.spill()
	}
	return nil
}

func (s *Sorter) spill() error {
	if len(s.buf) == 0 {
		return nil
	}
	sort.Slice(s.buf, func(i, j int) bool { return Less(s.buf[i], s.buf[j]) })

	f, err := os.CreateTemp(s.cfg.TempDir, "arcsort-batch-*")
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := s.cfg.Codec.Encode(bw, s.buf); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf("arcsort: spilled batch of %d arcs to %s", len(s.buf), f.Name())
	}
	s.batches = append(s.batches, f)
	s.buf = s.buf[:0]
	return nil
}

// Result flushes any buffered arcs and returns a MergeIterator over the
// fully merged, ascending arc stream. The returned iterator owns the
// Sorter's temp files and must be closed (via its Close method) to remove
// them.
func (s *Sorter) Result() (*MergeIterator, error) {
	if err := s.spill(); err != nil {
		return nil, err
	}
	iters := make([]*batchIterator, len(s.batches))
	for i, f := range s.batches {
		iters[i] = newBatchIterator(f, s.cfg.Codec)
	}
	return newMergeIterator(iters), nil
}
