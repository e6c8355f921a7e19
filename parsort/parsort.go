// Package parsort partitions a node range into contiguous, disjoint
// chunks and runs an independent arcsort.Sorter per chunk in parallel: a
// global sort is then just the concatenation of each chunk's sorted
// output, since the chunks' key ranges never overlap. It follows package
// bzip2's parallel-block-compression shape (independent per-block
// workers coordinated by an errgroup), generalized from fixed-size byte
// blocks to node-range partitions of an arc stream.
package parsort

import (
	"context"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vigna/bvgraph/arcsort"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "parsort: " + string(e) }

// Config controls partition count and per-partition sort behavior.
type Config struct {
	// Partitions is the number of contiguous node-range partitions to
	// split the node space into. Zero selects runtime.GOMAXPROCS(0).
	Partitions int
	// SortConfig is passed to each partition's arcsort.Sorter verbatim,
	// except TempDir is left as given (callers needing per-partition temp
	// dirs should set it to a shared directory; all partitions write
	// distinctly named temp files regardless).
	SortConfig arcsort.Config
	// Logger, if non-nil, receives one line per partition completed.
	Logger *log.Logger

	_ struct{}
}

// Partition is one contiguous, half-open [Lo, Hi) range of node ids whose
// arcs a single worker sorts independently.
type Partition struct {
	Lo, Hi uint64
}

// SplitNodeRange divides [0, nodes) into at most n contiguous, roughly
// equal partitions by source-node id.
func SplitNodeRange(nodes uint64, n int) []Partition {
	if n <= 0 {
		n = 1
	}
	if uint64(n) > nodes {
		n = int(nodes)
	}
	if n == 0 {
		return nil
	}
	parts := make([]Partition, 0, n)
	base := nodes / uint64(n)
	rem := nodes % uint64(n)
	var lo uint64
	for i := 0; i < n; i++ {
		size := base
		if uint64(i) < rem {
			size++
		}
		parts = append(parts, Partition{Lo: lo, Hi: lo + size})
		lo += size
	}
	return parts
}

// Sort partitions [0, nodes) by source-node id, routes each incoming arc
// (via partitionOf, called once per arc from produce) to the partition
// owning its Src, sorts each partition concurrently, and returns the
// partitions' MergeIterators in ascending partition order — concatenating
// their output in that order yields one globally sorted arc stream,
// because no two partitions' Src ranges overlap (spec.md's parallel-sort
// invariant).
func Sort(ctx context.Context, nodes uint64, cfg Config, produce func(add func(arcsort.Arc) error) error) ([]*arcsort.MergeIterator, error) {
	n := cfg.Partitions
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	parts := SplitNodeRange(nodes, n)
	if len(parts) == 0 {
		return nil, nil
	}
	sorters := make([]*arcsort.Sorter, len(parts))
	for i := range parts {
		sorters[i] = arcsort.NewSorter(cfg.SortConfig)
	}

	partitionOf := func(src uint64) int {
		lo, hi := 0, len(parts)-1
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if parts[mid].Lo <= src {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		return lo
	}

	if err := produce(func(a arcsort.Arc) error {
		return sorters[partitionOf(a.Src)].Add(a)
	}); err != nil {
		return nil, err
	}

	g, _ := errgroup.WithContext(ctx)
	results := make([]*arcsort.MergeIterator, len(parts))
	for i := range parts {
		i := i
		g.Go(func() error {
			it, err := sorters[i].Result()
			if err != nil {
				return err
			}
			results[i] = it
			if cfg.Logger != nil {
				cfg.Logger.Printf("parsort: partition %d (nodes [%d,%d)) sorted", i, parts[i].Lo, parts[i].Hi)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
