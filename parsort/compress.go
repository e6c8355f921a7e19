package parsort

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vigna/bvgraph/bitio"
	"github.com/vigna/bvgraph/bvgraph"
)

// NodePartition is one contiguous range of nodes to compress
// independently. Successors must already be sorted and must not reference
// any node outside [Lo, Hi) as a copy source — each partition starts its
// GraphEncoder with an empty window, so it can only see its own nodes.
type NodePartition struct {
	Lo, Hi     uint64
	Successors func(node uint64) []uint64
}

// CompressedPartition is one partition's independently encoded byte
// range. Its GraphEncoder numbers the partition's first node 0, so node
// indices in its records and OffBytes' positions are relative to the
// partition, and both streams are padded to a byte boundary;
// concatenating partitions does not by itself yield a whole-graph .graph
// and .offsets file.
type CompressedPartition struct {
	Partition  NodePartition
	GraphBytes []byte
	GraphBits  uint64
	OffBytes   []byte
}

// CompressPartitions encodes every partition concurrently, each with its
// own GraphEncoder and empty window (spec.md's parallel-construction
// mode: windows never cross a partition boundary, trading a little
// compression at partition edges for embarrassingly parallel encoding).
// Results are returned in the same order as partitions.
func CompressPartitions(ctx context.Context, order bitio.Order, cfg bvgraph.EncoderConfig, partitions []NodePartition) ([]CompressedPartition, error) {
	results := make([]CompressedPartition, len(partitions))
	g, _ := errgroup.WithContext(ctx)
	for i, part := range partitions {
		i, part := i, part
		g.Go(func() error {
			var graphBuf, offBuf bytes.Buffer
			bw := bitio.NewWriter(&graphBuf, order)
			var enc bvgraph.Encoder
			if cfg.Codes.IsDefault() {
				enc = bvgraph.NewDefaultEncoder(bw)
			} else {
				enc = bvgraph.NewDynEncoder(bw, cfg.Codes)
			}
			off := bvgraph.NewOffsetsWriter(bitio.NewWriter(&offBuf, order))
			ge := bvgraph.NewGraphEncoder(enc, off, cfg)

			for n := part.Lo; n < part.Hi; n++ {
				if err := ge.EncodeNode(part.Successors(n)); err != nil {
					return err
				}
			}
			bits, err := enc.Flush()
			if err != nil {
				return err
			}
			if err := off.Flush(); err != nil {
				return err
			}
			results[i] = CompressedPartition{
				Partition:  part,
				GraphBytes: graphBuf.Bytes(),
				GraphBits:  bits,
				OffBytes:   offBuf.Bytes(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
