package bvgraph

import (
	"bytes"
	"testing"

	"github.com/vigna/bvgraph/bitio"
	"github.com/vigna/bvgraph/internal/testutil"
)

func TestChecksumMatchesEncoderAndDecoder(t *testing.T) {
	cfg := defaultTestConfig()
	graph := testutil.RandomGraph(7, 90, 4)

	var graphBuf, offBuf bytes.Buffer
	bw := bitio.NewWriter(&graphBuf, bitio.BigEndian)
	enc := NewDefaultEncoder(bw)
	off := NewOffsetsWriter(bitio.NewWriter(&offBuf, bitio.BigEndian))
	ge := NewGraphEncoder(enc, off, cfg)
	ge.EnableChecksum()

	for _, succ := range graph {
		if err := ge.EncodeNode(succ); err != nil {
			t.Fatalf("EncodeNode: %v", err)
		}
	}
	if _, err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	encSum, ok := ge.Sum32()
	if !ok {
		t.Fatal("Sum32 reported no checksum enabled")
	}

	props := Properties{
		Nodes:             uint64(len(graph)),
		WindowSize:        cfg.WindowSize,
		MaxRefCount:       cfg.MaxRefCount,
		MinIntervalLength: cfg.MinIntervalLength,
		Codes:             cfg.Codes,
		GraphChecksum:     encSum,
		HasGraphChecksum:  true,
	}

	ok2, sum, err := VerifyChecksum(bytes.NewReader(graphBuf.Bytes()), props)
	if err != nil {
		t.Fatalf("VerifyChecksum: %v", err)
	}
	if !ok2 {
		t.Fatalf("VerifyChecksum reported mismatch: got %d, want %d", sum, encSum)
	}
	if sum != encSum {
		t.Fatalf("sum mismatch: got %d, want %d", sum, encSum)
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	cfg := defaultTestConfig()
	graph, graphBytes, _, _ := buildTestGraph(t, 60, 4, cfg)

	props := Properties{
		Nodes:             uint64(len(graph)),
		WindowSize:        cfg.WindowSize,
		MaxRefCount:       cfg.MaxRefCount,
		MinIntervalLength: cfg.MinIntervalLength,
		Codes:             cfg.Codes,
		GraphChecksum:     0xdeadbeef,
		HasGraphChecksum:  true,
	}

	ok, _, err := VerifyChecksum(bytes.NewReader(graphBytes), props)
	if err != nil {
		t.Fatalf("VerifyChecksum: %v", err)
	}
	if ok {
		t.Fatal("expected checksum mismatch against a deliberately wrong stored value")
	}
}

func TestVerifyChecksumRequiresPropertyPresent(t *testing.T) {
	_, _, err := VerifyChecksum(bytes.NewReader(nil), Properties{})
	if err == nil {
		t.Fatal("expected error when properties carries no graphchecksum key")
	}
}
