package bvgraph

import (
	"bytes"
	"testing"

	"github.com/vigna/bvgraph/bitio"
	"github.com/vigna/bvgraph/internal/testutil"
)

func buildTestGraph(t *testing.T, n, avgDeg int, cfg EncoderConfig) ([][]uint64, []byte, []byte, uint64) {
	t.Helper()
	graph := testutil.RandomGraph(1, n, avgDeg)

	var graphBuf, offBuf bytes.Buffer
	bw := bitio.NewWriter(&graphBuf, bitio.BigEndian)
	var enc Encoder
	if cfg.Codes.IsDefault() {
		enc = NewDefaultEncoder(bw)
	} else {
		enc = NewDynEncoder(bw, cfg.Codes)
	}
	off := NewOffsetsWriter(bitio.NewWriter(&offBuf, bitio.BigEndian))
	ge := NewGraphEncoder(enc, off, cfg)

	for _, succ := range graph {
		if err := ge.EncodeNode(succ); err != nil {
			t.Fatalf("EncodeNode: %v", err)
		}
	}
	bits, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := off.Flush(); err != nil {
		t.Fatalf("offsets Flush: %v", err)
	}
	return graph, graphBuf.Bytes(), offBuf.Bytes(), bits
}

func defaultTestConfig() EncoderConfig {
	return EncoderConfig{
		WindowSize:        7,
		MaxRefCount:       3,
		MinIntervalLength: 4,
		Codes:             DefaultCodeSet,
	}
}

func TestSequentialRoundTrip(t *testing.T) {
	cfg := defaultTestConfig()
	graph, graphBytes, _, _ := buildTestGraph(t, 200, 5, cfg)

	bw := bitio.NewReader(bytes.NewReader(graphBytes), bitio.BigEndian)
	dec := NewDefaultDecoder(bw)
	sr := NewSequentialReader(dec, uint64(len(graph)), cfg.WindowSize)

	for sr.HasNext() {
		node, succ, err := sr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		want := graph[node]
		if len(want) == 0 {
			want = nil
		}
		if !equalSlices(succ, want) {
			t.Fatalf("node %d: got %v, want %v", node, succ, want)
		}
	}
}

func TestSequentialRoundTripNoWindow(t *testing.T) {
	cfg := EncoderConfig{WindowSize: 0, MaxRefCount: 0, MinIntervalLength: 4, Codes: DefaultCodeSet}
	graph, graphBytes, _, _ := buildTestGraph(t, 80, 5, cfg)

	bw := bitio.NewReader(bytes.NewReader(graphBytes), bitio.BigEndian)
	dec := NewDefaultDecoder(bw)
	sr := NewSequentialReader(dec, uint64(len(graph)), cfg.WindowSize)

	for sr.HasNext() {
		node, succ, err := sr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		want := graph[node]
		if len(want) == 0 {
			want = nil
		}
		if !equalSlices(succ, want) {
			t.Fatalf("node %d: got %v, want %v", node, succ, want)
		}
	}
}

func TestRandomAccessAgreesWithSequential(t *testing.T) {
	cfg := defaultTestConfig()
	graph, graphBytes, offBytes, _ := buildTestGraph(t, 150, 4, cfg)

	offReader := bitio.NewReader(bytes.NewReader(offBytes), bitio.BigEndian)
	offsets, err := ReadOffsets(offReader, uint64(len(graph)))
	if err != nil {
		t.Fatalf("ReadOffsets: %v", err)
	}

	p := Properties{
		Nodes:             uint64(len(graph)),
		WindowSize:        cfg.WindowSize,
		MaxRefCount:       cfg.MaxRefCount,
		MinIntervalLength: cfg.MinIntervalLength,
		Version:           0,
		Codes:             cfg.Codes,
	}
	src := bytes.NewReader(graphBytes)
	rar := NewRandomAccessReader(src, p, arrayOffsets(offsets))

	for node := range graph {
		got, err := rar.Successors(uint64(node))
		if err != nil {
			t.Fatalf("node %d: Successors: %v", node, err)
		}
		want := graph[node]
		if len(want) == 0 {
			want = nil
		}
		if !equalSlices(got, want) {
			t.Fatalf("node %d: got %v, want %v", node, got, want)
		}
	}
}

func TestRandomAccessAgreesWithSequentialNonDefaultCodes(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Codes = CodeSet{
		Outdegrees: Code{Kind: KindGamma},
		References: Code{Kind: KindGamma},
		Blocks:     Code{Kind: KindGamma},
		Intervals:  Code{Kind: KindGamma},
		Residuals:  Code{Kind: KindZeta, K: 2},
		ZetaK:      2,
	}
	graph, graphBytes, offBytes, _ := buildTestGraph(t, 120, 4, cfg)

	offReader := bitio.NewReader(bytes.NewReader(offBytes), bitio.BigEndian)
	offsets, err := ReadOffsets(offReader, uint64(len(graph)))
	if err != nil {
		t.Fatalf("ReadOffsets: %v", err)
	}

	p := Properties{
		Nodes:             uint64(len(graph)),
		WindowSize:        cfg.WindowSize,
		MaxRefCount:       cfg.MaxRefCount,
		MinIntervalLength: cfg.MinIntervalLength,
		Version:           0,
		Codes:             cfg.Codes,
	}
	src := bytes.NewReader(graphBytes)
	rar := NewRandomAccessReader(src, p, arrayOffsets(offsets))

	for node := range graph {
		got, err := rar.Successors(uint64(node))
		if err != nil {
			t.Fatalf("node %d: Successors: %v", node, err)
		}
		want := graph[node]
		if len(want) == 0 {
			want = nil
		}
		if !equalSlices(got, want) {
			t.Fatalf("node %d: got %v, want %v", node, got, want)
		}
	}
}

func TestRandomAccessOutdegree(t *testing.T) {
	cfg := defaultTestConfig()
	graph, graphBytes, offBytes, _ := buildTestGraph(t, 100, 3, cfg)

	offReader := bitio.NewReader(bytes.NewReader(offBytes), bitio.BigEndian)
	offsets, err := ReadOffsets(offReader, uint64(len(graph)))
	if err != nil {
		t.Fatalf("ReadOffsets: %v", err)
	}
	p := Properties{Nodes: uint64(len(graph)), WindowSize: cfg.WindowSize, MaxRefCount: cfg.MaxRefCount, MinIntervalLength: cfg.MinIntervalLength, Codes: cfg.Codes}
	rar := NewRandomAccessReader(bytes.NewReader(graphBytes), p, arrayOffsets(offsets))

	for node := range graph {
		got, err := rar.Outdegree(uint64(node))
		if err != nil {
			t.Fatalf("node %d: Outdegree: %v", node, err)
		}
		if got != uint64(len(graph[node])) {
			t.Errorf("node %d: got outdegree %d, want %d", node, got, len(graph[node]))
		}
	}
}

func TestDynamicMatchesStaticDispatch(t *testing.T) {
	cfg := defaultTestConfig()
	graph, wantBytes, _, _ := buildTestGraph(t, 120, 4, cfg)

	cfg2 := cfg
	cfg2.Codes = DefaultCodeSet // dynamic path, but using the same code choices
	var gotBuf bytes.Buffer
	bw := bitio.NewWriter(&gotBuf, bitio.BigEndian)
	enc := NewDynEncoder(bw, cfg2.Codes)
	var offBuf bytes.Buffer
	off := NewOffsetsWriter(bitio.NewWriter(&offBuf, bitio.BigEndian))
	ge := NewGraphEncoder(enc, off, cfg2)
	for _, succ := range graph {
		if err := ge.EncodeNode(succ); err != nil {
			t.Fatalf("EncodeNode: %v", err)
		}
	}
	if _, err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if !bytes.Equal(wantBytes, gotBuf.Bytes()) {
		t.Fatalf("static and dynamic dispatch produced different byte streams")
	}
}

func equalSlices(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// arrayOffsets is a minimal RandomAccessOffsets over an already-decoded
// slice, used only by this package's own tests (package graphio's
// ArrayOffsets is the public equivalent built from raw .offsets bytes).
type arrayOffsetsSlice []uint64

func arrayOffsets(offsets []uint64) RandomAccessOffsets { return arrayOffsetsSlice(offsets) }

func (a arrayOffsetsSlice) Get(node uint64) (uint64, error) {
	if node >= uint64(len(a)) {
		return 0, Error("node out of range")
	}
	return a[node], nil
}
