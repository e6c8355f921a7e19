package graphio

import (
	"bytes"
	"testing"

	"github.com/vigna/bvgraph/bitio"
	"github.com/vigna/bvgraph/bvgraph"
)

func TestArrayOffsetsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf, bitio.BigEndian)
	off := bvgraph.NewOffsetsWriter(w)

	lens := []uint64{10, 0, 37, 4, 128}
	var cum uint64
	for _, l := range lens {
		cum += l
		if err := off.Put(cum); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := off.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ao, err := NewArrayOffsets(buf.Bytes(), bitio.BigEndian, uint64(len(lens)))
	if err != nil {
		t.Fatalf("NewArrayOffsets: %v", err)
	}

	want := uint64(0)
	for i, l := range lens {
		got, err := ao.Get(uint64(i))
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
		want += l
	}

	if _, err := ao.Get(uint64(len(lens) + 1)); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
