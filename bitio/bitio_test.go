package bitio

import (
	"bytes"
	"testing"

	"github.com/vigna/bvgraph/internal/testutil"
)

func TestOrderRoundTrip(t *testing.T) {
	var vectors = []struct {
		order Order
		n     uint
		value uint64
	}{
		{BigEndian, 1, 1},
		{BigEndian, 3, 5},
		{BigEndian, 8, 0xab},
		{BigEndian, 13, 4097},
		{BigEndian, 64, 0xdeadbeefcafef00d},
		{LittleEndian, 1, 0},
		{LittleEndian, 3, 6},
		{LittleEndian, 8, 0xcd},
		{LittleEndian, 17, 90001},
		{LittleEndian, 64, 0x0123456789abcdef},
	}

	for i, v := range vectors {
		var buf bytes.Buffer
		w := NewWriter(&buf, v.order)
		if _, err := w.WriteBits(v.value, v.n); err != nil {
			t.Fatalf("test %d, write error: %v", i, err)
		}
		if _, err := w.Flush(); err != nil {
			t.Fatalf("test %d, flush error: %v", i, err)
		}

		r := NewReader(bytes.NewReader(buf.Bytes()), v.order)
		got, err := r.ReadBits(v.n)
		if err != nil {
			t.Fatalf("test %d, read error: %v", i, err)
		}
		mask := uint64(1)<<v.n - 1
		if v.n == 64 {
			mask = ^uint64(0)
		}
		if got != v.value&mask {
			t.Errorf("test %d, ReadBits(%d): got %#x, want %#x", i, v.n, got, v.value&mask)
		}
	}
}

func TestUnaryRoundTrip(t *testing.T) {
	for _, order := range []Order{BigEndian, LittleEndian} {
		var buf bytes.Buffer
		w := NewWriter(&buf, order)
		values := []uint64{0, 1, 2, 7, 31, 255}
		for _, v := range values {
			if _, err := w.WriteUnary(v); err != nil {
				t.Fatalf("order %v: write error: %v", order, err)
			}
		}
		if _, err := w.Flush(); err != nil {
			t.Fatalf("order %v: flush error: %v", order, err)
		}

		r := NewReader(bytes.NewReader(buf.Bytes()), order)
		for i, want := range values {
			got, err := r.ReadUnary()
			if err != nil {
				t.Fatalf("order %v, value %d: read error: %v", order, i, err)
			}
			if got != want {
				t.Errorf("order %v, value %d: got %d, want %d", order, i, got, want)
			}
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, BigEndian)
	w.WriteBits(0x3, 2)
	w.WriteBits(0x15, 5)
	w.Flush()

	r := NewReader(bytes.NewReader(buf.Bytes()), BigEndian)
	peeked, err := r.PeekBits(2)
	if err != nil {
		t.Fatalf("peek error: %v", err)
	}
	if peeked != 0x3 {
		t.Errorf("PeekBits: got %#x, want %#x", peeked, 0x3)
	}
	got, err := r.ReadBits(2)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if got != 0x3 {
		t.Errorf("ReadBits after peek: got %#x, want %#x", got, 0x3)
	}
}

func TestSeekBit(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, LittleEndian)
	for i := uint64(0); i < 20; i++ {
		w.WriteBits(i%2, 1)
	}
	w.Flush()

	r := NewReader(bytes.NewReader(buf.Bytes()), LittleEndian)
	r.SeekBit(10)
	got, err := r.ReadBits(1)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if want := uint64(10 % 2); got != want {
		t.Errorf("after SeekBit(10): got %d, want %d", got, want)
	}
	if r.BitPos() != 11 {
		t.Errorf("BitPos after read: got %d, want 11", r.BitPos())
	}
}

func TestBitGenFixtures(t *testing.T) {
	// BigEndian 0b101 then 0b11001 packed MSB-first, per package testutil's
	// BitGen DSL (the same DSL dsnet-compress used for flate/bzip2 fixtures).
	want := testutil.MustDecodeBitGen(">>> > 101 11001")
	var buf bytes.Buffer
	w := NewWriter(&buf, BigEndian)
	w.WriteBits(0x5, 3)
	w.WriteBits(0x19, 5)
	w.Flush()
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("BitGen mismatch: got %x, want %x", buf.Bytes(), want)
	}
}

func TestSkipBits(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, BigEndian)
	w.WriteBits(0xAA, 8)
	w.WriteBits(0x7, 3)
	w.Flush()

	r := NewReader(bytes.NewReader(buf.Bytes()), BigEndian)
	r.SkipBits(8)
	got, err := r.ReadBits(3)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if got != 0x7 {
		t.Errorf("got %#x, want %#x", got, 0x7)
	}
}
