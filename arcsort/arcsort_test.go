package arcsort

import (
	"sort"
	"testing"

	"github.com/vigna/bvgraph/internal/testutil"
)

func toArcs(in []testutil.Arc) []Arc {
	out := make([]Arc, len(in))
	for i, a := range in {
		out[i] = Arc{Src: a.Src, Dst: a.Dst}
	}
	return out
}

func drain(t *testing.T, it *MergeIterator) []Arc {
	t.Helper()
	var out []Arc
	for {
		a, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		out = append(out, a)
	}
	return out
}

func TestSorterProducesAscendingOrder(t *testing.T) {
	arcs := toArcs(testutil.RandomArcs(1, 300, 4))

	s := NewSorter(Config{BufferArcs: 64})
	for _, a := range arcs {
		if err := s.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	it, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	defer it.Close()

	got := drain(t, it)
	if len(got) != len(arcs) {
		t.Fatalf("got %d arcs, want %d", len(got), len(arcs))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return Less(got[i], got[j]) }) {
		t.Fatal("output is not sorted")
	}

	want := append([]Arc(nil), arcs...)
	sort.Slice(want, func(i, j int) bool { return Less(want[i], want[j]) })
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arc %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSorterSingleBatch(t *testing.T) {
	arcs := toArcs(testutil.RandomArcs(2, 50, 3))
	s := NewSorter(Config{BufferArcs: 1 << 20})
	for _, a := range arcs {
		if err := s.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	it, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	defer it.Close()
	got := drain(t, it)
	if len(got) != len(arcs) {
		t.Fatalf("got %d arcs, want %d", len(got), len(arcs))
	}
}

func TestSorterEmpty(t *testing.T) {
	s := NewSorter(Config{})
	it, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	defer it.Close()
	if _, ok, err := it.Next(); ok || err != nil {
		t.Fatalf("expected empty result, got ok=%v err=%v", ok, err)
	}
}

func TestMergeIteratorDedupesAdjacentDuplicates(t *testing.T) {
	s := NewSorter(Config{BufferArcs: 2})
	dup := []Arc{{Src: 0, Dst: 1}, {Src: 0, Dst: 1}, {Src: 0, Dst: 2}, {Src: 1, Dst: 0}, {Src: 1, Dst: 0}}
	for _, a := range dup {
		if err := s.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	it, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	defer it.Close()

	got := drain(t, it)
	want := []Arc{{Src: 0, Dst: 1}, {Src: 0, Dst: 2}, {Src: 1, Dst: 0}}
	if len(got) != len(want) {
		t.Fatalf("got %d arcs %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Src != want[i].Src || got[i].Dst != want[i].Dst {
			t.Fatalf("arc %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestZstdCodecRoundTrip(t *testing.T) {
	arcs := toArcs(testutil.RandomArcs(3, 200, 5))
	s := NewSorter(Config{BufferArcs: 32, Codec: NewZstdCodec(3)})
	for _, a := range arcs {
		if err := s.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	it, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	defer it.Close()
	got := drain(t, it)
	if len(got) != len(arcs) {
		t.Fatalf("got %d arcs, want %d", len(got), len(arcs))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return Less(got[i], got[j]) }) {
		t.Fatal("output is not sorted")
	}
}
