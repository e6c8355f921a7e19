package bvgraph

import (
	"bytes"
	"testing"
)

func TestPropertiesRoundTrip(t *testing.T) {
	p := Properties{
		Nodes:             1000,
		Arcs:              5000,
		Version:           0,
		WindowSize:        7,
		MaxRefCount:       3,
		MinIntervalLength: 4,
		ZetaK:             3,
		Codes:             DefaultCodeSet,
	}
	var buf bytes.Buffer
	if err := WriteProperties(&buf, p); err != nil {
		t.Fatalf("WriteProperties: %v", err)
	}
	got, err := ReadProperties(&buf)
	if err != nil {
		t.Fatalf("ReadProperties: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestPropertiesDefaults(t *testing.T) {
	r := bytes.NewBufferString("nodes=10\narcs=20\n")
	p, err := ReadProperties(r)
	if err != nil {
		t.Fatalf("ReadProperties: %v", err)
	}
	if p.WindowSize != 7 || p.MinIntervalLength != 4 || p.ZetaK != 3 {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if !p.Codes.IsDefault() {
		t.Errorf("expected default CodeSet, got %v", p.Codes)
	}
}

func TestPropertiesMissingRequired(t *testing.T) {
	r := bytes.NewBufferString("arcs=20\n")
	if _, err := ReadProperties(r); err == nil {
		t.Fatal("expected error for missing nodes key")
	}
}

func TestCompressionFlagsRoundTrip(t *testing.T) {
	cs := CodeSet{
		Outdegrees: Code{Kind: KindDelta},
		References: Code{Kind: KindGamma},
		Blocks:     Code{Kind: KindUnary},
		Intervals:  Code{Kind: KindGamma},
		Residuals:  Code{Kind: KindPi, K: 2},
		ZetaK:      3,
	}
	s := cs.String()
	got, err := ParseCompressionFlags(s, 3)
	if err != nil {
		t.Fatalf("ParseCompressionFlags(%q): %v", s, err)
	}
	if got != cs {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cs)
	}
}
