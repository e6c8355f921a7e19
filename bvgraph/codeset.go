package bvgraph

import (
	"strconv"
	"strings"

	"github.com/vigna/bvgraph/codes"
)

// Field names one of the five syntactic elements compressionflags assigns
// a code to (spec.md §6).
type Field uint8

const (
	FieldOutdegrees Field = iota
	FieldReferences
	FieldBlocks
	FieldIntervals
	FieldResiduals
)

func (f Field) String() string {
	switch f {
	case FieldOutdegrees:
		return "OUTDEGREES"
	case FieldReferences:
		return "REFERENCES"
	case FieldBlocks:
		return "BLOCKS"
	case FieldIntervals:
		return "INTERVALS"
	case FieldResiduals:
		return "RESIDUALS"
	default:
		return "UNKNOWN"
	}
}

// CodeKind names which universal code a field uses.
type CodeKind uint8

const (
	KindUnary CodeKind = iota
	KindGamma
	KindDelta
	KindZeta
	KindPi
)

// Code is a single field's code choice. K is only meaningful for
// KindZeta/KindPi, and must equal the CodeSet's ZetaK for every zeta
// occurrence (spec.md §6: "all ζ occurrences in compressionflags must use
// the same k").
type Code struct {
	Kind CodeKind
	K    uint
}

func (c Code) String() string {
	switch c.Kind {
	case KindUnary:
		return "UNARY"
	case KindGamma:
		return "GAMMA"
	case KindDelta:
		return "DELTA"
	case KindZeta:
		if c.K == 0 {
			return "ZETA"
		}
		return "ZETA" + strconv.Itoa(int(c.K))
	case KindPi:
		return "PI" + strconv.Itoa(int(c.K))
	default:
		return "UNKNOWN"
	}
}

func parseCode(tok string, zetaK uint) (Code, error) {
	switch {
	case tok == "UNARY":
		return Code{Kind: KindUnary}, nil
	case tok == "GAMMA":
		return Code{Kind: KindGamma}, nil
	case tok == "DELTA":
		return Code{Kind: KindDelta}, nil
	case tok == "ZETA":
		return Code{Kind: KindZeta, K: zetaK}, nil
	case strings.HasPrefix(tok, "ZETA"):
		k, err := strconv.Atoi(tok[len("ZETA"):])
		if err != nil || k <= 0 {
			return Code{}, Error("invalid zeta code token: " + tok)
		}
		return Code{Kind: KindZeta, K: uint(k)}, nil
	case strings.HasPrefix(tok, "PI"):
		k, err := strconv.Atoi(tok[len("PI"):])
		if err != nil || k < 1 || k > 4 {
			return Code{}, Error("invalid pi code token: " + tok)
		}
		return Code{Kind: KindPi, K: uint(k)}, nil
	default:
		return Code{}, Error("unrecognized code token: " + tok)
	}
}

// CodeSet is the per-field code choice read from (or written to)
// compressionflags, plus the zetak parameter.
type CodeSet struct {
	Outdegrees Code
	References Code
	Blocks     Code
	Intervals  Code
	Residuals  Code
	ZetaK      uint
}

// DefaultCodeSet is spec.md §4.3's "standard defaults": gamma outdegrees,
// unary references, gamma blocks/intervals, zeta_3 residuals. This is the
// only combination the static-dispatch decoder (defaultDecoder/
// defaultEncoder) supports; any other CodeSet must use the dynamic,
// tag-dispatching codec.
var DefaultCodeSet = CodeSet{
	Outdegrees: Code{Kind: KindGamma},
	References: Code{Kind: KindUnary},
	Blocks:     Code{Kind: KindGamma},
	Intervals:  Code{Kind: KindGamma},
	Residuals:  Code{Kind: KindZeta, K: 3},
	ZetaK:      3,
}

// IsDefault reports whether cs is bit-for-bit equivalent to DefaultCodeSet.
func (cs CodeSet) IsDefault() bool { return cs == DefaultCodeSet }

// String renders the pipe-separated compressionflags token list, in the
// FIELD_CODE form spec.md §6 requires, e.g. "OUTDEGREES_GAMMA|...".
func (cs CodeSet) String() string {
	fields := []struct {
		f Field
		c Code
	}{
		{FieldOutdegrees, cs.Outdegrees},
		{FieldReferences, cs.References},
		{FieldBlocks, cs.Blocks},
		{FieldIntervals, cs.Intervals},
		{FieldResiduals, cs.Residuals},
	}
	parts := make([]string, len(fields))
	for i, fc := range fields {
		parts[i] = fc.f.String() + "_" + fc.c.String()
	}
	return strings.Join(parts, "|")
}

// ParseCompressionFlags parses a compressionflags value using zetaK for any
// bare "ZETA" token (version 0 graphs, which never spell out the k).
func ParseCompressionFlags(s string, zetaK uint) (CodeSet, error) {
	cs := DefaultCodeSet
	cs.ZetaK = zetaK
	if s == "" {
		return cs, nil
	}
	for _, tok := range strings.Split(s, "|") {
		i := strings.IndexByte(tok, '_')
		if i < 0 {
			return CodeSet{}, Error("malformed compressionflags token: " + tok)
		}
		fieldName, codeName := tok[:i], tok[i+1:]
		code, err := parseCode(codeName, zetaK)
		if err != nil {
			return CodeSet{}, err
		}
		switch fieldName {
		case "OUTDEGREES":
			cs.Outdegrees = code
		case "REFERENCES":
			cs.References = code
		case "BLOCKS":
			cs.Blocks = code
		case "INTERVALS":
			cs.Intervals = code
		case "RESIDUALS":
			cs.Residuals = code
		default:
			return CodeSet{}, Error("unrecognized compressionflags field: " + fieldName)
		}
	}
	return cs, nil
}

// writeCode/readCode dispatch a single field's code at runtime based on
// its CodeKind — this is the "dynamic" dispatch strategy of spec.md §4.3.
func writeCode(w writer, c Code, v uint64) (uint, error) {
	switch c.Kind {
	case KindUnary:
		n, err := w.WriteUnary(v)
		return uint(n), err
	case KindGamma:
		return codes.WriteGamma(w, v)
	case KindDelta:
		return codes.WriteDelta(w, v)
	case KindZeta:
		return codes.WriteZeta(w, v, c.K)
	case KindPi:
		return codes.WritePi(w, v, c.K)
	default:
		return 0, Error("writeCode: unknown code kind")
	}
}

func readCode(r reader, c Code) (uint64, error) {
	switch c.Kind {
	case KindUnary:
		return r.ReadUnary()
	case KindGamma:
		return codes.ReadGamma(r)
	case KindDelta:
		return codes.ReadDelta(r)
	case KindZeta:
		return codes.ReadZeta(r, c.K)
	case KindPi:
		return codes.ReadPi(r, c.K)
	default:
		return 0, Error("readCode: unknown code kind")
	}
}
