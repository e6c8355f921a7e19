// Package codes implements the universal integer codes used by the BV
// graph format: unary, gamma, delta, zeta_k, pi_k, and truncated binary,
// plus the int2nat/nat2int signed-to-natural bijection. Every code is a
// pure function of a bitio.Reader or bitio.Writer, mirroring the way
// package prefix in the teacher library keeps its canonical-code math free
// of reader/writer state (prefix.GenerateLengths and friends operate on
// plain slices, not methods with hidden state).
package codes

import (
	"math/bits"

	"github.com/vigna/bvgraph/bitio"
)

// Error is returned for malformed code parameters or corrupt bit patterns
// (e.g. a truncated-binary upper bound of zero).
type Error string

func (e Error) Error() string { return "codes: " + string(e) }

// Int2Nat maps a signed integer to a natural number via the standard
// zig-zag bijection: 0↦0, −1↦1, 1↦2, −2↦3, 2↦4, …
func Int2Nat(x int64) uint64 {
	return uint64((x << 1) ^ (x >> 63))
}

// Nat2Int is the inverse of Int2Nat.
func Nat2Int(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// floorLog2 returns floor(log2(v)) for v >= 1.
func floorLog2(v uint64) uint {
	return uint(bits.Len64(v) - 1)
}

// WriteTruncatedBinary writes v in [0, m) using the minimal number of bits:
// let ell = floor(log2(m)); if v < 2^(ell+1)-m, write v in ell bits, else
// write v + (2^(ell+1)-m) in ell+1 bits, as its top ell bits followed by
// its lowest bit (the order ReadTruncatedBinary reads them back in).
func WriteTruncatedBinary(w *bitio.Writer, v, m uint64) (uint, error) {
	if m == 0 {
		return 0, Error("WriteTruncatedBinary: m must be >= 1")
	}
	ell := floorLog2(m)
	thresh := (uint64(1) << (ell + 1)) - m
	if v < thresh {
		return w.WriteBits(v, ell)
	}
	u := v + thresh
	n1, err := w.WriteBits(u>>1, ell)
	if err != nil {
		return n1, err
	}
	n2, err := w.WriteBits(u&1, 1)
	return n1 + n2, err
}

// ReadTruncatedBinary reads a value written by WriteTruncatedBinary with
// the same upper bound m.
func ReadTruncatedBinary(r *bitio.Reader, m uint64) (uint64, error) {
	if m == 0 {
		return 0, Error("ReadTruncatedBinary: m must be >= 1")
	}
	ell := floorLog2(m)
	thresh := (uint64(1) << (ell + 1)) - m
	prefix, err := r.ReadBits(ell)
	if err != nil {
		return 0, err
	}
	if prefix < thresh {
		return prefix, nil
	}
	extra, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	return (prefix<<1 | extra) - thresh, nil
}

// WriteUnary writes v as v zero bits followed by a one bit.
func WriteUnary(w *bitio.Writer, v uint64) (uint64, error) { return w.WriteUnary(v) }

// ReadUnary reads a unary-coded value.
func ReadUnary(r *bitio.Reader) (uint64, error) { return r.ReadUnary() }

// WriteGamma writes v using Elias gamma coding: let ell =
// floor(log2(v+1)); write ell in unary, then the low ell bits of v+1.
func WriteGamma(w *bitio.Writer, v uint64) (uint, error) {
	v1 := v + 1
	ell := floorLog2(v1)
	n1, err := w.WriteUnary(uint64(ell))
	if err != nil {
		return uint(n1), err
	}
	if ell == 0 {
		return uint(n1), nil
	}
	n2, err := w.WriteBits(v1, ell)
	return uint(n1) + n2, err
}

// ReadGamma reads a value written by WriteGamma.
func ReadGamma(r *bitio.Reader) (uint64, error) {
	ell, err := r.ReadUnary()
	if err != nil {
		return 0, err
	}
	low, err := r.ReadBits(uint(ell))
	if err != nil {
		return 0, err
	}
	v1 := uint64(1)<<ell | low
	return v1 - 1, nil
}

// WriteDelta writes v using Elias delta coding: write ell =
// floor(log2(v+1)) in gamma, then the low ell bits of v+1.
func WriteDelta(w *bitio.Writer, v uint64) (uint, error) {
	v1 := v + 1
	ell := floorLog2(v1)
	n1, err := WriteGamma(w, uint64(ell))
	if err != nil {
		return n1, err
	}
	if ell == 0 {
		return n1, nil
	}
	n2, err := w.WriteBits(v1, ell)
	return n1 + n2, err
}

// ReadDelta reads a value written by WriteDelta.
func ReadDelta(r *bitio.Reader) (uint64, error) {
	ellU, err := ReadGamma(r)
	if err != nil {
		return 0, err
	}
	ell := uint(ellU)
	low, err := r.ReadBits(ell)
	if err != nil {
		return 0, err
	}
	v1 := uint64(1)<<ell | low
	return v1 - 1, nil
}

// zetaRange returns the [lo, hi) range of v+1 values reachable with block
// index h at parameter k, i.e. lo = 2^(h*k), hi = 2^((h+1)*k).
func zetaRange(h uint64, k uint) (lo, hi uint64) {
	lo = uint64(1) << (h * uint64(k))
	hi = uint64(1) << ((h + 1) * uint64(k))
	return
}

// WriteZeta writes v using the zeta_k code: h = floor(log2(v+1))/k is
// written in unary, then v+1-2^(hk) is written as truncated binary with
// upper bound 2^((h+1)k)-2^(hk).
func WriteZeta(w *bitio.Writer, v uint64, k uint) (uint, error) {
	if k == 0 {
		return 0, Error("WriteZeta: k must be >= 1")
	}
	return writeZetaGeneric(w, v, k)
}

func writeZetaGeneric(w *bitio.Writer, v uint64, k uint) (uint, error) {
	v1 := v + 1
	h := uint64(floorLog2(v1)) / uint64(k)
	n1, err := w.WriteUnary(h)
	if err != nil {
		return uint(n1), err
	}
	lo, hi := zetaRange(h, k)
	n2, err := WriteTruncatedBinary(w, v1-lo, hi-lo)
	return uint(n1) + n2, err
}

// ReadZeta reads a value written by WriteZeta with the same k.
func ReadZeta(r *bitio.Reader, k uint) (uint64, error) {
	if k == 0 {
		return 0, Error("ReadZeta: k must be >= 1")
	}
	if UseTable && k == 3 && r.Order() == bitio.BigEndian {
		if peek, err := r.PeekBits(zeta3TableBits); err == nil {
			if e := zeta3Table[peek]; e.valid {
				r.SkipBits(uint(e.length))
				return e.value, nil
			}
		}
	}
	return readZetaGeneric(r, k)
}

func readZetaGeneric(r *bitio.Reader, k uint) (uint64, error) {
	h, err := r.ReadUnary()
	if err != nil {
		return 0, err
	}
	lo, hi := zetaRange(h, uint(k))
	rem, err := ReadTruncatedBinary(r, hi-lo)
	if err != nil {
		return 0, err
	}
	return lo + rem - 1, nil
}

// WritePi writes v using the pi_k code: like zeta_k, but the block index h
// is itself gamma-coded instead of unary-coded, trading a longer header for
// shorter encodings of large values.
func WritePi(w *bitio.Writer, v uint64, k uint) (uint, error) {
	if k == 0 {
		return 0, Error("WritePi: k must be >= 1")
	}
	v1 := v + 1
	h := uint64(floorLog2(v1)) / uint64(k)
	n1, err := WriteGamma(w, h)
	if err != nil {
		return n1, err
	}
	lo, hi := zetaRange(h, k)
	n2, err := WriteTruncatedBinary(w, v1-lo, hi-lo)
	return n1 + n2, err
}

// ReadPi reads a value written by WritePi with the same k.
func ReadPi(r *bitio.Reader, k uint) (uint64, error) {
	if k == 0 {
		return 0, Error("ReadPi: k must be >= 1")
	}
	h, err := ReadGamma(r)
	if err != nil {
		return 0, err
	}
	lo, hi := zetaRange(h, uint(k))
	rem, err := ReadTruncatedBinary(r, hi-lo)
	if err != nil {
		return 0, err
	}
	return lo + rem - 1, nil
}
