package bvgraph

import "github.com/vigna/bvgraph/codes"

// gammaRead/gammaWrite/zetaRead/zetaWrite are thin, hardcoded-parameter
// wrappers around package codes, used only by defaultDecoder/
// defaultEncoder so the static-dispatch path never goes through a CodeSet
// switch at all.
func gammaRead(r reader) (uint64, error)         { return codes.ReadGamma(r) }
func gammaWrite(w writer, v uint64) error        { _, err := codes.WriteGamma(w, v); return err }
func zetaRead(r reader) (uint64, error)          { return codes.ReadZeta(r, 3) }
func zetaWrite(w writer, v uint64) error         { _, err := codes.WriteZeta(w, v, 3); return err }

// gapToNat/natToGap convert a signed gap (relative to a running cursor)
// to/from the natural number codes.Int2Nat/Nat2Int encode on the wire.
func gapToNat(v int64) uint64   { return codes.Int2Nat(v) }
func natToGap(u uint64) int64   { return codes.Nat2Int(u) }
