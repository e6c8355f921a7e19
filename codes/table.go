package codes

import (
	"bytes"

	"github.com/vigna/bvgraph/bitio"
)

// UseTable is the USE_TABLE performance knob from spec.md §4.2: when true,
// short zeta_3 values (the default residual code) are resolved by a lookup
// on a peeked window instead of the generic unary+truncated-binary path.
// The table is built from big-endian peeks, so ReadZeta consults it only
// on BigEndian readers; there both paths produce identical decodings, and
// little-endian readers always take the generic path. table.go exists only
// to avoid the generic path's per-bit loop for the common case, the same
// role package flate's prefixDecoder.chunks table plays for ReadSymbol.
var UseTable = true

const zeta3TableBits = 12

type zeta3Entry struct {
	value  uint64
	length uint8
	valid  bool
}

var zeta3Table [1 << zeta3TableBits]zeta3Entry

func init() {
	for pattern := 0; pattern < len(zeta3Table); pattern++ {
		buf := []byte{
			byte(pattern >> 4),
			byte(pattern<<4) & 0xf0,
		}
		r := bitio.NewReader(bytes.NewReader(buf), bitio.BigEndian)
		v, err := readZetaGeneric(r, 3)
		n := r.BitPos()
		if err == nil && n <= zeta3TableBits {
			// The low (zeta3TableBits-n) bits padded with zero cannot
			// influence the decode: zeta_3's decode only ever consumes
			// exactly the unary prefix plus the truncated-binary body
			// (n bits), so no further check is made here.
			zeta3Table[pattern] = zeta3Entry{value: v, length: uint8(n), valid: true}
		}
	}
}
