package bvgraph

import (
	"hash/crc32"
	"io"

	"github.com/dsnet/golib/hashutil"

	"github.com/vigna/bvgraph/bitio"
)

// Checksum accumulates a whole-graph CRC-32/IEEE over successor lists as
// they stream past, the way bzip2.Reader tracks a running block CRC. It is
// optional: nothing in package bvgraph requires a caller to use one.
type Checksum struct {
	crc uint32
	n   int64
}

// Write folds succ, encoded as consecutive little-endian uint64s, into the
// running checksum.
func (c *Checksum) Write(succ []uint64) {
	var buf [8]byte
	for _, v := range succ {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		buf[4] = byte(v >> 32)
		buf[5] = byte(v >> 40)
		buf[6] = byte(v >> 48)
		buf[7] = byte(v >> 56)
		c.crc = crc32.Update(c.crc, crc32.IEEETable, buf[:])
		c.n += 8
	}
}

// Sum32 returns the checksum accumulated so far.
func (c *Checksum) Sum32() uint32 { return c.crc }

// Combine merges another Checksum's accumulated state into c, as if the
// bytes it saw had instead been appended directly to c's stream, so
// checksums accumulated over consecutive parts of a graph can be combined
// into one whole-graph checksum without re-hashing every byte.
func (c *Checksum) Combine(other Checksum) {
	c.crc = hashutil.CombineCRC32(crc32.IEEE, c.crc, other.crc, other.n)
	c.n += other.n
}

// VerifyChecksum decodes src sequentially under props and recomputes its
// whole-graph checksum the same way GraphEncoder.EnableChecksum accumulates
// one while encoding, then compares it against props.GraphChecksum. It
// returns an error if props has no graphchecksum key (there is nothing to
// verify against), the same construction Convert uses to build a
// SequentialReader from raw Properties.
func VerifyChecksum(src io.ReaderAt, props Properties) (ok bool, sum uint32, err error) {
	if !props.HasGraphChecksum {
		return false, 0, Error("verifychecksum: properties has no graphchecksum key")
	}
	defer recoverErr(&err)

	r := bitio.NewReader(src, props.Order())
	var dec Decoder
	if props.Codes.IsDefault() {
		dec = NewDefaultDecoder(r)
	} else {
		dec = NewDynDecoder(r, props.Codes)
	}
	sr := NewSequentialReader(dec, props.Nodes, props.WindowSize)
	sr.EnableChecksum()

	for sr.HasNext() {
		if _, _, err := sr.Next(); err != nil {
			return false, 0, err
		}
	}
	sum, _ = sr.Sum32()
	return sum == props.GraphChecksum, sum, nil
}
