package testutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string into a byte stream.
//
// The BitGen format allows bit-streams to be generated from a series of
// tokens describing bits in the resulting string. It is designed for testing
// purposes by aiding a human in the manual scripting of bvgraph node records
// from individual bit-strings.
//
// The format consists of a series of tokens separated by white space of any
// kind. The '#' character starts a comment that runs to the end of the line.
//
// The first valid token must either be "<<<" (little-endian) or ">>>"
// (big-endian), appearing exactly once at the start. This is the bit order
// used by bvgraph's little-endian graphs (version 1) versus big-endian
// graphs (version 0, the Java-compatible default).
//
// A token of the form "<" or ">" sets the current bit-parsing mode for
// subsequent tokens until changed again; it defaults to little-endian.
//
// A token matching "[01]{1,64}" is a literal bit-string. In little-endian
// parsing mode its right-most bit is written first; in big-endian mode its
// left-most bit is written first.
//
// A token of the form "D<bits>:<value>" or "H<bits>:<value>" is a decimal or
// hexadecimal value occupying exactly <bits> bits (0-64), written
// least-significant-bit-first in little-endian parsing mode and
// most-significant-bit-first in big-endian mode.
//
// A token "X:<hex>" is a run of literal bytes, unaffected by bit order; it
// requires the stream to currently be byte-aligned.
//
// Any token may be prefixed with a one-off "<" or ">" order override, and
// suffixed with "*<n>" to repeat it n times.
//
// The resulting bit-stream is padded with zero bits up to the next byte.
func DecodeBitGen(str string) ([]byte, error) {
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		for _, t := range strings.Split(s, " ") {
			t = strings.TrimSpace(t)
			if len(t) > 0 {
				toks = append(toks, t)
			}
		}
	}
	if len(toks) == 0 {
		toks = append(toks, "")
	}

	var packMode bool // false: LE, true: BE
	switch toks[0] {
	case "<<<":
		packMode = false
	case ">>>":
		packMode = true
	default:
		return nil, errors.New("testutil: unknown stream bit-packing mode")
	}
	toks = toks[1:]

	var bw bitBuffer
	var parseMode bool
	for _, t := range toks {
		pm := parseMode
		if t[0] == '<' || t[0] == '>' {
			pm = t[0] == '>'
			t = t[1:]
			if len(t) == 0 {
				parseMode = pm
				continue
			}
		}

		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			tt, tn := t[:i], t[i+1:]
			n, err := strconv.Atoi(tn)
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = tt, n
		}

		switch {
		case reBin.MatchString(t):
			var v uint64
			for _, b := range t {
				v <<= 1
				v |= uint64(b - '0')
			}
			if pm {
				v = reverseUint64N(v, uint(len(t)))
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(len(t)))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			tb, tn, tv := t[0], t[1:i], t[i+1:]

			base := 10
			if tb == 'H' {
				base = 16
			}

			n, err1 := strconv.Atoi(tn)
			v, err2 := strconv.ParseUint(tv, base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v&((1<<uint(n))-1) != v {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}

			if pm {
				v = reverseUint64N(v, uint(n))
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(n))
			}
		case reRaw.MatchString(t):
			tx := t[2:]
			b, err := hex.DecodeString(tx)
			if err != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			b = bytes.Repeat(b, rep)
			if _, err := bw.Write(b); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}
	}

	buf := bw.Bytes()
	if packMode {
		for i, b := range buf {
			buf[i] = reverseByte(b)
		}
	}
	return buf, nil
}

// bitBuffer is a minimal LSB-first bit accumulator used only to assemble
// BitGen fixtures; it is not the production bit writer (see package bitio).
type bitBuffer struct {
	b []byte
	m byte
}

func (b *bitBuffer) Write(buf []byte) (int, error) {
	if b.m != 0x00 {
		return 0, errors.New("testutil: unaligned write")
	}
	b.b = append(b.b, buf...)
	return len(buf), nil
}

func (b *bitBuffer) WriteBits64(v uint64, n uint) {
	for i := uint(0); i < n; i++ {
		if b.m == 0x00 {
			b.m = 0x01
			b.b = append(b.b, 0x00)
		}
		if v&(1<<i) != 0 {
			b.b[len(b.b)-1] |= b.m
		}
		b.m <<= 1
	}
}

func (b *bitBuffer) Bytes() []byte {
	return b.b
}

func reverseByte(b byte) byte {
	b = (b&0xaa)>>1 | (b&0x55)<<1
	b = (b&0xcc)>>2 | (b&0x33)<<2
	b = (b&0xf0)>>4 | (b&0x0f)<<4
	return b
}

func reverseUint64N(v uint64, n uint) uint64 {
	var x uint64
	for i := uint(0); i < n; i++ {
		x <<= 1
		x |= v & 1
		v >>= 1
	}
	return x
}
