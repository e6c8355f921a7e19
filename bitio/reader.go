package bitio

import "io"

const cacheSize = 4096

// Reader is a buffered, seekable bit-stream reader over an io.ReaderAt. The
// same type serves both the sequential decode path (monotonically
// increasing BitPos) and the random-access path (arbitrary SeekBit calls);
// unlike package flate's bitReader, it never assumes forward-only access.
type Reader struct {
	src    io.ReaderAt
	order  Order
	bitPos int64

	cache    [cacheSize]byte
	cacheOff int64
	cacheLen int
}

// NewReader returns a Reader positioned at bit 0.
func NewReader(src io.ReaderAt, order Order) *Reader {
	return NewReaderAt(src, order, 0)
}

// NewReaderAt returns a Reader positioned at the given bit offset. This is
// the primitive the random-access BV reader uses to seek directly to a
// node's record (see bvgraph.RandomAccessReader).
func NewReaderAt(src io.ReaderAt, order Order, bitPos uint64) *Reader {
	return &Reader{src: src, order: order, bitPos: int64(bitPos), cacheOff: -1}
}

// Order reports the bit order this reader was constructed with.
func (r *Reader) Order() Order { return r.order }

// BitPos returns the absolute bit offset of the next bit to be read.
func (r *Reader) BitPos() uint64 { return uint64(r.bitPos) }

// SeekBit repositions the reader to read from the given absolute bit
// offset. The internal byte cache is reused across seeks; it refills
// lazily only if the target byte falls outside the cached window.
func (r *Reader) SeekBit(pos uint64) { r.bitPos = int64(pos) }

// SkipBits advances the cursor by n bits without reading them.
func (r *Reader) SkipBits(n uint) { r.bitPos += int64(n) }

func (r *Reader) byteAt(off int64) (byte, error) {
	if r.cacheLen == 0 || off < r.cacheOff || off >= r.cacheOff+int64(r.cacheLen) {
		n, err := r.src.ReadAt(r.cache[:], off)
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
		r.cacheOff = off
		r.cacheLen = n
	}
	return r.cache[off-r.cacheOff], nil
}

func (r *Reader) readBit() (byte, error) {
	byteOff := r.bitPos / 8
	bitIdx := uint(r.bitPos % 8)
	b, err := r.byteAt(byteOff)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	r.bitPos++
	return r.order.extractBit(b, bitIdx), nil
}

// ReadBits reads the next 1 <= n <= 64 bits and returns them as a value
// assembled according to the reader's bit order (the first bit read is the
// most significant bit of the result for BigEndian, the least significant
// for LittleEndian).
func (r *Reader) ReadBits(n uint) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 64 {
		return 0, Error("ReadBits: n must be <= 64")
	}
	var val uint64
	for i := uint(0); i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if r.order == BigEndian {
			val = val<<1 | uint64(bit)
		} else {
			val |= uint64(bit) << i
		}
	}
	return val, nil
}

// ReadUnary reads a unary-coded value: the count of leading zero bits up to
// (and consuming) the terminating one bit.
func (r *Reader) ReadUnary() (uint64, error) {
	var cnt uint64
	for {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			return cnt, nil
		}
		cnt++
	}
}

// PeekBits behaves like ReadBits but does not consume the bits.
func (r *Reader) PeekBits(n uint) (uint64, error) {
	save := r.bitPos
	val, err := r.ReadBits(n)
	r.bitPos = save
	return val, err
}
