package arcsort

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/vigna/bvgraph/bitio"
	"github.com/vigna/bvgraph/codes"
)

// BatchCodec serializes a sorted batch of arcs to a temp file and reads it
// back one arc at a time. Sorter.spill calls Encode once per batch;
// batchIterator calls NewDecoder once per batch and then Next repeatedly.
type BatchCodec interface {
	Encode(w io.Writer, arcs []Arc) error
	NewDecoder(r io.Reader) BatchDecoder
}

// BatchDecoder streams arcs back out of one encoded batch, in the order
// Encode wrote them (always ascending, since Sorter.spill sorts first).
type BatchDecoder interface {
	// Next returns the next arc, or ok=false once the batch is exhausted.
	Next() (arc Arc, ok bool, err error)
}

// LabelCodec serializes an Arc's Label into (or out of) a batch's bit
// stream, right after its (Src, Dst) are written. It exists so the unit-
// label case (every label 0, nothing written) and a real labeled-graph
// codec can share one BatchCodec implementation; only the no-op unit
// serializer ships in this module (see Non-goals).
type LabelCodec interface {
	WriteLabel(w *bitio.Writer, label uint64) error
	ReadLabel(r *bitio.Reader) (uint64, error)
}

// unitLabelCodec is the default, no-op LabelCodec: it writes nothing and
// always reads back label 0, matching spec.md's unit-label default.
type unitLabelCodec struct{}

func (unitLabelCodec) WriteLabel(w *bitio.Writer, label uint64) error { return nil }
func (unitLabelCodec) ReadLabel(r *bitio.Reader) (uint64, error)      { return 0, nil }

// gapCodec delta-codes a sorted arc batch with package codes' gamma code:
// the src gap from the previous arc (0 if this arc shares the previous
// arc's src), then either the dst gap from the previous arc (same src) or
// the absolute dst (new src) — also gamma-coded — then the arc's label
// via Labels. This is the default batch format; it costs little to
// compute and typically shrinks a batch by more than half relative to a
// fixed 16-byte-per-arc encoding.
type gapCodec struct {
	Labels LabelCodec
}

// DefaultCodec gap-codes batches with Elias gamma, paying no third-party
// compression cost for the common case where spilled batches are already
// fairly small relative to available disk, and the unit LabelCodec so the
// common unlabeled case costs zero extra bits.
var DefaultCodec BatchCodec = gapCodec{Labels: unitLabelCodec{}}

func (c gapCodec) labels() LabelCodec {
	if c.Labels == nil {
		return unitLabelCodec{}
	}
	return c.Labels
}

func (c gapCodec) Encode(w io.Writer, arcs []Arc) error {
	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(len(arcs)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return err
	}
	bw := bitio.NewWriter(w, bitio.BigEndian)
	labels := c.labels()
	var prevSrc, prevDst uint64
	for _, a := range arcs {
		srcGap := a.Src - prevSrc
		if _, err := codes.WriteGamma(bw, srcGap); err != nil {
			return err
		}
		if srcGap == 0 {
			if _, err := codes.WriteGamma(bw, a.Dst-prevDst); err != nil {
				return err
			}
		} else {
			if _, err := codes.WriteGamma(bw, a.Dst); err != nil {
				return err
			}
		}
		if err := labels.WriteLabel(bw, a.Label); err != nil {
			return err
		}
		prevSrc, prevDst = a.Src, a.Dst
	}
	_, err := bw.Flush()
	return err
}

func (c gapCodec) NewDecoder(r io.Reader) BatchDecoder {
	return &gapDecoder{r: r, labels: c.labels()}
}

type gapDecoder struct {
	r                io.Reader
	br               *bitio.Reader
	count, read      uint64
	started          bool
	prevSrc, prevDst uint64
	labels           LabelCodec
}

func (d *gapDecoder) Next() (Arc, bool, error) {
	if !d.started {
		var countBuf [8]byte
		if _, err := io.ReadFull(d.r, countBuf[:]); err != nil {
			return Arc{}, false, err
		}
		d.count = binary.BigEndian.Uint64(countBuf[:])
		d.br = bitio.NewReader(asReaderAt(d.r), bitio.BigEndian)
		if d.labels == nil {
			d.labels = unitLabelCodec{}
		}
		d.started = true
	}
	if d.read >= d.count {
		return Arc{}, false, nil
	}
	srcGap, err := codes.ReadGamma(d.br)
	if err != nil {
		return Arc{}, false, err
	}
	var dst uint64
	if srcGap == 0 {
		dstGap, err := codes.ReadGamma(d.br)
		if err != nil {
			return Arc{}, false, err
		}
		dst = d.prevDst + dstGap
	} else {
		dst, err = codes.ReadGamma(d.br)
		if err != nil {
			return Arc{}, false, err
		}
	}
	label, err := d.labels.ReadLabel(d.br)
	if err != nil {
		return Arc{}, false, err
	}
	a := Arc{Src: d.prevSrc + srcGap, Dst: dst, Label: label}
	d.prevSrc, d.prevDst = a.Src, a.Dst
	d.read++
	return a, true, nil
}

// asReaderAt adapts a plain io.Reader into the io.ReaderAt bitio.Reader
// requires, for the purely-sequential access pattern batch decoding uses
// (every read is issued at an ever-increasing offset, so a small growing
// buffer suffices instead of requiring true random access).
func asReaderAt(r io.Reader) io.ReaderAt {
	return &sequentialReaderAt{src: bufio.NewReader(r)}
}

type sequentialReaderAt struct {
	src *bufio.Reader
	buf []byte
	pos int64
}

func (s *sequentialReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < s.pos {
		return 0, Error("sequentialReaderAt: non-sequential read requested")
	}
	for int64(len(s.buf)) < off-s.pos+int64(len(p)) {
		b, err := s.src.ReadByte()
		if err != nil {
			if len(s.buf) > int(off-s.pos) {
				break
			}
			return 0, err
		}
		s.buf = append(s.buf, b)
	}
	start := off - s.pos
	if start+int64(len(p)) > int64(len(s.buf)) {
		n := copy(p, s.buf[start:])
		return n, io.ErrUnexpectedEOF
	}
	n := copy(p, s.buf[start:start+int64(len(p))])
	// Drop bytes that can no longer be referenced: bitio.Reader never
	// seeks backward across a batch decode, so only a small trailing
	// window needs to stay buffered.
	if start > 4096 {
		s.buf = s.buf[start:]
		s.pos += start
	}
	return n, nil
}

// zstdCodec wraps gapCodec's bit-level delta encoding with an additional
// zstd compression pass, for workloads where temp-file disk space is the
// binding constraint rather than CPU.
type zstdCodec struct {
	level zstd.EncoderLevel
}

// NewZstdCodec returns a BatchCodec that zstd-compresses gapCodec's output.
func NewZstdCodec(level zstd.EncoderLevel) BatchCodec {
	return zstdCodec{level: level}
}

func (c zstdCodec) Encode(w io.Writer, arcs []Arc) error {
	var raw bytes.Buffer
	if err := (gapCodec{}).Encode(&raw, arcs); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func (c zstdCodec) NewDecoder(r io.Reader) BatchDecoder {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return &errDecoder{err: err}
	}
	return gapCodec{}.NewDecoder(dec.IOReadCloser())
}

type errDecoder struct{ err error }

func (d *errDecoder) Next() (Arc, bool, error) { return Arc{}, false, d.err }
