package bvgraph

import "github.com/vigna/bvgraph/bitio"

// reader and writer alias the concrete bitio types rather than introducing
// a new interface: every code function in package codes is already a free
// function over *bitio.Reader/*bitio.Writer, so readCode/writeCode just
// forward to them directly.
type reader = *bitio.Reader
type writer = *bitio.Writer

// Decoder reads the per-node records of a BV graph stream: an outdegree,
// followed (if nonzero) by an optional reference, an optional block list
// and interval list, and a residual gap list. Implementations need not be
// safe for concurrent use.
type Decoder interface {
	// ReadOutdegree reads the current node's outdegree.
	ReadOutdegree() (uint64, error)
	// ReadReferenceOffset reads how many nodes back the reference points
	// (0 means "no reference"), valid only when the encoder emits a
	// window (windowsize > 0).
	ReadReferenceOffset() (uint64, error)
	// ReadBlockCount reads the number of explicit blocks (alternating copy
	// and skip runs) in the reference mask, valid only when
	// ReadReferenceOffset() > 0.
	ReadBlockCount() (uint64, error)
	// ReadBlock reads one copy-block length.
	ReadBlock() (uint64, error)
	// ReadIntervalCount reads the number of interval runs.
	ReadIntervalCount() (uint64, error)
	// ReadIntervalStart reads an interval run's first successor, coded as
	// a signed gap from a cursor (the node index on the first interval,
	// then one past the previous interval's last value).
	ReadIntervalStart() (int64, error)
	// ReadIntervalLen reads an interval run's length minus one. The stored
	// value does not depend on minintervallength, which only decides
	// which runs the encoder writes as intervals.
	ReadIntervalLen() (uint64, error)
	// ReadResidual reads one residual gap, signed relative to one past the
	// previous residual (or to the node index, for the first residual).
	ReadResidual() (int64, error)
}

// Encoder is the write-side counterpart of Decoder. Callers must call
// StartNode before encoding a node's fields and EndNode after, then Flush
// once the whole stream has been written.
type Encoder interface {
	StartNode(node uint64) error
	WriteOutdegree(v uint64) error
	WriteReferenceOffset(v uint64) error
	WriteBlockCount(v uint64) error
	WriteBlock(v uint64) error
	WriteIntervalCount(v uint64) error
	WriteIntervalStart(v int64) error
	WriteIntervalLen(v uint64) error
	WriteResidual(v int64) error
	EndNode() error
	// Flush pads the underlying bit writer to a byte boundary and returns
	// the total number of bits written to the stream so far.
	Flush() (uint64, error)
}

// DecoderFactory produces a fresh Decoder reading from bit position 0 of
// the given source, for sequential whole-graph traversal.
type DecoderFactory interface {
	NewDecoder(r reader) Decoder
}

// SeekableDecoderFactory additionally supports decoding starting at an
// arbitrary bit offset, for random access via an index of per-node start
// positions (spec.md §5).
type SeekableDecoderFactory interface {
	DecoderFactory
	NewDecoderAt(r reader, bitPos uint64) Decoder
}

// dynDecoder dispatches every field through readCode at runtime according
// to a CodeSet — the "dynamic" strategy of spec.md §4.3, needed whenever
// the CodeSet isn't DefaultCodeSet.
type dynDecoder struct {
	r  reader
	cs CodeSet
}

// NewDynDecoder returns a Decoder that honors an arbitrary CodeSet.
func NewDynDecoder(r reader, cs CodeSet) Decoder { return &dynDecoder{r: r, cs: cs} }

func (d *dynDecoder) ReadOutdegree() (uint64, error) { return readCode(d.r, d.cs.Outdegrees) }
func (d *dynDecoder) ReadReferenceOffset() (uint64, error) {
	return readCode(d.r, d.cs.References)
}
func (d *dynDecoder) ReadBlockCount() (uint64, error) { return readCode(d.r, d.cs.Blocks) }
func (d *dynDecoder) ReadBlock() (uint64, error)      { return readCode(d.r, d.cs.Blocks) }
func (d *dynDecoder) ReadIntervalCount() (uint64, error) {
	return readCode(d.r, d.cs.Intervals)
}
func (d *dynDecoder) ReadIntervalStart() (int64, error) {
	u, err := readCode(d.r, d.cs.Residuals)
	return natToGap(u), err
}
func (d *dynDecoder) ReadIntervalLen() (uint64, error) { return readCode(d.r, d.cs.Intervals) }
func (d *dynDecoder) ReadResidual() (int64, error) {
	u, err := readCode(d.r, d.cs.Residuals)
	return natToGap(u), err
}

// dynEncoder is dynDecoder's write-side mirror.
type dynEncoder struct {
	w         writer
	cs        CodeSet
	bitsStart uint64
}

// NewDynEncoder returns an Encoder that honors an arbitrary CodeSet.
func NewDynEncoder(w writer, cs CodeSet) Encoder { return &dynEncoder{w: w, cs: cs} }

func (e *dynEncoder) StartNode(uint64) error { return nil }
func (e *dynEncoder) WriteOutdegree(v uint64) error {
	_, err := writeCode(e.w, e.cs.Outdegrees, v)
	return err
}
func (e *dynEncoder) WriteReferenceOffset(v uint64) error {
	_, err := writeCode(e.w, e.cs.References, v)
	return err
}
func (e *dynEncoder) WriteBlockCount(v uint64) error {
	_, err := writeCode(e.w, e.cs.Blocks, v)
	return err
}
func (e *dynEncoder) WriteBlock(v uint64) error {
	_, err := writeCode(e.w, e.cs.Blocks, v)
	return err
}
func (e *dynEncoder) WriteIntervalCount(v uint64) error {
	_, err := writeCode(e.w, e.cs.Intervals, v)
	return err
}
func (e *dynEncoder) WriteIntervalStart(v int64) error {
	_, err := writeCode(e.w, e.cs.Residuals, gapToNat(v))
	return err
}
func (e *dynEncoder) WriteIntervalLen(v uint64) error {
	_, err := writeCode(e.w, e.cs.Intervals, v)
	return err
}
func (e *dynEncoder) WriteResidual(v int64) error {
	_, err := writeCode(e.w, e.cs.Residuals, gapToNat(v))
	return err
}
func (e *dynEncoder) EndNode() error { return nil }
func (e *dynEncoder) Flush() (uint64, error) {
	_, err := e.w.Flush()
	return e.w.BitPos(), err
}

// defaultDecoder hardcodes spec.md §4.3's standard defaults (gamma
// outdegrees, unary references, gamma blocks/intervals, zeta_3 residuals)
// as direct calls instead of a CodeSet switch — the "static" dispatch
// strategy, kept in lockstep with dynDecoder by
// TestDynamicMatchesStaticDispatch.
type defaultDecoder struct{ r reader }

// NewDefaultDecoder returns a Decoder hardcoded to DefaultCodeSet.
func NewDefaultDecoder(r reader) Decoder { return &defaultDecoder{r: r} }

func (d *defaultDecoder) ReadOutdegree() (uint64, error)      { return gammaRead(d.r) }
func (d *defaultDecoder) ReadReferenceOffset() (uint64, error) { return d.r.ReadUnary() }
func (d *defaultDecoder) ReadBlockCount() (uint64, error)     { return gammaRead(d.r) }
func (d *defaultDecoder) ReadBlock() (uint64, error)          { return gammaRead(d.r) }
func (d *defaultDecoder) ReadIntervalCount() (uint64, error)  { return gammaRead(d.r) }
func (d *defaultDecoder) ReadIntervalStart() (int64, error) {
	u, err := zetaRead(d.r)
	return natToGap(u), err
}
func (d *defaultDecoder) ReadIntervalLen() (uint64, error) { return gammaRead(d.r) }
func (d *defaultDecoder) ReadResidual() (int64, error) {
	u, err := zetaRead(d.r)
	return natToGap(u), err
}

type defaultEncoder struct{ w writer }

// NewDefaultEncoder returns an Encoder hardcoded to DefaultCodeSet.
func NewDefaultEncoder(w writer) Encoder { return &defaultEncoder{w: w} }

func (e *defaultEncoder) StartNode(uint64) error { return nil }
func (e *defaultEncoder) WriteOutdegree(v uint64) error      { return gammaWrite(e.w, v) }
func (e *defaultEncoder) WriteReferenceOffset(v uint64) error {
	_, err := e.w.WriteUnary(v)
	return err
}
func (e *defaultEncoder) WriteBlockCount(v uint64) error    { return gammaWrite(e.w, v) }
func (e *defaultEncoder) WriteBlock(v uint64) error         { return gammaWrite(e.w, v) }
func (e *defaultEncoder) WriteIntervalCount(v uint64) error { return gammaWrite(e.w, v) }
func (e *defaultEncoder) WriteIntervalStart(v int64) error  { return zetaWrite(e.w, gapToNat(v)) }
func (e *defaultEncoder) WriteIntervalLen(v uint64) error   { return gammaWrite(e.w, v) }
func (e *defaultEncoder) WriteResidual(v int64) error       { return zetaWrite(e.w, gapToNat(v)) }
func (e *defaultEncoder) EndNode() error                    { return nil }
func (e *defaultEncoder) Flush() (uint64, error) {
	_, err := e.w.Flush()
	return e.w.BitPos(), err
}
