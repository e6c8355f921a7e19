package bvgraph

import (
	"io"

	"github.com/vigna/bvgraph/bitio"
)

// Convert re-encodes a .graph stream from one bit order to the other
// (spec.md's version 0/1 distinction), decoding every node with a
// SequentialReader under the source order and re-encoding it with a
// GraphEncoder under the destination order. It is a library function only:
// SPEC_FULL explicitly scopes out a CLI wrapper around it.
func Convert(src io.ReaderAt, srcProps Properties, dstBitWriter io.Writer, dstOffWriter io.Writer) (dstProps Properties, err error) {
	defer recoverErr(&err)

	dstOrder := bitio.BigEndian
	dstVersion := uint8(0)
	if srcProps.Order() == bitio.BigEndian {
		dstOrder = bitio.LittleEndian
		dstVersion = 1
	}

	srcReader := bitio.NewReader(src, srcProps.Order())
	var dec Decoder
	if srcProps.Codes.IsDefault() {
		dec = NewDefaultDecoder(srcReader)
	} else {
		dec = NewDynDecoder(srcReader, srcProps.Codes)
	}
	sr := NewSequentialReader(dec, srcProps.Nodes, srcProps.WindowSize)

	bw := bitio.NewWriter(dstBitWriter, dstOrder)
	var enc Encoder
	if srcProps.Codes.IsDefault() {
		enc = NewDefaultEncoder(bw)
	} else {
		enc = NewDynEncoder(bw, srcProps.Codes)
	}
	off := NewOffsetsWriter(bitio.NewWriter(dstOffWriter, dstOrder))

	cfg := EncoderConfig{
		WindowSize:        srcProps.WindowSize,
		MaxRefCount:       srcProps.MaxRefCount,
		MinIntervalLength: srcProps.MinIntervalLength,
		Codes:             srcProps.Codes,
	}
	ge := NewGraphEncoder(enc, off, cfg)

	for sr.HasNext() {
		_, succ, err := sr.Next()
		if err != nil {
			return Properties{}, err
		}
		if err := ge.EncodeNode(succ); err != nil {
			return Properties{}, err
		}
	}
	if err := off.Flush(); err != nil {
		return Properties{}, err
	}

	dstProps = srcProps
	dstProps.Version = dstVersion
	return dstProps, nil
}
