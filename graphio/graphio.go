// Package graphio memory-maps the .graph/.offsets files of an on-disk BV
// graph, parses its .properties file, and adapts them to the interfaces
// package bvgraph needs, the way package bzip2's callers adapt an
// *os.File to io.Reader — except here the mapping is read directly off
// the page cache instead of streamed, since random access needs seeking
// a real io.ReaderAt backed by the whole file. It does not open .ef files;
// random-access offsets come from the .offsets file via ArrayOffsets.
package graphio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/vigna/bvgraph/bvgraph"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "graphio: " + string(e) }

// Graph is an open, memory-mapped BV graph: its .properties are parsed,
// and its .graph (and, if present, .offsets) files are mapped read-only.
type Graph struct {
	Properties bvgraph.Properties

	graphFile *os.File
	graphMap  mmap.MMap

	offsetsFile *os.File
	offsetsMap  mmap.MMap
}

// Open maps basename+".graph" and basename+".properties" (and
// basename+".offsets", if it exists) read-only.
func Open(basename string) (*Graph, error) {
	propsFile, err := os.Open(basename + ".properties")
	if err != nil {
		return nil, err
	}
	defer propsFile.Close()
	props, err := bvgraph.ReadProperties(propsFile)
	if err != nil {
		return nil, fmt.Errorf("graphio: parsing %s.properties: %w", basename, err)
	}

	graphFile, err := os.Open(basename + ".graph")
	if err != nil {
		return nil, err
	}
	graphMap, err := mmap.Map(graphFile, mmap.RDONLY, 0)
	if err != nil {
		graphFile.Close()
		return nil, fmt.Errorf("graphio: mapping %s.graph: %w", basename, err)
	}

	g := &Graph{Properties: props, graphFile: graphFile, graphMap: graphMap}

	offsetsFile, err := os.Open(basename + ".offsets")
	if err == nil {
		offsetsMap, err := mmap.Map(offsetsFile, mmap.RDONLY, 0)
		if err != nil {
			offsetsFile.Close()
			g.Close()
			return nil, fmt.Errorf("graphio: mapping %s.offsets: %w", basename, err)
		}
		g.offsetsFile = offsetsFile
		g.offsetsMap = offsetsMap
	} else if !os.IsNotExist(err) {
		g.Close()
		return nil, err
	}

	return g, nil
}

// GraphBytes returns the mapped contents of the .graph file, suitable for
// wrapping in a bitio.Reader.
func (g *Graph) GraphBytes() mmap.MMap { return g.graphMap }

// VerifyChecksum recomputes g's whole-graph checksum by decoding it
// sequentially (bvgraph.VerifyChecksum) and compares it against the
// graphchecksum recorded in g.Properties. It returns an error if Open's
// .properties file never carried a graphchecksum key. bvgraph.GraphEncoder
// only computes that sum when a caller opted in via EnableChecksum, and
// the caller stores it in the properties.
func (g *Graph) VerifyChecksum() (ok bool, sum uint32, err error) {
	return bvgraph.VerifyChecksum(bytes.NewReader(g.graphMap), g.Properties)
}

// HasOffsets reports whether a .offsets side file was found.
func (g *Graph) HasOffsets() bool { return g.offsetsMap != nil }

// OffsetsBytes returns the mapped contents of the .offsets file.
func (g *Graph) OffsetsBytes() mmap.MMap { return g.offsetsMap }

// Close unmaps and closes every file Open mapped.
func (g *Graph) Close() error {
	var errs []string
	if g.offsetsMap != nil {
		if err := g.offsetsMap.Unmap(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if g.offsetsFile != nil {
		if err := g.offsetsFile.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if g.graphMap != nil {
		if err := g.graphMap.Unmap(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if g.graphFile != nil {
		if err := g.graphFile.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return Error(strings.Join(errs, "; "))
	}
	return nil
}
