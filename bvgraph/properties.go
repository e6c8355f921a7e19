package bvgraph

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/vigna/bvgraph/bitio"
)

// Properties mirrors the key=value fields of a graph's .properties file
// (spec.md §6): everything a Decoder/Encoder needs to interpret a .graph
// stream, short of the byte offsets themselves.
type Properties struct {
	Nodes             uint64
	Arcs              uint64
	Version           uint8 // 0 = BigEndian, 1 = LittleEndian
	WindowSize        uint64
	MaxRefCount       uint64
	MinIntervalLength uint64
	ZetaK             uint
	Codes             CodeSet

	// GraphChecksum is the whole-graph CRC-32/IEEE recorded under the
	// graphchecksum key (see Checksum), valid only when HasGraphChecksum
	// is set — the key is optional, unlike the fields above.
	GraphChecksum    uint32
	HasGraphChecksum bool
}

// Order returns the bit order implied by Version.
func (p Properties) Order() bitio.Order {
	if p.Version == 1 {
		return bitio.LittleEndian
	}
	return bitio.BigEndian
}

// ReadProperties parses a .properties file. Unknown keys are ignored, per
// the Java properties format's forward-compatibility convention; missing
// required keys are an error.
func ReadProperties(r io.Reader) (Properties, error) {
	kv := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			return Properties{}, Error("malformed properties line: " + line)
		}
		kv[strings.TrimSpace(line[:i])] = strings.TrimSpace(line[i+1:])
	}
	if err := sc.Err(); err != nil {
		return Properties{}, err
	}

	var p Properties
	var err error
	if p.Nodes, err = reqUint(kv, "nodes"); err != nil {
		return Properties{}, err
	}
	if p.Arcs, err = reqUint(kv, "arcs"); err != nil {
		return Properties{}, err
	}
	ver, err := optUint(kv, "version", 0)
	if err != nil {
		return Properties{}, err
	}
	p.Version = uint8(ver)
	if p.WindowSize, err = optUint(kv, "windowsize", 7); err != nil {
		return Properties{}, err
	}
	if p.MaxRefCount, err = optUint(kv, "maxrefcount", ^uint64(0)); err != nil {
		return Properties{}, err
	}
	if p.MinIntervalLength, err = optUint(kv, "minintervallength", 4); err != nil {
		return Properties{}, err
	}
	zk, err := optUint(kv, "zetak", 3)
	if err != nil {
		return Properties{}, err
	}
	p.ZetaK = uint(zk)
	p.Codes, err = ParseCompressionFlags(kv["compressionflags"], p.ZetaK)
	if err != nil {
		return Properties{}, err
	}
	if s, ok := kv["graphchecksum"]; ok && s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return Properties{}, Error("properties: invalid value for graphchecksum: " + s)
		}
		p.GraphChecksum = uint32(v)
		p.HasGraphChecksum = true
	}
	return p, nil
}

// WriteProperties writes p in the same key=value format ReadProperties
// accepts, one key per line, terminated with a trailing newline.
func WriteProperties(w io.Writer, p Properties) error {
	bw := bufio.NewWriter(w)
	lines := []string{
		"nodes=" + strconv.FormatUint(p.Nodes, 10),
		"arcs=" + strconv.FormatUint(p.Arcs, 10),
		"version=" + strconv.Itoa(int(p.Version)),
		"windowsize=" + strconv.FormatUint(p.WindowSize, 10),
		"maxrefcount=" + strconv.FormatUint(p.MaxRefCount, 10),
		"minintervallength=" + strconv.FormatUint(p.MinIntervalLength, 10),
		"zetak=" + strconv.FormatUint(uint64(p.ZetaK), 10),
		"compressionflags=" + p.Codes.String(),
	}
	if p.HasGraphChecksum {
		lines = append(lines, "graphchecksum="+strconv.FormatUint(uint64(p.GraphChecksum), 10))
	}
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func reqUint(kv map[string]string, key string) (uint64, error) {
	s, ok := kv[key]
	if !ok {
		return 0, Error("properties: missing required key " + key)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, Error("properties: invalid value for " + key + ": " + s)
	}
	return v, nil
}

func optUint(kv map[string]string, key string, def uint64) (uint64, error) {
	s, ok := kv[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, Error("properties: invalid value for " + key + ": " + s)
	}
	return v, nil
}
