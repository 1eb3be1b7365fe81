// Package sourcemap reads, writes and composes version 3 source maps.
//
// Lines are 1-based and columns 0-based, the convention used by browsers and
// by the JavaScript source-map tooling the maps are exchanged with.
package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceMismatch is returned by Compose when the intermediate map does
	// not describe the expected original file.
	ErrSourceMismatch = errors.New("sourcemap: intermediate map source mismatch")

	// ErrNotSingleSource is the ErrSourceMismatch returned when the
	// intermediate map does not describe exactly one original file.
	ErrNotSingleSource = fmt.Errorf("%w: map must have exactly one source", ErrSourceMismatch)
)

// Map is the JSON form of a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Mapping is one decoded segment of a map. A mapping with an empty Source
// only marks a generated position and carries no original location.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	Source          string
	OriginalLine    int
	OriginalColumn  int
	Name            string
}

// Position is an original location returned by Consumer.OriginalPositionFor.
type Position struct {
	Source string
	Line   int
	Column int
	Name   string
}

// Parse decodes the JSON form of a map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sourcemap: parse: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("sourcemap: unsupported version %d", m.Version)
	}
	return &m, nil
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// String returns the JSON form, or an empty string if the map cannot be encoded.
func (m *Map) String() string {
	raw, err := m.JSON()
	if err != nil {
		return ""
	}
	return string(raw)
}

// SourceAt returns the i-th source joined with the source root.
func (m *Map) SourceAt(i int) string {
	if m == nil || i < 0 || i >= len(m.Sources) {
		return ""
	}
	src := m.Sources[i]
	if m.SourceRoot == "" {
		return src
	}
	root := m.SourceRoot
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root + src
}

// Decode expands the mappings field into individual mappings in the order
// they appear, which is generated-position order for well-formed maps.
func (m *Map) Decode() ([]Mapping, error) {
	if m == nil || m.Mappings == "" {
		return nil, nil
	}

	var (
		out     []Mapping
		srcIdx  int
		origLn  int
		origCol int
		nameIdx int
		fields  = make([]int, 0, 5)
	)

	for lineNo, line := range strings.Split(m.Mappings, ";") {
		genCol := 0
		for _, seg := range strings.Split(line, ",") {
			if seg == "" {
				continue
			}

			fields = fields[:0]
			for pos := 0; pos < len(seg); {
				v, next, err := decodeVLQ(seg, pos)
				if err != nil {
					return nil, fmt.Errorf("sourcemap: line %d: %w", lineNo+1, err)
				}
				fields = append(fields, v)
				pos = next
			}
			if n := len(fields); n != 1 && n != 4 && n != 5 {
				return nil, fmt.Errorf("sourcemap: line %d: segment %q has %d fields", lineNo+1, seg, n)
			}

			genCol += fields[0]
			mp := Mapping{GeneratedLine: lineNo + 1, GeneratedColumn: genCol}
			if len(fields) >= 4 {
				srcIdx += fields[1]
				origLn += fields[2]
				origCol += fields[3]
				if srcIdx < 0 || srcIdx >= len(m.Sources) {
					return nil, fmt.Errorf("sourcemap: line %d: source index %d out of range", lineNo+1, srcIdx)
				}
				mp.Source = m.SourceAt(srcIdx)
				mp.OriginalLine = origLn + 1
				mp.OriginalColumn = origCol
			}
			if len(fields) == 5 {
				nameIdx += fields[4]
				if nameIdx >= 0 && nameIdx < len(m.Names) {
					mp.Name = m.Names[nameIdx]
				}
			}
			out = append(out, mp)
		}
	}
	return out, nil
}
