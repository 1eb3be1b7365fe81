package sourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVLQKnownValues(t *testing.T) {
	cases := map[int]string{0: "A", 1: "C", -1: "D", 15: "e", 16: "gB", -16: "hB", 1000: "w+B"}
	for v, want := range cases {
		var b strings.Builder
		encodeVLQ(&b, v)
		assert.Equal(t, want, b.String(), "encode %d", v)

		got, next, err := decodeVLQ(want, 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(want), next)
	}
}

func TestDecodeVLQErrors(t *testing.T) {
	_, _, err := decodeVLQ("g", 0)
	assert.ErrorIs(t, err, errVLQTruncated)

	_, _, err = decodeVLQ("!", 0)
	assert.ErrorIs(t, err, errVLQChar)
}

func TestParseAndDecode(t *testing.T) {
	m, err := Parse([]byte(`{"version":3,"sources":["a.js"],"names":["x"],"mappings":"AAAAA,CAAC;AACA"}`))
	require.NoError(t, err)

	mappings, err := m.Decode()
	require.NoError(t, err)
	assert.Equal(t, []Mapping{
		{GeneratedLine: 1, GeneratedColumn: 0, Source: "a.js", OriginalLine: 1, OriginalColumn: 0, Name: "x"},
		{GeneratedLine: 1, GeneratedColumn: 1, Source: "a.js", OriginalLine: 1, OriginalColumn: 1},
		{GeneratedLine: 2, GeneratedColumn: 0, Source: "a.js", OriginalLine: 2, OriginalColumn: 1},
	}, mappings)
}

func TestParseRejectsOtherVersions(t *testing.T) {
	_, err := Parse([]byte(`{"version":2,"sources":[],"names":[],"mappings":""}`))
	assert.Error(t, err)
}

func TestDecodeSourceRoot(t *testing.T) {
	m := &Map{Version: 3, SourceRoot: "src", Sources: []string{"App.html"}, Mappings: "AAAA"}
	mappings, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "src/App.html", mappings[0].Source)
}

func TestDecodeRejectsBadSourceIndex(t *testing.T) {
	m := &Map{Version: 3, Sources: []string{"a.js"}, Mappings: "ACAA"}
	_, err := m.Decode()
	assert.Error(t, err)
}

func TestGeneratorRoundTrip(t *testing.T) {
	g := NewGenerator("out.js")
	g.AddMapping(Mapping{GeneratedLine: 3, GeneratedColumn: 4, Source: "a.html", OriginalLine: 2, OriginalColumn: 1, Name: "name"})
	g.AddMapping(Mapping{GeneratedLine: 1, GeneratedColumn: 0, Source: "a.html", OriginalLine: 1, OriginalColumn: 0})
	g.AddMapping(Mapping{GeneratedLine: 3, GeneratedColumn: 9})
	g.SetSourceContent("a.html", "<p>\n{name}\n")

	m := g.Map()
	assert.Equal(t, []string{"a.html"}, m.Sources)
	assert.Equal(t, []string{"<p>\n{name}\n"}, m.SourcesContent)
	assert.Equal(t, []string{"name"}, m.Names)

	raw, err := m.JSON()
	require.NoError(t, err)
	parsed, err := Parse(raw)
	require.NoError(t, err)

	mappings, err := parsed.Decode()
	require.NoError(t, err)
	assert.Equal(t, []Mapping{
		{GeneratedLine: 1, GeneratedColumn: 0, Source: "a.html", OriginalLine: 1, OriginalColumn: 0},
		{GeneratedLine: 3, GeneratedColumn: 4, Source: "a.html", OriginalLine: 2, OriginalColumn: 1, Name: "name"},
		{GeneratedLine: 3, GeneratedColumn: 9},
	}, mappings)

	// insertion order is kept apart from the encoded order
	assert.Equal(t, 3, g.Mappings()[0].GeneratedLine)
}

func TestOriginalPositionFor(t *testing.T) {
	g := NewGenerator("out.js")
	g.AddMapping(Mapping{GeneratedLine: 2, GeneratedColumn: 0, Source: "a.html", OriginalLine: 4, OriginalColumn: 0})
	g.AddMapping(Mapping{GeneratedLine: 2, GeneratedColumn: 10, Source: "a.html", OriginalLine: 4, OriginalColumn: 6})
	g.AddMapping(Mapping{GeneratedLine: 3, GeneratedColumn: 5})

	c, err := NewConsumer(g.Map())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	pos, ok := c.OriginalPositionFor(2, 7)
	require.True(t, ok)
	assert.Equal(t, Position{Source: "a.html", Line: 4, Column: 0}, pos)

	pos, ok = c.OriginalPositionFor(2, 12)
	require.True(t, ok)
	assert.Equal(t, 6, pos.Column)

	_, ok = c.OriginalPositionFor(1, 0)
	assert.False(t, ok, "line without mappings")

	_, ok = c.OriginalPositionFor(3, 8)
	assert.False(t, ok, "mapping without source")

	_, ok = c.OriginalPositionFor(3, 2)
	assert.False(t, ok, "no mapping to the left on the same line")
}

func TestNilMapConsumer(t *testing.T) {
	c, err := NewConsumer(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}
