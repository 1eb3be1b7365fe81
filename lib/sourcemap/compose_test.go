package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appSource = "<h1>Hello</h1>\n<div>{name}</div>\n<p>bye</p>\n"

// componentMap maps intermediate line 5 to original line 2 and marks
// intermediate line 7 as synthetic.
func componentMap() *Map {
	g := NewGenerator("App.js")
	g.AddMapping(Mapping{GeneratedLine: 5, GeneratedColumn: 0, Source: "components/App.html", OriginalLine: 2, OriginalColumn: 0})
	g.AddMapping(Mapping{GeneratedLine: 5, GeneratedColumn: 8, Source: "components/App.html", OriginalLine: 2, OriginalColumn: 6})
	g.AddMapping(Mapping{GeneratedLine: 7, GeneratedColumn: 0})
	g.SetSourceContent("components/App.html", appSource)
	return g.Map()
}

func TestComposeResolvesThroughIntermediateMap(t *testing.T) {
	tg := NewGenerator("App.js")
	tg.AddMapping(Mapping{GeneratedLine: 9, GeneratedColumn: 2, Source: "components/App.html", OriginalLine: 5, OriginalColumn: 0})

	composed, err := Compose(tg.Map(), componentMap(), "components/App.html")
	require.NoError(t, err)

	assert.Equal(t, []string{"components/App.html"}, composed.Sources)
	assert.Equal(t, []string{appSource}, composed.SourcesContent)

	c, err := NewConsumer(composed)
	require.NoError(t, err)
	pos, ok := c.OriginalPositionFor(9, 2)
	require.True(t, ok)
	assert.Equal(t, Position{Source: "components/App.html", Line: 2, Column: 0}, pos)
}

func TestComposeDropsSyntheticPositions(t *testing.T) {
	tg := NewGenerator("App.js")
	// intermediate line 3 has no mapping at all
	tg.AddMapping(Mapping{GeneratedLine: 1, GeneratedColumn: 0, Source: "components/App.html", OriginalLine: 3, OriginalColumn: 0})
	// intermediate line 7 maps to nothing in the original
	tg.AddMapping(Mapping{GeneratedLine: 2, GeneratedColumn: 0, Source: "components/App.html", OriginalLine: 7, OriginalColumn: 4})
	// no source in the transpiled map itself
	tg.AddMapping(Mapping{GeneratedLine: 3, GeneratedColumn: 0})

	composed, err := Compose(tg.Map(), componentMap(), "components/App.html")
	require.NoError(t, err)

	mappings, err := composed.Decode()
	require.NoError(t, err)
	assert.Empty(t, mappings)
	assert.Equal(t, []string{"components/App.html"}, composed.Sources)
}

func TestComposeKeepsEntryOrder(t *testing.T) {
	tg := NewGenerator("App.js")
	tg.AddMapping(Mapping{GeneratedLine: 1, GeneratedColumn: 0, Source: "x", OriginalLine: 5, OriginalColumn: 0})
	tg.AddMapping(Mapping{GeneratedLine: 1, GeneratedColumn: 4, Source: "x", OriginalLine: 5, OriginalColumn: 9})
	tg.AddMapping(Mapping{GeneratedLine: 2, GeneratedColumn: 0, Source: "x", OriginalLine: 5, OriginalColumn: 2})

	composed, err := Compose(tg.Map(), componentMap(), "components/App.html")
	require.NoError(t, err)

	mappings, err := composed.Decode()
	require.NoError(t, err)
	require.Len(t, mappings, 3)
	assert.Equal(t, Mapping{GeneratedLine: 1, GeneratedColumn: 0, Source: "components/App.html", OriginalLine: 2, OriginalColumn: 0}, mappings[0])
	assert.Equal(t, Mapping{GeneratedLine: 1, GeneratedColumn: 4, Source: "components/App.html", OriginalLine: 2, OriginalColumn: 6}, mappings[1])
	assert.Equal(t, Mapping{GeneratedLine: 2, GeneratedColumn: 0, Source: "components/App.html", OriginalLine: 2, OriginalColumn: 0}, mappings[2])
}

func TestComposeEmptyTranspiledMap(t *testing.T) {
	composed, err := Compose(&Map{Version: 3}, componentMap(), "components/App.html")
	require.NoError(t, err)
	assert.Equal(t, "", composed.Mappings)
	assert.Equal(t, 3, composed.Version)
}

func TestComposeRequiresSingleSource(t *testing.T) {
	g := NewGenerator("x.js")
	g.AddMapping(Mapping{GeneratedLine: 1, Source: "a.html", OriginalLine: 1})
	g.AddMapping(Mapping{GeneratedLine: 2, Source: "b.html", OriginalLine: 1})

	_, err := Compose(&Map{Version: 3}, g.Map(), "a.html")
	assert.ErrorIs(t, err, ErrNotSingleSource)

	_, err = Compose(&Map{Version: 3}, &Map{Version: 3}, "a.html")
	assert.ErrorIs(t, err, ErrNotSingleSource)

	_, err = Compose(&Map{Version: 3}, nil, "a.html")
	assert.ErrorIs(t, err, ErrNotSingleSource)
}

func TestComposeRequiresExpectedSource(t *testing.T) {
	tg := NewGenerator("App.js")
	tg.AddMapping(Mapping{GeneratedLine: 1, Source: "components/App.html", OriginalLine: 5})

	_, err := Compose(tg.Map(), componentMap(), "App.html")
	assert.ErrorIs(t, err, ErrSourceMismatch)
	assert.NotErrorIs(t, err, ErrNotSingleSource)

	rooted := componentMap()
	rooted.SourceRoot = "components"
	rooted.Sources = []string{"App.html"}
	_, err = Compose(tg.Map(), rooted, "components/App.html")
	assert.NoError(t, err)
}

func TestNotSingleSourceIsSourceMismatch(t *testing.T) {
	assert.ErrorIs(t, ErrNotSingleSource, ErrSourceMismatch)
}
