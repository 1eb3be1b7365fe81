package sourcemap

import (
	"sort"
	"strings"
)

// Generator accumulates mappings and source contents and builds a Map.
type Generator struct {
	file     string
	mappings []Mapping
	sources  []string
	srcIndex map[string]int
	contents map[string]string
	names    []string
	nameIdx  map[string]int
}

// NewGenerator returns a generator for a map describing file.
func NewGenerator(file string) *Generator {
	return &Generator{
		file:     file,
		srcIndex: make(map[string]int),
		contents: make(map[string]string),
		nameIdx:  make(map[string]int),
	}
}

// AddMapping records m. Mappings with a source register that source.
func (g *Generator) AddMapping(m Mapping) {
	if m.Source != "" {
		g.addSource(m.Source)
		if m.Name != "" {
			g.addName(m.Name)
		}
	}
	g.mappings = append(g.mappings, m)
}

// SetSourceContent embeds the text of source, registering the source if no
// mapping referenced it yet.
func (g *Generator) SetSourceContent(source, content string) {
	g.addSource(source)
	g.contents[source] = content
}

// Mappings returns the recorded mappings in insertion order.
func (g *Generator) Mappings() []Mapping {
	out := make([]Mapping, len(g.mappings))
	copy(out, g.mappings)
	return out
}

// Map serializes the recorded state.
func (g *Generator) Map() *Map {
	m := &Map{
		Version:  3,
		File:     g.file,
		Sources:  append([]string{}, g.sources...),
		Names:    append([]string{}, g.names...),
		Mappings: g.encode(),
	}
	if len(g.contents) > 0 {
		m.SourcesContent = make([]string, len(g.sources))
		for i, src := range g.sources {
			m.SourcesContent[i] = g.contents[src]
		}
	}
	return m
}

func (g *Generator) addSource(src string) {
	if _, ok := g.srcIndex[src]; ok {
		return
	}
	g.srcIndex[src] = len(g.sources)
	g.sources = append(g.sources, src)
}

func (g *Generator) addName(name string) {
	if _, ok := g.nameIdx[name]; ok {
		return
	}
	g.nameIdx[name] = len(g.names)
	g.names = append(g.names, name)
}

// encode writes the mappings field. Segments must be emitted in generated
// order, so a stably sorted copy is encoded; insertion order is untouched.
func (g *Generator) encode() string {
	sorted := g.Mappings()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GeneratedLine != sorted[j].GeneratedLine {
			return sorted[i].GeneratedLine < sorted[j].GeneratedLine
		}
		return sorted[i].GeneratedColumn < sorted[j].GeneratedColumn
	})

	var (
		b        strings.Builder
		line     = 1
		prevCol  int
		prevSrc  int
		prevOLn  int
		prevOCol int
		prevName int
		first    = true
	)
	for _, m := range sorted {
		for line < m.GeneratedLine {
			b.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false

		encodeVLQ(&b, m.GeneratedColumn-prevCol)
		prevCol = m.GeneratedColumn
		if m.Source == "" {
			continue
		}

		src := g.srcIndex[m.Source]
		encodeVLQ(&b, src-prevSrc)
		prevSrc = src
		encodeVLQ(&b, m.OriginalLine-1-prevOLn)
		prevOLn = m.OriginalLine - 1
		encodeVLQ(&b, m.OriginalColumn-prevOCol)
		prevOCol = m.OriginalColumn
		if m.Name != "" {
			name := g.nameIdx[m.Name]
			encodeVLQ(&b, name-prevName)
			prevName = name
		}
	}
	return b.String()
}
