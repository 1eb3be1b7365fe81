package sourcemap

import "sort"

// Consumer answers position queries against a decoded map.
type Consumer struct {
	mappings []Mapping
	sorted   []Mapping
}

// NewConsumer decodes m. A nil map yields a consumer with no mappings.
func NewConsumer(m *Map) (*Consumer, error) {
	mappings, err := m.Decode()
	if err != nil {
		return nil, err
	}
	sorted := make([]Mapping, len(mappings))
	copy(sorted, mappings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GeneratedLine != sorted[j].GeneratedLine {
			return sorted[i].GeneratedLine < sorted[j].GeneratedLine
		}
		return sorted[i].GeneratedColumn < sorted[j].GeneratedColumn
	})
	return &Consumer{mappings: mappings, sorted: sorted}, nil
}

// EachMapping calls fn for every mapping in the order they were encoded.
func (c *Consumer) EachMapping(fn func(Mapping)) {
	for _, m := range c.mappings {
		fn(m)
	}
}

// Len returns the number of mappings.
func (c *Consumer) Len() int {
	return len(c.mappings)
}

// OriginalPositionFor finds the mapping closest to the left of the generated
// position on the same line. ok is false when the line has no such mapping
// or when that mapping has no original source.
func (c *Consumer) OriginalPositionFor(line, column int) (Position, bool) {
	idx := sort.Search(len(c.sorted), func(i int) bool {
		m := c.sorted[i]
		if m.GeneratedLine != line {
			return m.GeneratedLine > line
		}
		return m.GeneratedColumn > column
	}) - 1
	if idx < 0 {
		return Position{}, false
	}
	m := c.sorted[idx]
	if m.GeneratedLine != line || m.Source == "" {
		return Position{}, false
	}
	return Position{
		Source: m.Source,
		Line:   m.OriginalLine,
		Column: m.OriginalColumn,
		Name:   m.Name,
	}, true
}
