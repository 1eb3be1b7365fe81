package sourcemap

import "fmt"

// Compose chains two maps. transpiled maps final code to intermediate code,
// generated maps intermediate code to the original file; the result maps
// final code directly to the original file.
//
// Every transpiled mapping that carries a source is resolved through
// generated. Mappings whose intermediate position has no original location
// are dropped rather than approximated. The output keeps the entry order of
// transpiled and embeds the original text from generated.
//
// generated's only source must be source; anything else is
// ErrSourceMismatch.
func Compose(transpiled, generated *Map, source string) (*Map, error) {
	if generated == nil || len(generated.Sources) != 1 {
		n := 0
		if generated != nil {
			n = len(generated.Sources)
		}
		return nil, fmt.Errorf("%w: got %d", ErrNotSingleSource, n)
	}
	if got := generated.SourceAt(0); got != source {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrSourceMismatch, got, source)
	}

	tc, err := NewConsumer(transpiled)
	if err != nil {
		return nil, fmt.Errorf("transpiled map: %w", err)
	}
	gc, err := NewConsumer(generated)
	if err != nil {
		return nil, fmt.Errorf("generated map: %w", err)
	}

	file := ""
	if transpiled != nil {
		file = transpiled.File
	}
	out := NewGenerator(file)

	tc.EachMapping(func(m Mapping) {
		if m.Source == "" {
			return
		}
		pos, ok := gc.OriginalPositionFor(m.OriginalLine, m.OriginalColumn)
		if !ok {
			return
		}
		out.AddMapping(Mapping{
			GeneratedLine:   m.GeneratedLine,
			GeneratedColumn: m.GeneratedColumn,
			Source:          pos.Source,
			OriginalLine:    pos.Line,
			OriginalColumn:  pos.Column,
		})
	})

	var content string
	if len(generated.SourcesContent) > 0 {
		content = generated.SourcesContent[0]
	}
	out.SetSourceContent(generated.SourceAt(0), content)

	return out.Map(), nil
}
