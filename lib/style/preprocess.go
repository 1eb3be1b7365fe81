// Package style rewrites the <style> blocks of component sources through a
// configurable chain of CSS plugins before the component compiler sees them.
package style

import (
	"context"
	"regexp"
	"strings"
)

var (
	styleBlock = regexp.MustCompile(`(?is)<style(\s[^>]*)?>(.*?)</style\s*>`)
	attrPair   = regexp.MustCompile(`([\w:-]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+)))?`)
)

// Block is the content of one <style> element.
type Block struct {
	Content    string
	Attributes map[string]string
}

// TransformFunc rewrites the content of a style block.
type TransformFunc func(ctx context.Context, b Block) (string, error)

// HasStyle reports whether source contains a style block.
func HasStyle(source string) bool {
	return styleBlock.MatchString(source)
}

// Preprocess replaces the content of every style block in source with the
// output of transform, leaving tags, attributes and all other text intact.
// Blocks are transformed in document order; the first error aborts.
func Preprocess(ctx context.Context, source string, transform TransformFunc) (string, error) {
	matches := styleBlock.FindAllStringSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return source, nil
	}

	var b strings.Builder
	b.Grow(len(source))
	last := 0
	for _, m := range matches {
		contentStart, contentEnd := m[4], m[5]

		var attrs string
		if m[2] >= 0 {
			attrs = source[m[2]:m[3]]
		}

		code, err := transform(ctx, Block{
			Content:    source[contentStart:contentEnd],
			Attributes: parseAttributes(attrs),
		})
		if err != nil {
			return "", err
		}

		b.WriteString(source[last:contentStart])
		b.WriteString(code)
		last = contentEnd
	}
	b.WriteString(source[last:])
	return b.String(), nil
}

func parseAttributes(s string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrPair.FindAllStringSubmatch(s, -1) {
		attrs[strings.ToLower(m[1])] = m[2] + m[3] + m[4]
	}
	return attrs
}
