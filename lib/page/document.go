// Package page assembles the markup sections of non-component files into the
// host HTML document.
package page

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/arggh/svcomp"
)

// Document returns a templ component rendering a full HTML document. Head
// and body sections are concatenated in input order; their markup is written
// as is.
//
//	err := page.Document(sections).Render(ctx, w)
func Document(sections []svcomp.MarkupSection) templ.Component {
	var head, body []string
	for _, s := range sections {
		switch s.Kind {
		case svcomp.SectionHead:
			head = append(head, s.Content)
		case svcomp.SectionBody:
			body = append(body, s.Content)
		}
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
		writeJoined(&sb, head)
		sb.WriteString("</head>\n<body>\n")
		writeJoined(&sb, body)
		sb.WriteString("</body>\n</html>\n")
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func writeJoined(sb *strings.Builder, parts []string) {
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
}
