// Package classify decides whether an HTML file is a component or a plain
// page fragment contributing <head> and <body> markup.
package classify

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Section is the inner markup of one top-level head or body element.
type Section struct {
	Name    string // "head" or "body"
	Content string
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

var (
	pTag      = set("p")
	formTags  = set("input", "option", "optgroup", "select", "button", "datalist", "textarea")
	ddtTags   = set("dd", "dt")
	rtpTags   = set("rt", "rp")
	tableTags = set("thead", "tbody")
)

// openImpliesClose lists, per start tag, the open elements it closes while
// they are the innermost open element.
var openImpliesClose = map[string]map[string]bool{
	"tr":       set("tr", "th", "td"),
	"th":       set("th"),
	"td":       set("thead", "th", "td"),
	"body":     set("head", "link", "script"),
	"li":       set("li"),
	"option":   set("option"),
	"optgroup": set("optgroup", "option"),
	"dd":       ddtTags,
	"dt":       ddtTags,
	"rt":       rtpTags,
	"rp":       rtpTags,
	"tbody":    tableTags,
	"tfoot":    tableTags,
}

func init() {
	for _, tag := range []string{"select", "input", "output", "button", "datalist", "textarea"} {
		openImpliesClose[tag] = formTags
	}
	for _, tag := range []string{
		"p", "h1", "h2", "h3", "h4", "h5", "h6",
		"address", "article", "aside", "blockquote", "details", "div", "dl",
		"fieldset", "figcaption", "figure", "footer", "form", "header", "hr",
		"main", "nav", "ol", "pre", "section", "table", "ul",
	} {
		openImpliesClose[tag] = pTag
	}
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Classify scans the top level of raw and returns its head and body sections
// in document order. component is true when there are none, in which case
// the file must be compiled as a component. Elements nested in other elements
// never count, and no implied html/head/body elements are synthesized.
//
// Open elements are tracked by name. An end tag closes the nearest open
// element of the same name along with everything opened inside it; an end
// tag matching no open element is ignored. Start tags close elements the way
// HTML implies (<li> closes an open <li>, <body> closes an open <head>).
func Classify(raw string) (sections []Section, component bool, err error) {
	z := html.NewTokenizer(strings.NewReader(raw))

	var (
		stack   []string // open elements; stack[0] is the section when one is open
		current string
		inner   strings.Builder
	)
	finish := func() {
		sections = append(sections, Section{Name: current, Content: strings.TrimSpace(inner.String())})
		current = ""
		inner.Reset()
	}
	// pop closes the innermost open element, finishing the section when it
	// was the section element.
	pop := func() {
		stack = stack[:len(stack)-1]
		if len(stack) == 0 && current != "" {
			finish()
		}
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				break
			}
			return nil, false, z.Err()
		}
		raw := z.Raw()

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if closes, ok := openImpliesClose[tag]; ok {
				for len(stack) > 0 && closes[stack[len(stack)-1]] {
					pop()
				}
			}
			if len(stack) == 0 && isSectionTag(tag) {
				current = tag
				stack = append(stack, tag)
				continue
			}
			if current != "" {
				inner.Write(raw)
			}
			if !voidElements[tag] {
				stack = append(stack, tag)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			i := lastIndex(stack, tag)
			if i == 0 && current != "" {
				// Closing the section drops everything still open inside it.
				stack = stack[:1]
				pop()
				continue
			}
			if current != "" {
				inner.Write(raw)
			}
			if i >= 0 {
				stack = stack[:i]
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 && isSectionTag(string(name)) {
				current = string(name)
				finish()
				continue
			}
			if current != "" {
				inner.Write(raw)
			}

		default:
			if current != "" {
				inner.Write(raw)
			}
		}
	}

	if current != "" {
		finish()
	}
	return sections, len(sections) == 0, nil
}

func lastIndex(stack []string, tag string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return i
		}
	}
	return -1
}

func isSectionTag(tag string) bool {
	return tag == "head" || tag == "body"
}
