package sections

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/anchora/internal/model"
)

// voidElements never have a closing tag
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

// TagParser treats every top-level element of a prompt-style document as a section:
//
//	<tone title="Tone">Be warm.</tone>
//
// The section span covers the element content, excluding its tags. Nested elements belong
// to their top-level ancestor. Elements left unclosed at the end of the document are ignored.
type TagParser struct{}

// NewTagParser creates a tag parser
func NewTagParser() *TagParser {
	return &TagParser{}
}

type openElement struct {
	name         string
	attrs        map[string]string
	contentStart int
}

// ParseSections implements Parser
func (p *TagParser) ParseSections(document string) []model.Section {
	var sections []model.Section
	var stack []openElement

	z := html.NewTokenizer(strings.NewReader(document))
	pos := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		tokenStart := pos
		pos += len(raw)

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			el := openElement{name: tag, contentStart: pos}
			if len(stack) == 0 {
				el.attrs = readAttrs(z, hasAttr)
			}
			stack = append(stack, el)

		case html.EndTagToken:
			name, _ := z.TagName()
			idx := lastOpen(stack, string(name))
			if idx < 0 {
				continue
			}
			if idx == 0 {
				top := stack[0]
				sections = append(sections, newSection(document, top, tokenStart, len(sections)+1))
			}
			stack = stack[:idx]
		}
	}

	return sections
}

func newSection(document string, el openElement, contentEnd, ordinal int) model.Section {
	id := el.attrs["id"]
	if id == "" {
		id = fmt.Sprintf("section-%d", ordinal)
	}
	title := el.attrs["title"]
	if title == "" {
		title = el.attrs["name"]
	}
	if title == "" {
		title = humanize(el.name)
	}

	return model.Section{
		ID:         id,
		Title:      title,
		TagName:    el.name,
		StartIndex: el.contentStart,
		EndIndex:   contentEnd,
		Content:    document[el.contentStart:contentEnd],
	}
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	attrs := make(map[string]string)
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

// lastOpen returns the index of the innermost open element called name, or -1
func lastOpen(stack []openElement, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}
