// Package sections discovers the named, tag-delimited regions of a document.
//
// Reconciliation only consumes the Parser interface; TagParser is the reference
// implementation used by the CLI.
package sections

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/anchora/internal/model"
)

// Parser returns the non-overlapping sections of a document, in document order
type Parser interface {
	ParseSections(document string) []model.Section
}

// ParserFunc adapts a function to Parser
type ParserFunc func(document string) []model.Section

// ParseSections implements Parser
func (f ParserFunc) ParseSections(document string) []model.Section {
	return f(document)
}

// Static serves a precomputed section list regardless of the document
type Static []model.Section

// ParseSections implements Parser
func (s Static) ParseSections(string) []model.Section {
	out := make([]model.Section, len(s))
	copy(out, s)
	return out
}

// humanize turns a tag name such as "greeting_rules" into "Greeting Rules"
func humanize(tag string) string {
	words := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ':'
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
