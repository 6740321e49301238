// Package location turns free-form placement instructions such as
// `at the end of "Tone"` into an anchor phrase and a direction.
package location

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/anchora/internal/model"
)

// Location is a parsed placement instruction
type Location struct {
	Anchor    string          `json:"anchor"`
	Direction model.Direction `json:"direction"`
}

// Rule maps a directional prefix to a direction. Pattern must capture the remainder
// of the description in its first group.
type Rule struct {
	Pattern   *regexp.Regexp
	Direction model.Direction
}

// PrefixRule builds a case-insensitive rule matching any of phrases at the start of a
// description. Words inside a phrase match across any whitespace.
func PrefixRule(direction model.Direction, phrases ...string) Rule {
	alternatives := make([]string, len(phrases))
	for i, phrase := range phrases {
		words := strings.Fields(phrase)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		alternatives[i] = strings.Join(words, `\s+`)
	}
	return Rule{
		Pattern:   regexp.MustCompile(`(?is)^(?:` + strings.Join(alternatives, "|") + `)\s+(.*)$`),
		Direction: direction,
	}
}

// English returns the English prefix table, most specific first
func English() []Rule {
	return []Rule{
		PrefixRule(model.DirectionEndOfSection, "at the end of"),
		PrefixRule(model.DirectionStartOfSection,
			"at the start of", "at the beginning of", "from the start of", "from the beginning of"),
		PrefixRule(model.DirectionAfter, "after", "below"),
		PrefixRule(model.DirectionBefore, "before", "above"),
		PrefixRule(model.DirectionEndOfSection, "inside", "within"),
	}
}

// Spanish returns the Spanish prefix table, most specific first
func Spanish() []Rule {
	return []Rule{
		PrefixRule(model.DirectionEndOfSection, "al final de"),
		PrefixRule(model.DirectionStartOfSection, "al principio de", "al inicio de", "al comienzo de"),
		PrefixRule(model.DirectionAfter, "después de", "despues de", "debajo de"),
		PrefixRule(model.DirectionBefore, "antes de", "encima de"),
		PrefixRule(model.DirectionEndOfSection, "dentro de"),
	}
}

// Parser applies an ordered rule table; the first matching rule wins
type Parser struct {
	rules []Rule
}

// NewParser creates a parser over rules in priority order
func NewParser(rules ...Rule) *Parser {
	return &Parser{rules: rules}
}

// Default returns a parser with the English and Spanish tables
func Default() *Parser {
	return NewParser(append(English(), Spanish()...)...)
}

// Parse splits description into anchor and direction.
// Descriptions without a recognized prefix default to DirectionAfter.
func (p *Parser) Parse(description string) Location {
	text := strings.TrimSpace(description)
	direction := model.DirectionAfter

	for _, rule := range p.rules {
		if m := rule.Pattern.FindStringSubmatch(text); m != nil {
			text = m[1]
			direction = rule.Direction
			break
		}
	}

	return Location{
		Anchor:    unquote(strings.TrimSpace(text)),
		Direction: direction,
	}
}

// Parse uses the default parser
func Parse(description string) Location {
	return defaultParser.Parse(description)
}

var defaultParser = Default()

var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'`':  '`',
	'“':  '”',
	'‘':  '’',
	'«':  '»',
	'„':  '“',
}

// unquote removes one layer of matching surrounding quotes
func unquote(s string) string {
	open, openSize := utf8.DecodeRuneInString(s)
	closing, closeSize := utf8.DecodeLastRuneInString(s)
	if len(s) < openSize+closeSize {
		return s
	}
	if want, ok := quotePairs[open]; ok && want == closing {
		return strings.TrimSpace(s[openSize : len(s)-closeSize])
	}
	return s
}
