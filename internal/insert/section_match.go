package insert

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/ppiankov/anchora/internal/model"
)

// minContainedRunes stops tiny names like "a" or "to" from matching everything
const minContainedRunes = 3

var (
	parentheticalRegex = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	nameReplacer       = strings.NewReplacer("<", "", ">", "", "/", "", "_", " ", "-", " ")
)

// normalizeName case-folds a section name or anchor and drops a trailing parenthetical
// such as "Tone (friendly)" -> "tone"
func normalizeName(s string) string {
	s = nameReplacer.Replace(s)
	s = parentheticalRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(cases.Fold().String(strings.Join(strings.Fields(s), " ")))
}

// namesMatch reports whether two normalized names are equal or one contains the other.
// Containment requires the contained name to have at least minContainedRunes runes.
func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if utf8.RuneCountInString(b) >= minContainedRunes && strings.Contains(a, b) {
		return true
	}
	if utf8.RuneCountInString(a) >= minContainedRunes && strings.Contains(b, a) {
		return true
	}
	return false
}

// FindSection returns the first section (in document order) whose title or tag name
// matches name
func FindSection(secs []model.Section, name string) (model.Section, bool) {
	target := normalizeName(name)
	if target == "" {
		return model.Section{}, false
	}

	for _, sec := range secs {
		if namesMatch(target, normalizeName(sec.Title)) || namesMatch(target, normalizeName(sec.TagName)) {
			return sec, true
		}
	}
	return model.Section{}, false
}
