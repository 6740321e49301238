package locate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/anchora/internal/model"
)

// findExact tries the raw query, then the trimmed one
func findExact(document, query, trimmed string) (model.MatchResult, bool) {
	candidates := []string{query}
	if trimmed != query {
		candidates = append(candidates, trimmed)
	}
	for _, q := range candidates {
		if idx := strings.Index(document, q); idx >= 0 {
			return newMatch(document, idx, idx+len(q), model.StrategyExact, model.ConfidenceExact), true
		}
	}
	return model.MatchResult{}, false
}

// findNormalized walks the document and the trimmed query in parallel. A whitespace run in
// the query matches one or more whitespace runes in the document; everything else must be equal.
// This is equivalent to collapsing whitespace in both strings and searching, but yields offsets
// into the original document.
func findNormalized(document, trimmed string) (model.MatchResult, bool) {
	if strings.IndexFunc(trimmed, unicode.IsSpace) < 0 {
		// Without whitespace this degenerates to the exact search that already failed
		return model.MatchResult{}, false
	}

	first, _ := utf8.DecodeRuneInString(trimmed)
	for i := 0; i < len(document); {
		r, size := utf8.DecodeRuneInString(document[i:])
		if r == first {
			if end, ok := matchCollapsed(document, i, trimmed); ok {
				return newMatch(document, i, end, model.StrategyNormalized, model.ConfidenceNormalized), true
			}
		}
		i += size
	}

	return model.MatchResult{}, false
}

// matchCollapsed reports where query ends when matched at document[start:]
func matchCollapsed(document string, start int, query string) (int, bool) {
	di, qi := start, 0
	for qi < len(query) {
		qr, qsize := utf8.DecodeRuneInString(query[qi:])

		if unicode.IsSpace(qr) {
			qi = skipSpace(query, qi)
			next := skipSpace(document, di)
			if next == di {
				return 0, false
			}
			di = next
			continue
		}

		if di >= len(document) {
			return 0, false
		}
		dr, dsize := utf8.DecodeRuneInString(document[di:])
		if dr != qr {
			return 0, false
		}
		di += dsize
		qi += qsize
	}
	return di, true
}

// skipSpace returns the index of the first non-whitespace rune at or after i
func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
