package locate

import (
	"github.com/ppiankov/anchora/internal/model"
)

// Window lengths are 80%-120% of the query length
const (
	minWindowPercent = 80
	maxWindowPercent = 120
)

// findFuzzy slides windows of every admissible length over the document and keeps the most
// similar one scoring at least opts.FuzzyThreshold. Ties keep the earliest start, then the
// shortest window.
//
// Work happens on rune slices and one edit-distance table per start offset: row L of the table
// holds the distance between the query and the window of length L, so every window length of a
// start is scored in a single pass without allocating substrings.
func findFuzzy(document, query string, opts Options) (model.MatchResult, bool) {
	q := []rune(query)
	doc, offsets := runesWithOffsets(document)

	m, n := len(q), len(doc)
	if opts.MaxFuzzyRunes > 0 && n > opts.MaxFuzzyRunes {
		return model.MatchResult{}, false
	}

	minLen := max(1, m*minWindowPercent/100)
	maxLen := (m*maxWindowPercent + 99) / 100
	if minLen > n {
		return model.MatchResult{}, false
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)

	best := -1.0
	bestStart, bestEnd := 0, 0

	for start := 0; start+minLen <= n; start++ {
		limit := min(maxLen, n-start)

		for j := range prev {
			prev[j] = j
		}
		for length := 1; length <= limit; length++ {
			dr := doc[start+length-1]
			curr[0] = length
			for j := 1; j <= m; j++ {
				cost := 1
				if q[j-1] == dr {
					cost = 0
				}
				curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			}
			prev, curr = curr, prev

			if length < minLen {
				continue
			}
			score := 1.0 - float64(prev[m])/float64(max(m, length))
			if score >= opts.FuzzyThreshold && score > best {
				best = score
				bestStart, bestEnd = start, start+length
			}
		}

		if best == 1.0 {
			break
		}
	}

	if best < 0 {
		return model.MatchResult{}, false
	}

	return newMatch(document, offsets[bestStart], offsets[bestEnd], model.StrategyFuzzy, best), true
}

// runesWithOffsets decodes s and returns, for every rune index i, the byte offset it starts at.
// offsets has one extra entry equal to len(s).
func runesWithOffsets(s string) ([]rune, []int) {
	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return runes, offsets
}
