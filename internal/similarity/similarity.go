// Package similarity implements the edit-distance ratio used to score fuzzy matches.
package similarity

// EditDistance returns the Levenshtein distance between a and b: the minimum number of
// single-rune insertions, deletions and substitutions turning one into the other.
func EditDistance(a, b []rune) int {
	// Keep the row over the shorter input
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Ratio returns 1 - EditDistance(a, b) / max(len(a), len(b)). Two empty inputs are identical.
func Ratio(a, b []rune) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(EditDistance(a, b))/float64(longest)
}

// Similarity is Ratio over the codepoints of two strings
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return Ratio([]rune(a), []rune(b))
}
