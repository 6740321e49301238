package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"users", "user", 1},
		{"same", "same", 0},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, EditDistance([]rune(tt.a), []rune(tt.b)))
			assert.Equal(t, tt.expected, EditDistance([]rune(tt.b), []rune(tt.a)), "distance must be symmetric")
		})
	}
}

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"", "a", "Greet the user warmly.", "żółć 日本語"} {
		assert.Equal(t, 1.0, Similarity(s, s), "similarity(%q, itself)", s)
	}
}

func TestSimilarity_EmptyAgainstNonEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "x"))
	assert.Equal(t, 0.0, Similarity("hello", ""))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarity_Ratio(t *testing.T) {
	// one substitution over ten runes
	assert.InDelta(t, 0.9, Similarity("abcdefghij", "abcdefghiX"), 1e-9)
	// kitten/sitting: 3 edits over 7
	assert.InDelta(t, 1.0-3.0/7.0, Similarity("kitten", "sitting"), 1e-9)
}

func TestSimilarity_CountsRunesNotBytes(t *testing.T) {
	// "é" is two bytes but a single substitution
	assert.InDelta(t, 0.75, Similarity("café", "cafe"), 1e-9)
}

func TestSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{{"abc", "xyz"}, {"a", "abcdef"}, {"Tone", "tone"}}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
