package locate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/similarity"
)

const greetingDoc = "Greet the user warmly.\n\nAsk for their name."

func assertSpanValid(t *testing.T, doc string, m model.MatchResult) {
	t.Helper()
	require.NoError(t, m.Span.Validate(len(doc)))
	assert.Equal(t, doc[m.Span.StartIndex:m.Span.EndIndex], m.MatchedText)
}

func TestLocate_Exact(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		query string
		start int
	}{
		{"first sentence", greetingDoc, "Greet the user warmly.", 0},
		{"second sentence", greetingDoc, "Ask for their name.", 24},
		{"middle fragment", greetingDoc, "the user", 6},
		{"multibyte", "Saludo: después de la regla", "después", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Locate(tt.doc, tt.query, DefaultOptions())
			require.True(t, m.Found)
			assert.Equal(t, model.StrategyExact, m.Strategy)
			assert.Equal(t, 1.0, m.Confidence)
			assert.Equal(t, tt.start, m.Span.StartIndex)
			assert.Equal(t, tt.query, tt.doc[m.Span.StartIndex:m.Span.EndIndex])
			assertSpanValid(t, tt.doc, m)
		})
	}
}

func TestLocate_ExactOnTrimmedQuery(t *testing.T) {
	m := Locate(greetingDoc, "  Ask for their name.\n", DefaultOptions())

	require.True(t, m.Found)
	assert.Equal(t, model.StrategyExact, m.Strategy)
	assert.Equal(t, "Ask for their name.", m.MatchedText)
}

func TestLocate_Normalized(t *testing.T) {
	doc := "Rules:\n  Greet the\n\tuser   warmly.\nThen stop."

	m := Locate(doc, "Greet the user warmly.", Options{EnableFuzzy: false})

	require.True(t, m.Found)
	assert.Equal(t, model.StrategyNormalized, m.Strategy)
	assert.Equal(t, 0.95, m.Confidence)
	assert.Equal(t, "Greet the\n\tuser   warmly.", m.MatchedText)
	assert.Equal(t, strings.Index(doc, "Greet"), m.Span.StartIndex)
	assertSpanValid(t, doc, m)
}

func TestLocate_NormalizedQueryHasExtraWhitespace(t *testing.T) {
	m := Locate(greetingDoc, "Greet   the\nuser warmly.", DefaultOptions())

	require.True(t, m.Found)
	assert.Equal(t, model.StrategyNormalized, m.Strategy)
	assert.Equal(t, "Greet the user warmly.", m.MatchedText)
}

func TestLocate_NormalizedHandlesRegexMetacharacters(t *testing.T) {
	doc := "Price: $5.00 (approx.)   [see *notes*]"

	m := Locate(doc, "$5.00 (approx.) [see *notes*]", DefaultOptions())

	require.True(t, m.Found)
	assert.Equal(t, model.StrategyNormalized, m.Strategy)
	assert.Equal(t, "$5.00 (approx.)   [see *notes*]", m.MatchedText)
}

func TestLocate_NormalizedRequiresWhitespaceInDocument(t *testing.T) {
	m := Locate("abcdef", "abc def", Options{EnableFuzzy: false})
	assert.False(t, m.Found)
}

func TestLocate_Fuzzy(t *testing.T) {
	query := "Greet the users warmly"

	m := Locate(greetingDoc, query, ValidationOptions())

	require.True(t, m.Found)
	assert.Equal(t, model.StrategyFuzzy, m.Strategy)
	assert.Equal(t, "Greet the user warmly", m.MatchedText)
	assert.InDelta(t, similarity.Similarity(query, m.MatchedText), m.Confidence, 1e-9)
	assert.InDelta(t, 1.0-1.0/22.0, m.Confidence, 1e-9)
	assertSpanValid(t, greetingDoc, m)
}

func TestLocate_FuzzyMultibyteOffsets(t *testing.T) {
	doc := "Intro — «Saluda al usuario con calidez» — fin"
	query := "Saluda al usuarío con calidez"

	m := Locate(doc, query, DefaultOptions())

	require.True(t, m.Found)
	assert.Equal(t, model.StrategyFuzzy, m.Strategy)
	assert.Equal(t, "Saluda al usuario con calidez", m.MatchedText)
	assertSpanValid(t, doc, m)
}

func TestLocate_FuzzyDisabled(t *testing.T) {
	m := Locate(greetingDoc, "Greet the users warmly", Options{EnableFuzzy: false})
	assert.False(t, m.Found)
	assert.Equal(t, 0.0, m.Confidence)
}

func TestLocate_FuzzyBelowThreshold(t *testing.T) {
	m := Locate(greetingDoc, "Greet the users warmly", Options{EnableFuzzy: true, FuzzyThreshold: 0.99})
	assert.False(t, m.Found)
}

func TestLocate_FuzzySkippedForLargeDocuments(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFuzzyRunes = 10
	m := Locate(greetingDoc, "Greet the users warmly", opts)
	assert.False(t, m.Found)
}

func TestLocate_NoOverlap(t *testing.T) {
	for _, query := range []string{"zzzz qqqq xxxx", "Completely unrelated instruction text"} {
		m := Locate(greetingDoc, query, DefaultOptions())
		assert.False(t, m.Found, query)
		assert.Equal(t, 0.0, m.Confidence)
		assert.Equal(t, model.StrategyNone, m.Strategy)
	}
}

func TestLocate_EmptyInputs(t *testing.T) {
	assert.False(t, Locate(greetingDoc, "", DefaultOptions()).Found)
	assert.False(t, Locate(greetingDoc, " \n\t", DefaultOptions()).Found)
	assert.False(t, Locate("", "Greet", DefaultOptions()).Found)
}

func TestLocate_QueryLongerThanDocument(t *testing.T) {
	m := Locate("short", "this query is much longer than the document", DefaultOptions())
	assert.False(t, m.Found)
}

func TestLocate_CheapestStrategyWins(t *testing.T) {
	// The normalized hit is returned even though a fuzzy pass could also score it
	doc := "alpha  beta gamma"
	m := Locate(doc, "alpha beta gamma", DefaultOptions())
	assert.Equal(t, model.StrategyNormalized, m.Strategy)
}

func TestMatcher_Locate(t *testing.T) {
	m := NewMatcher(nil).Locate(greetingDoc, "Ask for their name.", DefaultOptions())
	assert.True(t, m.Found)
	assert.Equal(t, model.StrategyExact, m.Strategy)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(model.LocateConfig{EnableFuzzy: true, FuzzyThreshold: 0.7, MaxFuzzyRunes: 5})
	assert.Equal(t, Options{EnableFuzzy: true, FuzzyThreshold: 0.7, MaxFuzzyRunes: 5}, opts)
}

func BenchmarkLocate_Fuzzy(b *testing.B) {
	doc := strings.Repeat("Keep answers short and friendly. ", 40) + greetingDoc
	for i := 0; i < b.N; i++ {
		Locate(doc, "Greet the users warmly", ValidationOptions())
	}
}
