package overlap

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/anchora/internal/model"
)

func sections() []model.Section {
	return []model.Section{
		{ID: "intro", Title: "Intro", StartIndex: 0, EndIndex: 10},
		{ID: "rules", Title: "Rules", StartIndex: 10, EndIndex: 30},
		{ID: "tone", Title: "Tone", StartIndex: 40, EndIndex: 50},
	}
}

func ids(suggestions []model.Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.ID
	}
	return out
}

func TestMapSuggestionsToSections(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: "a", StartIndex: 2, EndIndex: 5, Severity: model.SeverityLow},
		{ID: "b", StartIndex: 8, EndIndex: 12, Severity: model.SeverityHigh},
		{ID: "c", StartIndex: 10, EndIndex: 11, Severity: model.SeverityMedium},
		{ID: "d", StartIndex: 30, EndIndex: 40, Severity: model.SeverityCritical},
		{ID: "e", StartIndex: 45, EndIndex: 60, Severity: model.SeverityMedium},
	}

	groups := MapSuggestionsToSections(suggestions, sections())
	require.Len(t, groups, 3)

	assert.Equal(t, "intro", groups[0].Section.ID)
	assert.Equal(t, []string{"a", "b"}, ids(groups[0].Suggestions))
	assert.Equal(t, model.SeverityHigh, groups[0].HighestSeverity)

	assert.Equal(t, []string{"b", "c"}, ids(groups[1].Suggestions))
	assert.Equal(t, model.SeverityHigh, groups[1].HighestSeverity)

	assert.Equal(t, []string{"e"}, ids(groups[2].Suggestions))
	assert.Equal(t, model.SeverityMedium, groups[2].HighestSeverity)

	unmapped := GetUnmappedSuggestions(suggestions, sections())
	assert.Equal(t, []string{"d"}, ids(unmapped))
}

func TestMapSuggestionsToSections_TouchingBoundariesDoNotOverlap(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: "before", StartIndex: 5, EndIndex: 10, Severity: model.SeverityLow},
	}
	secs := []model.Section{{ID: "s", StartIndex: 10, EndIndex: 20}}

	groups := MapSuggestionsToSections(suggestions, secs)
	assert.Empty(t, groups[0].Suggestions)
	assert.Equal(t, model.SeverityNone, groups[0].HighestSeverity)
	assert.Equal(t, []string{"before"}, ids(GetUnmappedSuggestions(suggestions, secs)))
}

func TestMapSuggestionsToSections_NoSections(t *testing.T) {
	suggestions := []model.Suggestion{{ID: "a", StartIndex: 0, EndIndex: 3}}

	assert.Empty(t, MapSuggestionsToSections(suggestions, nil))
	assert.Equal(t, []string{"a"}, ids(GetUnmappedSuggestions(suggestions, nil)))
}

func TestGetUnmappedSuggestions_Empty(t *testing.T) {
	unmapped := GetUnmappedSuggestions(nil, sections())
	assert.NotNil(t, unmapped)
	assert.Empty(t, unmapped)
}

func TestHighestSeverity(t *testing.T) {
	assert.Equal(t, model.SeverityNone, HighestSeverity(nil))
	assert.Equal(t, model.SeverityCritical, HighestSeverity([]model.Suggestion{
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityLow},
	}))
}

// Every suggestion is either in at least one group or unmapped, never both.
func TestMappedAndUnmappedPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	levels := []model.Severity{model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical}

	for round := 0; round < 50; round++ {
		var secs []model.Section
		pos := 0
		n := rng.Intn(5)
		for i := 0; i < n; i++ {
			start := pos + rng.Intn(10)
			end := start + 1 + rng.Intn(20)
			secs = append(secs, model.Section{ID: fmt.Sprintf("s%d", i), StartIndex: start, EndIndex: end})
			pos = end
		}

		var suggestions []model.Suggestion
		for i := 0; i < 20; i++ {
			start := rng.Intn(pos + 10)
			suggestions = append(suggestions, model.Suggestion{
				ID:         fmt.Sprintf("g%d", i),
				StartIndex: start,
				EndIndex:   start + 1 + rng.Intn(15),
				Severity:   levels[rng.Intn(len(levels))],
			})
		}

		mapped := make(map[string]bool)
		for _, g := range MapSuggestionsToSections(suggestions, secs) {
			for _, s := range g.Suggestions {
				mapped[s.ID] = true
			}
			assert.Equal(t, HighestSeverity(g.Suggestions), g.HighestSeverity)
		}
		unmapped := make(map[string]bool)
		for _, s := range GetUnmappedSuggestions(suggestions, secs) {
			assert.False(t, unmapped[s.ID], "duplicate unmapped %s", s.ID)
			unmapped[s.ID] = true
		}

		for _, s := range suggestions {
			assert.NotEqual(t, mapped[s.ID], unmapped[s.ID], "round %d suggestion %s", round, s.ID)
		}
	}
}
