// Package overlap assigns range-anchored suggestions to the document sections they touch.
package overlap

import "github.com/ppiankov/anchora/internal/model"

// MapSuggestionsToSections returns one group per section, in section order.
// A suggestion lands in every section its range overlaps, so it may appear in several groups.
func MapSuggestionsToSections(suggestions []model.Suggestion, sections []model.Section) []model.SectionSuggestions {
	groups := make([]model.SectionSuggestions, len(sections))

	for i, section := range sections {
		group := model.SectionSuggestions{
			Section:     section,
			Suggestions: []model.Suggestion{},
		}
		span := section.Span()
		for _, s := range suggestions {
			if s.Span().Overlaps(span) {
				group.Suggestions = append(group.Suggestions, s)
				group.HighestSeverity = model.MaxSeverity(group.HighestSeverity, s.Severity)
			}
		}
		groups[i] = group
	}

	return groups
}

// GetUnmappedSuggestions returns the suggestions that overlap no section, in input order
func GetUnmappedSuggestions(suggestions []model.Suggestion, sections []model.Section) []model.Suggestion {
	unmapped := []model.Suggestion{}

	for _, s := range suggestions {
		if !overlapsAny(s.Span(), sections) {
			unmapped = append(unmapped, s)
		}
	}

	return unmapped
}

// HighestSeverity returns the most severe level among suggestions, or none
func HighestSeverity(suggestions []model.Suggestion) model.Severity {
	highest := model.SeverityNone
	for _, s := range suggestions {
		highest = model.MaxSeverity(highest, s.Severity)
	}
	return highest
}

func overlapsAny(span model.Span, sections []model.Section) bool {
	for _, section := range sections {
		if span.Overlaps(section.Span()) {
			return true
		}
	}
	return false
}
