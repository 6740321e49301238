package model

import (
	"fmt"
	"strings"
)

// Severity is a closed, totally ordered scale: low < medium < high < critical
type Severity string

const (
	SeverityNone     Severity = ""
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the position of the severity on the scale (0 for none or unknown)
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is one of the defined levels
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// ParseSeverity maps free-form generator output onto the scale
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "minor", "info":
		return SeverityLow, nil
	case "medium", "moderate", "warning":
		return SeverityMedium, nil
	case "high", "major", "error":
		return SeverityHigh, nil
	case "critical", "blocker":
		return SeverityCritical, nil
	default:
		return SeverityNone, fmt.Errorf("unknown severity %q", raw)
	}
}

// MaxSeverity returns the higher of two severities
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Suggestion is an independently scored remark anchored to a document range
type Suggestion struct {
	ID         string   `json:"id" yaml:"id"`
	StartIndex int      `json:"start_index" yaml:"start_index"`
	EndIndex   int      `json:"end_index" yaml:"end_index"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Title      string   `json:"title,omitempty" yaml:"title,omitempty"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Span returns the suggestion range
func (s Suggestion) Span() Span {
	return Span{StartIndex: s.StartIndex, EndIndex: s.EndIndex}
}

// SectionSuggestions groups the suggestions that overlap one section
type SectionSuggestions struct {
	Section         Section      `json:"section"`
	Suggestions     []Suggestion `json:"suggestions"`
	HighestSeverity Severity     `json:"highest_severity,omitempty"`
}
