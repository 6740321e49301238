package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpan is returned when a span is inverted or falls outside the document
	ErrInvalidSpan = errors.New("invalid span")

	// ErrEmptyDocument is returned by outer layers that need document text
	ErrEmptyDocument = errors.New("empty document")
)

// Span is a half-open byte range [StartIndex, EndIndex) into a document
type Span struct {
	StartIndex int `json:"start_index" yaml:"start_index"`
	EndIndex   int `json:"end_index" yaml:"end_index"`
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.EndIndex - s.StartIndex
}

// Overlaps reports whether two half-open spans share at least one position
func (s Span) Overlaps(other Span) bool {
	return s.StartIndex < other.EndIndex && other.StartIndex < s.EndIndex
}

// Contains reports whether pos lies inside the span
func (s Span) Contains(pos int) bool {
	return pos >= s.StartIndex && pos < s.EndIndex
}

// Validate checks 0 <= start <= end <= docLen
func (s Span) Validate(docLen int) error {
	if s.StartIndex < 0 || s.EndIndex < s.StartIndex || s.EndIndex > docLen {
		return fmt.Errorf("%w: [%d,%d) in document of length %d", ErrInvalidSpan, s.StartIndex, s.EndIndex, docLen)
	}
	return nil
}
