package model

// Strategy names the method that produced a match
type Strategy string

const (
	StrategyNone       Strategy = ""             // Nothing matched
	StrategyExact      Strategy = "exact"        // Verbatim substring
	StrategyNormalized Strategy = "normalized"   // Equal after collapsing whitespace runs
	StrategyFuzzy      Strategy = "fuzzy"        // Best sliding window above the similarity threshold
	StrategySection    Strategy = "section"      // Anchor named a section
	StrategyHint       Strategy = "section-hint" // Caller's section hint named a section
)

// Fixed confidence tiers. Fuzzy matches carry their similarity ratio instead.
const (
	ConfidenceExact      = 1.0
	ConfidenceNormalized = 0.95
	ConfidenceSection    = 0.8
	ConfidenceHint       = 0.6
)

// MatchResult describes where (and how reliably) a query was found in a document
type MatchResult struct {
	Found       bool     `json:"found"`
	Span        Span     `json:"span"`
	MatchedText string   `json:"matched_text,omitempty"`
	Strategy    Strategy `json:"strategy,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// NotFound returns the canonical empty match
func NotFound() MatchResult {
	return MatchResult{}
}

// Direction is the spatial relationship between an anchor and the insertion point
type Direction string

const (
	DirectionAfter          Direction = "after"
	DirectionBefore         Direction = "before"
	DirectionEndOfSection   Direction = "end-of-section"
	DirectionStartOfSection Direction = "start-of-section"
)

// InsertsAtStart reports whether the insertion offset is taken from the start of the matched span
func (d Direction) InsertsAtStart() bool {
	return d == DirectionBefore || d == DirectionStartOfSection
}

// OffsetIn picks the insertion offset inside span according to the direction
func (d Direction) OffsetIn(span Span) int {
	if d.InsertsAtStart() {
		return span.StartIndex
	}
	return span.EndIndex
}

// InsertionPoint is a resolved location for new content.
// InsertionIndex is -1 when nothing could be resolved; callers must not auto-apply it.
type InsertionPoint struct {
	MatchResult
	InsertionIndex int       `json:"insertion_index"`
	Direction      Direction `json:"direction"`
}

// Resolved reports whether the point can be used
func (p InsertionPoint) Resolved() bool {
	return p.Found && p.InsertionIndex >= 0
}
