package model

// EvidenceSpan is an unverified claim that OriginalText appears in the document
type EvidenceSpan struct {
	ID           string `json:"id" yaml:"id"`
	OriginalText string `json:"original_text" yaml:"original_text"`
}

// Rejection reasons
const (
	ReasonNotFound      = "not found"
	ReasonLowConfidence = "low confidence match"
)

// Rejection records why an evidence span was dropped
type Rejection struct {
	ID     string      `json:"id"`
	Reason string      `json:"reason"`
	Match  MatchResult `json:"match"`
}

// ValidationReport partitions evidence ids into accepted and rejected.
// Every input id appears in exactly one of the two lists.
type ValidationReport struct {
	Accepted []string    `json:"accepted"`
	Rejected []Rejection `json:"rejected"`
}

// IsAccepted reports whether id was accepted
func (r ValidationReport) IsAccepted(id string) bool {
	for _, a := range r.Accepted {
		if a == id {
			return true
		}
	}
	return false
}
