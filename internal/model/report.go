package model

import "time"

// Report is the complete reconciliation result for one document
type Report struct {
	Subject     string    `json:"subject"`      // Document name (file base name or URL path)
	Source      string    `json:"source"`       // Path or URL the document was loaded from
	ProcessedAt time.Time `json:"processed_at"` // When reconciliation ran
	DocumentLen int       `json:"document_len"` // Document length in bytes

	Sections   []Section            `json:"sections"`
	Validation ValidationReport     `json:"validation"`
	Groups     []SectionSuggestions `json:"groups"`
	Unmapped   []Suggestion         `json:"unmapped"`
	Insertions []ResolvedInsertion  `json:"insertions"`

	Score Score `json:"score"`

	Generator *GeneratorInfo `json:"generator,omitempty"` // Set when the review came from a live generator
}

// GeneratorInfo records which generator produced the review
type GeneratorInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// Score is the transparent reconciliation breakdown
type Score struct {
	Index      int      `json:"index"`      // Overall reconciliation index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`
}

// Signal is a diagnostic with the data it was computed from
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the diagnostic
type SignalType string

const (
	SignalEvidenceAcceptance  SignalType = "evidence_acceptance"  // Accepted / total evidence
	SignalInsertionResolution SignalType = "insertion_resolution" // Resolved / total insertions
	SignalUnmappedFindings    SignalType = "unmapped_findings"    // Findings outside every section
	SignalFallbackPlacement   SignalType = "fallback_placement"   // Insertions placed by section fallback
)

// SignalSeverity indicates how much attention a signal needs
type SignalSeverity string

const (
	SignalInfo     SignalSeverity = "info"
	SignalWarning  SignalSeverity = "warning"
	SignalCritical SignalSeverity = "critical"
)
