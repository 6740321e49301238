package model

// Review is the raw, untrusted output of the text generator for one document
type Review struct {
	Findings   []Finding          `json:"findings" yaml:"findings"`
	Insertions []InsertionRequest `json:"insertions" yaml:"insertions"`
}

// Finding is a generator remark backed by a quotation it claims exists in the document
type Finding struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Severity Severity `json:"severity" yaml:"severity"`
	Evidence string   `json:"evidence" yaml:"evidence"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// InsertionRequest asks for Content to be placed at a described location
type InsertionRequest struct {
	ID          string `json:"id" yaml:"id"`
	Location    string `json:"location" yaml:"location"`
	SectionHint string `json:"section_hint,omitempty" yaml:"section_hint,omitempty"`
	Content     string `json:"content" yaml:"content"`
}

// ResolvedInsertion pairs a request with the point it resolved to
type ResolvedInsertion struct {
	Request InsertionRequest `json:"request"`
	Point   InsertionPoint   `json:"point"`
}
