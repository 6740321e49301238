package model

// Section is a named, tag-delimited region of a document discovered by a section parser.
// StartIndex/EndIndex delimit the section content.
type Section struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	TagName    string `json:"tag_name" yaml:"tag_name"`
	StartIndex int    `json:"start_index" yaml:"start_index"`
	EndIndex   int    `json:"end_index" yaml:"end_index"`
	Content    string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Span returns the section content range
func (s Section) Span() Span {
	return Span{StartIndex: s.StartIndex, EndIndex: s.EndIndex}
}
