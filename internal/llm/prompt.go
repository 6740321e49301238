package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/anchora/internal/model"
)

// ErrMalformedReview is returned when the generator output is not the expected JSON
var ErrMalformedReview = errors.New("malformed review")

const systemPrompt = `You review instruction documents (system prompts, policies, runbooks) and report problems.
Respond with a single JSON object and nothing else.`

// BuildPrompt constructs the user prompt for a review
func BuildPrompt(req ReviewRequest) string {
	var b strings.Builder

	b.WriteString(`Review the document below.

RULES:
1. Every finding MUST quote the document verbatim in "evidence". Copy the text exactly; do not paraphrase.
2. Findings without a verbatim quotation will be discarded.
3. Severity is one of: low, medium, high, critical.
4. To propose new text, add an insertion whose "location" reads like
   after "<quoted text>", before "<quoted text>", at the start of "<section>" or at the end of "<section>".
   Set "section_hint" to the section the text belongs in.

Output schema:
{"findings":[{"title":"","severity":"","evidence":"","message":""}],
 "insertions":[{"location":"","section_hint":"","content":""}]}
`)

	if len(req.Sections) > 0 {
		b.WriteString("\nSections:\n")
		for _, s := range req.Sections {
			fmt.Fprintf(&b, "- %s\n", s.Title)
		}
	}

	if instructions := strings.TrimSpace(req.Instructions); instructions != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", instructions)
	}

	b.WriteString("\nDocument:\n<<<\n")
	b.WriteString(req.Document)
	b.WriteString("\n>>>\n")

	return b.String()
}

type wireReview struct {
	Findings []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Severity string `json:"severity"`
		Evidence string `json:"evidence"`
		Message  string `json:"message"`
	} `json:"findings"`
	Insertions []model.InsertionRequest `json:"insertions"`
}

// ParseReview decodes generator output into a review. Markdown code fences are
// tolerated and unknown severities fall back to medium.
func ParseReview(content string) (*model.Review, error) {
	raw := stripFence(strings.TrimSpace(content))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedReview)
	}

	var wire wireReview
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReview, err)
	}

	review := &model.Review{
		Findings:   make([]model.Finding, 0, len(wire.Findings)),
		Insertions: make([]model.InsertionRequest, 0, len(wire.Insertions)),
	}

	for _, f := range wire.Findings {
		severity, err := model.ParseSeverity(f.Severity)
		if err != nil {
			severity = model.SeverityMedium
		}
		review.Findings = append(review.Findings, model.Finding{
			ID:       f.ID,
			Title:    f.Title,
			Severity: severity,
			Evidence: f.Evidence,
			Message:  f.Message,
		})
	}

	for _, ins := range wire.Insertions {
		if strings.TrimSpace(ins.Location) == "" && strings.TrimSpace(ins.SectionHint) == "" {
			continue
		}
		review.Insertions = append(review.Insertions, ins)
	}

	return review, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
