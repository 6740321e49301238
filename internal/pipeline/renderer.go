package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ppiankov/anchora/internal/model"
)

// Renderer writes reports as JSON, Markdown or a short terminal summary
type Renderer struct {
	includeFooter bool
	colors        map[string]*color.Color
}

// NewRenderer creates a renderer. noColor disables ANSI colors in the summary.
func NewRenderer(includeFooter, noColor bool) *Renderer {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"positive": color.New(color.FgGreen),
		"negative": color.New(color.FgRed),
		"warning":  color.New(color.FgYellow),
		"muted":    color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &Renderer{includeFooter: includeFooter, colors: colors}
}

// RenderJSON writes the report as indented JSON to path ("-" for stdout)
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return r.writeTo(path, func(w io.Writer) error {
		return WriteJSON(w, report)
	})
}

// RenderMarkdown writes a Markdown report to path ("-" for stdout)
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return r.writeTo(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

// WriteJSON encodes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Markdown renders the report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reconciliation: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- Source: `%s`\n", report.Source)
	fmt.Fprintf(&b, "- Reconciliation index: **%d/100** (confidence: %s)\n", report.Score.Index, report.Score.Confidence)
	fmt.Fprintf(&b, "- Evidence: %d accepted, %d rejected\n", len(report.Validation.Accepted), len(report.Validation.Rejected))
	if report.Generator != nil {
		fmt.Fprintf(&b, "- Generator: %s %s\n", report.Generator.Provider, report.Generator.Model)
	}

	b.WriteString("\n## Sections\n\n")
	if len(report.Groups) == 0 {
		b.WriteString("_No sections found._\n")
	}
	for _, g := range report.Groups {
		severity := string(g.HighestSeverity)
		if severity == "" {
			severity = "none"
		}
		fmt.Fprintf(&b, "### %s (%d findings, highest: %s)\n\n", g.Section.Title, len(g.Suggestions), severity)
		for _, s := range g.Suggestions {
			writeSuggestion(&b, s)
		}
		if len(g.Suggestions) > 0 {
			b.WriteString("\n")
		}
	}

	if len(report.Unmapped) > 0 {
		b.WriteString("\n## Findings outside any section\n\n")
		for _, s := range report.Unmapped {
			writeSuggestion(&b, s)
		}
	}

	if len(report.Validation.Rejected) > 0 {
		b.WriteString("\n## Rejected findings\n\n")
		b.WriteString("| ID | Reason |\n|---|---|\n")
		for _, rej := range report.Validation.Rejected {
			fmt.Fprintf(&b, "| %s | %s |\n", rej.ID, rej.Reason)
		}
	}

	if len(report.Insertions) > 0 {
		b.WriteString("\n## Insertions\n\n")
		b.WriteString("| ID | Location | Position | Strategy |\n|---|---|---|---|\n")
		for _, ins := range report.Insertions {
			position := "unresolved"
			if ins.Point.Resolved() {
				position = fmt.Sprintf("%d (%s)", ins.Point.InsertionIndex, ins.Point.Direction)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", ins.Request.ID, escapeCell(ins.Request.Location), position, ins.Point.Strategy)
		}
	}

	b.WriteString("\n## Signals\n\n")
	for _, sig := range report.Score.Signals {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", sig.Type, sig.Severity, sig.Description)
	}

	if r.includeFooter {
		b.WriteString("\n---\n_Findings are shown only where their quoted evidence was found in the document._\n")
	}

	return b.String()
}

// RenderSummary prints a short colored summary to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	r.colors["title"].Fprintf(w, "%s\n", report.Subject)
	fmt.Fprintf(w, "  index %d/100 (%s)\n", report.Score.Index, report.Score.Confidence)

	for _, id := range report.Validation.Accepted {
		fmt.Fprintf(w, "  %s %s\n", r.colors["positive"].Sprint("✓"), id)
	}
	for _, rej := range report.Validation.Rejected {
		fmt.Fprintf(w, "  %s %s %s\n", r.colors["negative"].Sprint("✗"), rej.ID, r.colors["muted"].Sprint(rej.Reason))
	}
	for _, s := range report.Unmapped {
		fmt.Fprintf(w, "  %s %s outside every section\n", r.colors["warning"].Sprint("!"), s.ID)
	}
	for _, ins := range report.Insertions {
		if !ins.Point.Resolved() {
			fmt.Fprintf(w, "  %s insertion %s needs manual placement\n", r.colors["warning"].Sprint("!"), ins.Request.ID)
		}
	}
}

func writeSuggestion(b *strings.Builder, s model.Suggestion) {
	title := s.Title
	if title == "" {
		title = s.ID
	}
	fmt.Fprintf(b, "- [%s] %s (bytes %d-%d)", s.Severity, title, s.StartIndex, s.EndIndex)
	if s.Message != "" {
		fmt.Fprintf(b, ": %s", s.Message)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func (r *Renderer) writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
