package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/pipeline"
	"github.com/ppiankov/anchora/internal/validate"
)

var (
	validateThreshold float64
	validateWorkers   int
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <document> <evidence-file>",
	Short: "Check which quoted evidence really occurs in a document",
	Long: `Validate reads evidence spans (a JSON/YAML list of {id, original_text}) or a
review file (its findings' evidence is used) and partitions the ids into
accepted and rejected. A span is accepted when it is found with a confidence
at or above the threshold.

Example:
  anchora validate prompt.txt evidence.json
  anchora validate prompt.txt review.yaml --threshold 0.95`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Float64Var(&validateThreshold, "threshold", validate.DefaultThreshold, "minimum match confidence")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 0, "concurrent checks (default from config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	spans, err := loadEvidence(args[1])
	if err != nil {
		return err
	}

	doc, err := e.load(context.Background(), args[0])
	if err != nil {
		return err
	}

	threshold := e.cfg.Validation.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = validateThreshold
	}
	workers := e.cfg.Validation.Workers
	if validateWorkers > 0 {
		workers = validateWorkers
	}

	v, err := validate.NewValidator(threshold,
		validate.WithLocator(e.locator()),
		validate.WithWorkers(workers),
		validate.WithMaxFuzzyRunes(e.cfg.Locate.MaxFuzzyRunes),
		validate.WithLogger(e.logger))
	if err != nil {
		return err
	}

	report := v.ValidateAll(doc.Text, spans)
	printValidationSummary(cmd.ErrOrStderr(), report)
	return printJSON(cmd.OutOrStdout(), report)
}

// loadEvidence accepts a list of evidence spans or a review file
func loadEvidence(path string) ([]model.EvidenceSpan, error) {
	var spans []model.EvidenceSpan
	if err := decodeFile(path, &spans); err == nil {
		return spans, nil
	}

	review, err := pipeline.LoadReview(path)
	if err != nil {
		return nil, fmt.Errorf("load evidence: %w", err)
	}
	spans = make([]model.EvidenceSpan, len(review.Findings))
	for i, f := range review.Findings {
		spans[i] = model.EvidenceSpan{ID: f.ID, OriginalText: f.Evidence}
	}
	return spans, nil
}

func printValidationSummary(w io.Writer, report model.ValidationReport) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if noColor {
		ok.DisableColor()
		bad.DisableColor()
	}

	for _, id := range report.Accepted {
		fmt.Fprintf(w, "%s %s\n", ok.Sprint("✓"), id)
	}
	for _, r := range report.Rejected {
		fmt.Fprintf(w, "%s %s: %s\n", bad.Sprint("✗"), r.ID, r.Reason)
	}
}
