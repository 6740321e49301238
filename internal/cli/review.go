package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/anchora/internal/llm"
	"github.com/ppiankov/anchora/internal/logging"
	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/pipeline"
)

var (
	reviewFile    string
	outJSON       string
	outMD         string
	reviewTimeout time.Duration
	noFooter      bool
	llmProvider   string
	llmModel      string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <document>",
	Short: "Reconcile a review with a document and write a report",
	Long: `Review runs the full reconciliation:
- Parse the document's sections
- Drop findings whose quoted evidence is not in the document
- Anchor the remaining findings and group them by section
- Resolve insertion requests to byte offsets
- Score the result and write JSON and/or Markdown reports

Without --review, the configured generator (llm.provider) is asked for one.

Example:
  anchora review prompt.txt --review review.json
  anchora review prompt.txt --review review.yaml --md report.md
  OPENAI_API_KEY=sk-... anchora review prompt.txt --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVar(&reviewFile, "review", "", "review file (JSON or YAML)")
	reviewCmd.Flags().StringVar(&outJSON, "json", "-", "output JSON path (- for stdout, empty to skip)")
	reviewCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	reviewCmd.Flags().DurationVar(&reviewTimeout, "timeout", 2*time.Minute, "overall timeout")
	reviewCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	reviewCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "generator provider (openai); overrides config")
	reviewCmd.Flags().StringVar(&llmModel, "llm-model", "", "generator model; overrides config")
}

func runReview(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(e.logger) }()
	applyLLMFlags(e.cfg)

	ctx, cancel := context.WithTimeout(context.Background(), reviewTimeout)
	defer cancel()

	p, err := newPipeline(e)
	if err != nil {
		return err
	}

	var review *model.Review
	if reviewFile != "" {
		if review, err = pipeline.LoadReview(reviewFile); err != nil {
			return err
		}
	}

	report, err := p.Run(ctx, args[0], review)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter && e.cfg.Output.IncludeFooter, noColor)
	if outJSON == "-" {
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(cmd.ErrOrStderr(), report)
	return nil
}

func applyLLMFlags(cfg *model.Config) {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
}

// newPipeline wires the generator (if configured) into a pipeline
func newPipeline(e *env) (*pipeline.Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(e.cfg))
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(e.logger),
		pipeline.WithSectionParser(e.sectionParser()),
	}
	if provider != nil {
		opts = append(opts, pipeline.WithProvider(provider))
	}

	p, err := pipeline.NewPipeline(e.cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return p, nil
}
