package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/anchora/internal/logging"
	"github.com/ppiankov/anchora/internal/pipeline"
	"github.com/ppiankov/anchora/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Reconcile many documents from a manifest in parallel",
	Long: `Batch reads a manifest with one document per line, optionally followed by
its review file. Lines without a review ask the configured generator.
Each document is reconciled independently; a JSON and a Markdown report
are written per line.

Example manifest:
  # document             review
  prompts/support.txt    reviews/support.json
  prompts/sales.txt      reviews/sales.yaml
  https://example.com/onboarding.txt

Example:
  anchora batch manifest.txt
  anchora batch manifest.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./anchora-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "generator provider (openai); overrides config")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "generator model; overrides config")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]

	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(e.logger) }()
	applyLLMFlags(e.cfg)

	workers := e.cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "  Anchora Batch Reconciliation\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Manifest:     %s\n", manifest)
	fmt.Fprintf(out, "  Workers:      %d\n", workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(out, "  Timeout:      %v\n", batchTimeout)
	if e.cfg.LLM.Provider != "" {
		fmt.Fprintf(out, "  Generator:    %s/%s\n", e.cfg.LLM.Provider, e.cfg.LLM.Model)
	}
	fmt.Fprintf(out, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := newPipeline(e)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, workers)
	results, err := processor.ProcessFile(ctx, manifest)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter && e.cfg.Output.IncludeFooter, noColor)
	successCount := 0
	failureCount := 0

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(out, "✗ %s: %v\n", result.Item.Document, result.Error)
			continue
		}

		base := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(result.Report.Subject))
		jsonPath := filepath.Join(outputDir, base+".json")
		mdPath := filepath.Join(outputDir, base+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(out, "✗ %s: failed to write JSON: %v\n", result.Item.Document, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(out, "✗ %s: failed to write Markdown: %v\n", result.Item.Document, err)
			continue
		}

		successCount++
		fmt.Fprintf(out, "✓ %s (index: %d/100, %d accepted, %d rejected)\n",
			result.Report.Subject, result.Report.Score.Index,
			len(result.Report.Validation.Accepted), len(result.Report.Validation.Rejected))
	}

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(out, "  Success:   %d\n", successCount)
	fmt.Fprintf(out, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(out, "  Output:    %s\n", outputDir)
	fmt.Fprintf(out, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d documents failed", failureCount)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a report subject into a safe file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".")
	if s == "" {
		s = "document"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
