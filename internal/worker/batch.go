package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/anchora/internal/model"
)

// Item is one document/review pair from a batch manifest.
// An empty Review asks the configured generator for one.
type Item struct {
	Document string
	Review   string
}

// Runner reconciles a single item
type Runner interface {
	RunItem(ctx context.Context, item Item) (*model.Report, error)
}

// ItemJob runs one manifest item
type ItemJob struct {
	Item   Item
	Runner Runner
}

// Execute implements Job
func (j *ItemJob) Execute(ctx context.Context) Result {
	report, err := j.Runner.RunItem(ctx, j.Item)
	return &ItemResult{Item: j.Item, Report: report, Error: err}
}

// ItemResult is the outcome of one manifest item
type ItemResult struct {
	Item   Item
	Report *model.Report
	Error  error
}

// GetError implements Result
func (r *ItemResult) GetError() error {
	return r.Error
}

// BatchProcessor reconciles many independent documents concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessItems runs every item and returns results in manifest order.
// Items skipped by cancellation carry ctx.Err().
func (b *BatchProcessor) ProcessItems(ctx context.Context, items []Item) []*ItemResult {
	jobs := make([]Job, len(items))
	for i, item := range items {
		jobs[i] = &ItemJob{Item: item, Runner: b.runner}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*ItemResult, len(items))
	for i, r := range results {
		if r == nil {
			out[i] = &ItemResult{Item: items[i], Error: fmt.Errorf("not run: %w", context.Cause(ctx))}
			continue
		}
		out[i] = r.(*ItemResult)
	}
	return out
}

// ProcessFile reads a manifest and processes it
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ItemResult, error) {
	items, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessItems(ctx, items), nil
}

// ReadManifest parses a manifest file. Each non-empty line holds a document source,
// optionally followed by a review file; '#' starts a comment line.
// Repeated pairs are kept once.
func ReadManifest(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var items []Item
	seen := make(map[Item]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: want \"<document> [review]\", got %d fields", lineNo, len(fields))
		}

		item := Item{Document: fields[0]}
		if len(fields) == 2 {
			item.Review = fields[1]
		}
		if !seen[item] {
			seen[item] = true
			items = append(items, item)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return items, nil
}
