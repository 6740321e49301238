// Package pipeline reconciles a generator review with the document it describes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/anchora/internal/cache"
	"github.com/ppiankov/anchora/internal/insert"
	"github.com/ppiankov/anchora/internal/llm"
	"github.com/ppiankov/anchora/internal/locate"
	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/overlap"
	"github.com/ppiankov/anchora/internal/score"
	"github.com/ppiankov/anchora/internal/sections"
	"github.com/ppiankov/anchora/internal/validate"
	"github.com/ppiankov/anchora/internal/worker"
)

// ErrNoReview is returned when neither a review nor a generator is available
var ErrNoReview = errors.New("no review given and no generator configured")

// Pipeline orchestrates the complete reconciliation
type Pipeline struct {
	loader    *Loader
	sections  sections.Parser
	locator   locate.Locator
	validator *validate.Validator
	scorer    *score.Scorer
	provider  llm.Provider // Optional generator (nil if disabled)
	config    *model.Config
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithProvider sets the generator used when no review file is given
func WithProvider(p llm.Provider) Option {
	return func(pl *Pipeline) {
		pl.provider = p
	}
}

// WithSectionParser replaces the tag section parser
func WithSectionParser(p sections.Parser) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.sections = p
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(pl *Pipeline) {
		if logger != nil {
			pl.logger = logger
		}
	}
}

// WithLoader replaces the document loader
func WithLoader(l *Loader) Option {
	return func(pl *Pipeline) {
		if l != nil {
			pl.loader = l
		}
	}
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		loader:   NewLoader(cfg.HTTP),
		sections: sections.NewTagParser(),
		scorer:   score.NewScorer(),
		config:   cfg,
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}

	p.locator = locate.NewCached(locate.NewMatcher(p.logger), cache.New(cfg.Cache), cfg.Cache.MemoryTTL, p.logger)

	validator, err := validate.NewValidator(cfg.Validation.Threshold,
		validate.WithLocator(p.locator),
		validate.WithWorkers(cfg.Validation.Workers),
		validate.WithMaxFuzzyRunes(cfg.Locate.MaxFuzzyRunes),
		validate.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}
	p.validator = validator

	return p, nil
}

// Loader returns the document loader
func (p *Pipeline) Loader() *Loader {
	return p.loader
}

// Locator returns the (possibly cached) locator shared by all stages
func (p *Pipeline) Locator() locate.Locator {
	return p.locator
}

// Run loads source and reconciles review against it. A nil review is requested
// from the generator.
func (p *Pipeline) Run(ctx context.Context, source string, review *model.Review) (*model.Report, error) {
	doc, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	var generator *model.GeneratorInfo
	if review == nil {
		if review, err = p.Generate(ctx, doc.Text); err != nil {
			return nil, err
		}
		generator = &model.GeneratorInfo{Provider: p.provider.Name(), Model: p.provider.Model()}
	}

	report, err := p.Reconcile(ctx, doc, review)
	if err != nil {
		return nil, err
	}
	report.Generator = generator
	return report, nil
}

// RunItem implements worker.Runner
func (p *Pipeline) RunItem(ctx context.Context, item worker.Item) (*model.Report, error) {
	var review *model.Review
	if item.Review != "" {
		r, err := LoadReview(item.Review)
		if err != nil {
			return nil, err
		}
		review = r
	}
	return p.Run(ctx, item.Document, review)
}

// Generate asks the configured generator for a review of text
func (p *Pipeline) Generate(ctx context.Context, text string) (*model.Review, error) {
	if p.provider == nil {
		return nil, ErrNoReview
	}

	review, err := p.provider.Review(ctx, llm.ReviewRequest{
		Document: text,
		Sections: p.sections.ParseSections(text),
	})
	if err != nil {
		return nil, fmt.Errorf("generate review: %w", err)
	}

	p.logger.Info("review generated",
		zap.String("provider", p.provider.Name()),
		zap.Int("findings", len(review.Findings)),
		zap.Int("insertions", len(review.Insertions)))
	return review, nil
}

// Reconcile validates the review's evidence, maps the surviving findings onto sections,
// resolves insertion requests and scores the result
func (p *Pipeline) Reconcile(ctx context.Context, doc *Document, review *model.Review) (*model.Report, error) {
	review = NormalizeReview(review)
	text := doc.Text

	// 1. Sections
	secs := p.sections.ParseSections(text)

	// 2. Validate evidence
	spans := make([]model.EvidenceSpan, len(review.Findings))
	for i, f := range review.Findings {
		spans[i] = model.EvidenceSpan{ID: f.ID, OriginalText: f.Evidence}
	}
	validation, err := p.validator.ValidateContext(ctx, text, spans)
	if err != nil {
		return nil, fmt.Errorf("validate evidence: %w", err)
	}

	// 3. Anchor accepted findings
	suggestions := p.suggestions(text, review.Findings, validation)

	// 4. Map onto sections
	groups := overlap.MapSuggestionsToSections(suggestions, secs)
	unmapped := overlap.GetUnmappedSuggestions(suggestions, secs)

	// 5. Resolve insertion requests
	resolver := insert.NewResolver(sections.Static(secs),
		insert.WithLocator(p.locator),
		insert.WithOptions(locate.OptionsFromConfig(p.config.Locate)),
		insert.WithLogger(p.logger))
	insertions := resolver.ResolveAll(text, review.Insertions)

	report := &model.Report{
		Subject:     doc.Subject,
		Source:      doc.Source,
		ProcessedAt: p.now(),
		DocumentLen: len(text),
		Sections:    secs,
		Validation:  validation,
		Groups:      groups,
		Unmapped:    unmapped,
		Insertions:  insertions,
	}

	// 6. Score
	report.Score = p.scorer.Calculate(report)

	p.logger.Info("document reconciled",
		zap.String("source", doc.Source),
		zap.Int("sections", len(secs)),
		zap.Int("accepted", len(validation.Accepted)),
		zap.Int("rejected", len(validation.Rejected)),
		zap.Int("unmapped", len(unmapped)),
		zap.Int("insertions", len(insertions)),
		zap.Int("index", report.Score.Index))

	return report, nil
}

// suggestions anchors each accepted finding at the span its evidence was found at
func (p *Pipeline) suggestions(text string, findings []model.Finding, validation model.ValidationReport) []model.Suggestion {
	opts := locate.Options{
		EnableFuzzy:    true,
		FuzzyThreshold: p.config.Validation.Threshold,
		MaxFuzzyRunes:  p.config.Locate.MaxFuzzyRunes,
	}

	accepted := make(map[string]bool, len(validation.Accepted))
	for _, id := range validation.Accepted {
		accepted[id] = true
	}

	out := []model.Suggestion{}
	for _, f := range findings {
		if !accepted[f.ID] {
			continue
		}
		// first occurrence only
		delete(accepted, f.ID)

		m := p.locator.Locate(text, f.Evidence, opts)
		if !m.Found {
			continue
		}
		out = append(out, model.Suggestion{
			ID:         f.ID,
			StartIndex: m.Span.StartIndex,
			EndIndex:   m.Span.EndIndex,
			Severity:   f.Severity,
			Title:      f.Title,
			Message:    f.Message,
		})
	}
	return out
}
