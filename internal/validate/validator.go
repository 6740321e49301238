// Package validate decides which evidence spans really occur in a document.
package validate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ppiankov/anchora/internal/locate"
	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/worker"
)

// DefaultThreshold is the minimum locate confidence for accepting evidence
const DefaultThreshold = locate.ValidationFuzzyThreshold

// ErrInvalidThreshold is returned for thresholds outside [0, 1]
var ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")

// Validator checks evidence spans against a document
type Validator struct {
	locator       locate.Locator
	threshold     float64
	workers       int
	maxFuzzyRunes int
	logger        *zap.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithLocator replaces the default matcher, e.g. with a cached one
func WithLocator(l locate.Locator) Option {
	return func(v *Validator) {
		if l != nil {
			v.locator = l
		}
	}
}

// WithWorkers sets how many spans are checked concurrently
func WithWorkers(n int) Option {
	return func(v *Validator) {
		v.workers = n
	}
}

// WithMaxFuzzyRunes bounds the fuzzy pass on long documents
func WithMaxFuzzyRunes(n int) Option {
	return func(v *Validator) {
		v.maxFuzzyRunes = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a validator accepting matches at or above threshold
func NewValidator(threshold float64, opts ...Option) (*Validator, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	v := &Validator{
		threshold: threshold,
		workers:   1,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.locator == nil {
		v.locator = locate.NewMatcher(v.logger)
	}
	if v.workers <= 0 {
		v.workers = 1
	}

	return v, nil
}

// Check validates a single span
func (v *Validator) Check(document string, span model.EvidenceSpan) (bool, model.Rejection) {
	m := v.locator.Locate(document, span.OriginalText, locate.Options{
		EnableFuzzy:    true,
		FuzzyThreshold: v.threshold,
		MaxFuzzyRunes:  v.maxFuzzyRunes,
	})

	switch {
	case !m.Found:
		return false, model.Rejection{ID: span.ID, Reason: model.ReasonNotFound, Match: m}
	case m.Confidence < v.threshold:
		return false, model.Rejection{
			ID:     span.ID,
			Reason: fmt.Sprintf("%s (%.0f%%)", model.ReasonLowConfidence, math.Round(m.Confidence*100)),
			Match:  m,
		}
	}
	return true, model.Rejection{}
}

// ValidateAll partitions spans into accepted and rejected ids, preserving input order.
// A repeated id is evaluated once, at its first occurrence.
func (v *Validator) ValidateAll(document string, spans []model.EvidenceSpan) model.ValidationReport {
	report, _ := v.ValidateContext(context.Background(), document, spans)
	return report
}

// ValidateContext is ValidateAll with cancellation. On cancellation the partial report is discarded.
func (v *Validator) ValidateContext(ctx context.Context, document string, spans []model.EvidenceSpan) (model.ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return model.ValidationReport{}, err
	}

	unique := dedupe(spans)
	outcomes := make([]checkResult, len(unique))

	if v.workers == 1 || len(unique) < 2 {
		for i, span := range unique {
			outcomes[i] = v.check(document, span)
		}
	} else {
		jobs := make([]worker.Job, len(unique))
		for i, span := range unique {
			jobs[i] = &checkJob{validator: v, document: document, span: span}
		}
		for i, r := range worker.Run(ctx, v.workers, jobs) {
			if r == nil {
				return model.ValidationReport{}, ctx.Err()
			}
			outcomes[i] = *r.(*checkResult)
		}
	}

	report := model.ValidationReport{
		Accepted: []string{},
		Rejected: []model.Rejection{},
	}
	for _, o := range outcomes {
		if o.accepted {
			report.Accepted = append(report.Accepted, o.id)
		} else {
			report.Rejected = append(report.Rejected, o.rejection)
		}
	}

	v.logger.Debug("evidence validated",
		zap.Int("spans", len(spans)),
		zap.Int("accepted", len(report.Accepted)),
		zap.Int("rejected", len(report.Rejected)),
		zap.Float64("threshold", v.threshold))

	return report, nil
}

func (v *Validator) check(document string, span model.EvidenceSpan) checkResult {
	ok, rejection := v.Check(document, span)
	return checkResult{id: span.ID, accepted: ok, rejection: rejection}
}

// ValidateAll checks spans sequentially with the default matcher
func ValidateAll(document string, spans []model.EvidenceSpan, threshold float64) (model.ValidationReport, error) {
	v, err := NewValidator(threshold)
	if err != nil {
		return model.ValidationReport{}, err
	}
	return v.ValidateAll(document, spans), nil
}

func dedupe(spans []model.EvidenceSpan) []model.EvidenceSpan {
	seen := make(map[string]bool, len(spans))
	unique := make([]model.EvidenceSpan, 0, len(spans))
	for _, s := range spans {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		unique = append(unique, s)
	}
	return unique
}

type checkJob struct {
	validator *Validator
	document  string
	span      model.EvidenceSpan
}

func (j *checkJob) Execute(_ context.Context) worker.Result {
	r := j.validator.check(j.document, j.span)
	return &r
}

type checkResult struct {
	id        string
	accepted  bool
	rejection model.Rejection
}

func (r *checkResult) GetError() error { return nil }
