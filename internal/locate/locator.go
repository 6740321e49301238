// Package locate finds the document span a possibly imprecise quotation refers to.
//
// Strategies run cheapest first and the first success wins: exact substring search,
// whitespace-normalized search, then a fuzzy sliding-window search scored by edit distance.
package locate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/anchora/internal/model"
)

// Default fuzzy thresholds
const (
	DefaultFuzzyThreshold    = 0.85
	ValidationFuzzyThreshold = 0.90
)

// Options controls which strategies run
type Options struct {
	EnableFuzzy    bool
	FuzzyThreshold float64
	// MaxFuzzyRunes skips the fuzzy pass for documents longer than this (0 = unlimited)
	MaxFuzzyRunes int
}

// DefaultOptions is used for anchor lookups
func DefaultOptions() Options {
	return Options{EnableFuzzy: true, FuzzyThreshold: DefaultFuzzyThreshold}
}

// ValidationOptions is used when checking evidence spans
func ValidationOptions() Options {
	return Options{EnableFuzzy: true, FuzzyThreshold: ValidationFuzzyThreshold}
}

// OptionsFromConfig converts the locate section of the configuration
func OptionsFromConfig(cfg model.LocateConfig) Options {
	return Options{
		EnableFuzzy:    cfg.EnableFuzzy,
		FuzzyThreshold: cfg.FuzzyThreshold,
		MaxFuzzyRunes:  cfg.MaxFuzzyRunes,
	}
}

// Locator finds query in document
type Locator interface {
	Locate(document, query string, opts Options) model.MatchResult
}

// Locate runs the strategy chain. It never fails: absence is reported as Found=false.
func Locate(document, query string, opts Options) model.MatchResult {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || document == "" {
		return model.NotFound()
	}

	if m, ok := findExact(document, query, trimmed); ok {
		return m
	}
	if m, ok := findNormalized(document, trimmed); ok {
		return m
	}
	if opts.EnableFuzzy {
		if m, ok := findFuzzy(document, trimmed, opts); ok {
			return m
		}
	}

	return model.NotFound()
}

// Matcher is the default Locator; it logs which strategy resolved each query
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a Matcher. A nil logger disables logging.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Locate implements Locator
func (m *Matcher) Locate(document, query string, opts Options) model.MatchResult {
	result := Locate(document, query, opts)
	if ce := m.logger.Check(zap.DebugLevel, "locate"); ce != nil {
		ce.Write(
			zap.Int("query_len", len(query)),
			zap.Bool("found", result.Found),
			zap.String("strategy", string(result.Strategy)),
			zap.Float64("confidence", result.Confidence),
		)
	}
	return result
}

func newMatch(document string, start, end int, strategy model.Strategy, confidence float64) model.MatchResult {
	return model.MatchResult{
		Found:       true,
		Span:        model.Span{StartIndex: start, EndIndex: end},
		MatchedText: document[start:end],
		Strategy:    strategy,
		Confidence:  confidence,
	}
}
