// Package insert resolves placement instructions into concrete insertion offsets.
package insert

import (
	"go.uber.org/zap"

	"github.com/ppiankov/anchora/internal/locate"
	"github.com/ppiankov/anchora/internal/location"
	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/sections"
)

// Resolver degrades from a literal anchor to a section named by the anchor to a section
// named by the caller's hint. The confidence tier tells callers how much to trust the result.
type Resolver struct {
	locator  locate.Locator
	parser   *location.Parser
	sections sections.Parser
	opts     locate.Options
	logger   *zap.Logger
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithLocator replaces the default locator (e.g. with a cached one)
func WithLocator(l locate.Locator) Option {
	return func(r *Resolver) { r.locator = l }
}

// WithLocationParser replaces the default English/Spanish prefix table
func WithLocationParser(p *location.Parser) Option {
	return func(r *Resolver) { r.parser = p }
}

// WithOptions sets the locate options used for anchors
func WithOptions(opts locate.Options) Option {
	return func(r *Resolver) { r.opts = opts }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver. sectionParser may be nil for documents without sections.
func NewResolver(sectionParser sections.Parser, opts ...Option) *Resolver {
	r := &Resolver{
		parser:   location.Default(),
		sections: sectionParser,
		opts:     locate.DefaultOptions(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.locator == nil {
		r.locator = locate.NewMatcher(r.logger)
	}
	return r
}

// Resolve turns description (and an optional section name hint) into an insertion point.
// An unresolved point has Found=false and InsertionIndex=-1.
func (r *Resolver) Resolve(document, description, sectionHint string) model.InsertionPoint {
	loc := r.parser.Parse(description)

	if loc.Anchor != "" {
		if m := r.locator.Locate(document, loc.Anchor, r.opts); m.Found {
			return r.done(description, model.InsertionPoint{
				MatchResult:    m,
				InsertionIndex: loc.Direction.OffsetIn(m.Span),
				Direction:      loc.Direction,
			})
		}
	}

	var secs []model.Section
	if r.sections != nil {
		secs = r.sections.ParseSections(document)
	}

	if sec, ok := FindSection(secs, loc.Anchor); ok {
		return r.done(description, model.InsertionPoint{
			MatchResult:    sectionMatch(sec, model.StrategySection, model.ConfidenceSection),
			InsertionIndex: loc.Direction.OffsetIn(sec.Span()),
			Direction:      loc.Direction,
		})
	}

	if sectionHint != "" {
		if sec, ok := FindSection(secs, sectionHint); ok {
			return r.done(description, model.InsertionPoint{
				MatchResult:    sectionMatch(sec, model.StrategyHint, model.ConfidenceHint),
				InsertionIndex: sec.EndIndex,
				Direction:      model.DirectionEndOfSection,
			})
		}
	}

	return r.done(description, model.InsertionPoint{
		MatchResult:    model.NotFound(),
		InsertionIndex: -1,
		Direction:      loc.Direction,
	})
}

// ResolveAll resolves a batch of insertion requests in order
func (r *Resolver) ResolveAll(document string, requests []model.InsertionRequest) []model.ResolvedInsertion {
	out := make([]model.ResolvedInsertion, 0, len(requests))
	for _, req := range requests {
		out = append(out, model.ResolvedInsertion{
			Request: req,
			Point:   r.Resolve(document, req.Location, req.SectionHint),
		})
	}
	return out
}

func (r *Resolver) done(description string, p model.InsertionPoint) model.InsertionPoint {
	r.logger.Debug("resolve insertion point",
		zap.String("location", description),
		zap.Bool("found", p.Found),
		zap.String("strategy", string(p.Strategy)),
		zap.Int("insertion_index", p.InsertionIndex),
	)
	return p
}

func sectionMatch(sec model.Section, strategy model.Strategy, confidence float64) model.MatchResult {
	return model.MatchResult{
		Found:       true,
		Span:        sec.Span(),
		MatchedText: sec.Content,
		Strategy:    strategy,
		Confidence:  confidence,
	}
}

// Resolve uses a resolver with default settings
func Resolve(document, description, sectionHint string, sectionParser sections.Parser) model.InsertionPoint {
	return NewResolver(sectionParser).Resolve(document, description, sectionHint)
}
