package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/anchora/internal/model"
)

// Scorer calculates the reconciliation index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores a report whose validation, groups, unmapped and insertions are filled in
func (s *Scorer) Calculate(report *model.Report) model.Score {
	var signals []model.Signal

	// 1. Evidence acceptance (0-50 points)
	acceptanceScore, acceptanceSignal := s.calculateAcceptance(report.Validation)
	signals = append(signals, acceptanceSignal)

	// 2. Insertion resolution (0-30 points)
	resolutionScore, resolutionSignal := s.calculateResolution(report.Insertions)
	signals = append(signals, resolutionSignal)

	// 3. Unmapped findings (0-10 points)
	mappingScore, mappingSignal := s.calculateMapping(report.Groups, report.Unmapped)
	signals = append(signals, mappingSignal)

	// 4. Fallback placement (0-10 points)
	placementScore, placementSignal := s.calculatePlacement(report.Insertions)
	signals = append(signals, placementSignal)

	total := acceptanceScore + resolutionScore + mappingScore + placementScore
	items := len(report.Validation.Accepted) + len(report.Validation.Rejected) + len(report.Insertions)

	return model.Score{
		Index:      total,
		Confidence: s.determineConfidence(total, items),
		Signals:    signals,
	}
}

// Calculate scores report with a default scorer
func Calculate(report *model.Report) model.Score {
	return NewScorer().Calculate(report)
}

// calculateAcceptance rewards generator evidence that was found in the document
func (s *Scorer) calculateAcceptance(v model.ValidationReport) (int, model.Signal) {
	accepted := len(v.Accepted)
	total := accepted + len(v.Rejected)

	if total == 0 {
		return 50, model.Signal{
			Type:        model.SignalEvidenceAcceptance,
			Severity:    model.SignalInfo,
			Description: "No findings to validate",
			Data: map[string]interface{}{
				"accepted": 0,
				"total":    0,
				"score":    50,
			},
		}
	}

	ratio := float64(accepted) / float64(total)
	score := int(math.Round(ratio * 50))

	severity := model.SignalInfo
	if ratio < 0.5 {
		severity = model.SignalCritical
	} else if ratio < 1.0 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalEvidenceAcceptance,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d findings quote the document (%.0f%%)", accepted, total, ratio*100),
		Data: map[string]interface{}{
			"accepted": accepted,
			"rejected": len(v.Rejected),
			"total":    total,
			"ratio":    ratio,
			"score":    score,
			"formula":  "round(accepted / total * 50)",
		},
	}
}

// calculateResolution rewards insertion requests that found a place in the document
func (s *Scorer) calculateResolution(insertions []model.ResolvedInsertion) (int, model.Signal) {
	if len(insertions) == 0 {
		return 30, model.Signal{
			Type:        model.SignalInsertionResolution,
			Severity:    model.SignalInfo,
			Description: "No insertions requested",
			Data: map[string]interface{}{
				"resolved": 0,
				"total":    0,
				"score":    30,
			},
		}
	}

	resolved := 0
	for _, ins := range insertions {
		if ins.Point.Resolved() {
			resolved++
		}
	}

	ratio := float64(resolved) / float64(len(insertions))
	score := int(math.Round(ratio * 30))

	severity := model.SignalInfo
	if resolved == 0 {
		severity = model.SignalCritical
	} else if resolved < len(insertions) {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalInsertionResolution,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d insertions resolved to a position", resolved, len(insertions)),
		Data: map[string]interface{}{
			"resolved":   resolved,
			"unresolved": len(insertions) - resolved,
			"total":      len(insertions),
			"ratio":      ratio,
			"score":      score,
			"formula":    "round(resolved / total * 30)",
		},
	}
}

// calculateMapping penalizes accepted findings that fall outside every section
func (s *Scorer) calculateMapping(groups []model.SectionSuggestions, unmapped []model.Suggestion) (int, model.Signal) {
	mapped := make(map[string]bool)
	for _, g := range groups {
		for _, sug := range g.Suggestions {
			mapped[sug.ID] = true
		}
	}
	total := len(mapped) + len(unmapped)

	if total == 0 {
		return 10, model.Signal{
			Type:        model.SignalUnmappedFindings,
			Severity:    model.SignalInfo,
			Description: "No located findings",
			Data: map[string]interface{}{
				"unmapped": 0,
				"total":    0,
				"score":    10,
			},
		}
	}

	ratio := float64(len(unmapped)) / float64(total)
	score := int(math.Round((1 - ratio) * 10))

	severity := model.SignalInfo
	if len(unmapped) > 0 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalUnmappedFindings,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d located findings sit outside every section", len(unmapped), total),
		Data: map[string]interface{}{
			"unmapped": len(unmapped),
			"mapped":   len(mapped),
			"total":    total,
			"ratio":    ratio,
			"score":    score,
			"formula":  "round((1 - unmapped / total) * 10)",
		},
	}
}

// calculatePlacement penalizes insertions that were placed only by their section hint
func (s *Scorer) calculatePlacement(insertions []model.ResolvedInsertion) (int, model.Signal) {
	resolved, fallback := 0, 0
	for _, ins := range insertions {
		if !ins.Point.Resolved() {
			continue
		}
		resolved++
		if ins.Point.Strategy == model.StrategyHint {
			fallback++
		}
	}

	if resolved == 0 {
		return 10, model.Signal{
			Type:        model.SignalFallbackPlacement,
			Severity:    model.SignalInfo,
			Description: "No resolved insertions",
			Data: map[string]interface{}{
				"fallback": 0,
				"resolved": 0,
				"score":    10,
			},
		}
	}

	ratio := float64(fallback) / float64(resolved)
	score := int(math.Round((1 - ratio) * 10))

	severity := model.SignalInfo
	if ratio > 0.5 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalFallbackPlacement,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d insertions placed at a section end by hint only", fallback, resolved),
		Data: map[string]interface{}{
			"fallback": fallback,
			"resolved": resolved,
			"ratio":    ratio,
			"score":    score,
			"formula":  "round((1 - fallback / resolved) * 10)",
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, items int) string {
	if items < 3 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	}
	return "low"
}
