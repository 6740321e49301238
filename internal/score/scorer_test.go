package score

import (
	"testing"

	"github.com/ppiankov/anchora/internal/model"
)

func resolved(strategy model.Strategy) model.ResolvedInsertion {
	return model.ResolvedInsertion{
		Point: model.InsertionPoint{
			MatchResult:    model.MatchResult{Found: true, Strategy: strategy, Confidence: 1},
			InsertionIndex: 10,
			Direction:      model.DirectionAfter,
		},
	}
}

func unresolved() model.ResolvedInsertion {
	return model.ResolvedInsertion{Point: model.InsertionPoint{InsertionIndex: -1, Direction: model.DirectionAfter}}
}

func signalOf(t *testing.T, s model.Score, typ model.SignalType) model.Signal {
	t.Helper()
	for _, sig := range s.Signals {
		if sig.Type == typ {
			return sig
		}
	}
	t.Fatalf("signal %s missing", typ)
	return model.Signal{}
}

func TestScorer_Calculate_EmptyReport(t *testing.T) {
	result := NewScorer().Calculate(&model.Report{})

	if result.Index != 100 {
		t.Errorf("Expected 100 for a report with nothing to reconcile, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence with no inputs, got %s", result.Confidence)
	}
	if len(result.Signals) != 4 {
		t.Errorf("Expected 4 signals, got %d", len(result.Signals))
	}
}

func TestScorer_Calculate_Mixed(t *testing.T) {
	report := &model.Report{
		Validation: model.ValidationReport{
			Accepted: []string{"f1", "f2", "f3"},
			Rejected: []model.Rejection{{ID: "f4", Reason: model.ReasonNotFound}},
		},
		Groups: []model.SectionSuggestions{
			{Suggestions: []model.Suggestion{{ID: "f1"}, {ID: "f2"}}},
			{Suggestions: []model.Suggestion{{ID: "f2"}}},
		},
		Unmapped: []model.Suggestion{{ID: "f3"}},
		Insertions: []model.ResolvedInsertion{
			resolved(model.StrategyExact),
			resolved(model.StrategyHint),
			unresolved(),
		},
	}

	result := Calculate(report)

	// acceptance round(3/4*50)=38, resolution round(2/3*30)=20,
	// mapping round((1-1/3)*10)=7, placement round((1-1/2)*10)=5
	if result.Index != 70 {
		t.Errorf("Expected index 70, got %d", result.Index)
	}
	if result.Confidence != "medium" {
		t.Errorf("Expected medium confidence, got %s", result.Confidence)
	}

	acceptance := signalOf(t, result, model.SignalEvidenceAcceptance)
	if acceptance.Severity != model.SignalWarning {
		t.Errorf("Expected warning for partial acceptance, got %s", acceptance.Severity)
	}
	if acceptance.Data["formula"] == nil {
		t.Error("Expected formula in signal data")
	}

	mapping := signalOf(t, result, model.SignalUnmappedFindings)
	if mapping.Data["mapped"] != 2 {
		t.Errorf("Expected 2 distinct mapped findings, got %v", mapping.Data["mapped"])
	}
}

func TestScorer_Calculate_AllRejected(t *testing.T) {
	report := &model.Report{
		Validation: model.ValidationReport{
			Accepted: []string{},
			Rejected: []model.Rejection{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		},
	}

	result := Calculate(report)
	if result.Index != 50 {
		t.Errorf("Expected 50, got %d", result.Index)
	}
	if got := signalOf(t, result, model.SignalEvidenceAcceptance).Severity; got != model.SignalCritical {
		t.Errorf("Expected critical acceptance signal, got %s", got)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}
}

func TestScorer_Calculate_HighConfidence(t *testing.T) {
	report := &model.Report{
		Validation: model.ValidationReport{Accepted: []string{"a", "b", "c"}},
		Groups: []model.SectionSuggestions{
			{Suggestions: []model.Suggestion{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
		},
		Insertions: []model.ResolvedInsertion{resolved(model.StrategyNormalized)},
	}

	result := Calculate(report)
	if result.Index != 100 {
		t.Errorf("Expected 100, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
}
