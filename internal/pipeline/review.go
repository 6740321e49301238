package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/anchora/internal/model"
)

// LoadReview reads a review from a JSON or YAML file (chosen by extension, JSON otherwise)
func LoadReview(path string) (*model.Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read review: %w", err)
	}

	review, err := DecodeReview(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode review %s: %w", path, err)
	}
	return review, nil
}

// DecodeReview parses review data. ext selects the format (".yaml"/".yml" or JSON).
func DecodeReview(data []byte, ext string) (*model.Review, error) {
	var review model.Review

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &review); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &review); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	return NormalizeReview(&review), nil
}

// NormalizeReview returns a copy with ids filled in and severities mapped onto the scale.
// Unknown severities become medium.
func NormalizeReview(review *model.Review) *model.Review {
	out := &model.Review{
		Findings:   make([]model.Finding, 0),
		Insertions: make([]model.InsertionRequest, 0),
	}
	if review == nil {
		return out
	}

	for _, f := range review.Findings {
		if strings.TrimSpace(f.ID) == "" {
			f.ID = uuid.NewString()
		}
		severity, err := model.ParseSeverity(string(f.Severity))
		if err != nil {
			severity = model.SeverityMedium
		}
		f.Severity = severity
		out.Findings = append(out.Findings, f)
	}

	for _, ins := range review.Insertions {
		if strings.TrimSpace(ins.ID) == "" {
			ins.ID = uuid.NewString()
		}
		out.Insertions = append(out.Insertions, ins)
	}

	return out
}
