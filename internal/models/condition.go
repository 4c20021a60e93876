package models

import "github.com/google/uuid"

// ConditionType discriminates condition variants.
type ConditionType string

const (
	// ConditionText passes when the needle text appears in the screen,
	// as seen by the configured analyzer.
	ConditionText ConditionType = "text"
	// ConditionTemplate passes when a template image is found in the
	// screen capture with sufficient similarity.
	ConditionTemplate ConditionType = "template"
)

// Analyzer selects the perception backend for a text condition.
type Analyzer string

const (
	AnalyzerOCR Analyzer = "ocr"
	AnalyzerAI  Analyzer = "ai"
)

// Region is a rectangular area of a screen capture, in pixels.
// A region with a non-positive width or height means "whole image".
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Positive reports whether the region selects a non-degenerate area.
func (r Region) Positive() bool {
	return r.Width > 0 && r.Height > 0
}

// Condition is a perceptual predicate evaluated against one screen capture.
//
// For text conditions, Confidence is informational: substring containment
// is binary. For template conditions it is the acceptance bound on the
// normalized match score in [-1, 1].
type Condition struct {
	ID            string        `json:"id"`
	Type          ConditionType `json:"type"`
	Content       string        `json:"content"`
	Analyzer      Analyzer      `json:"analyzer"`
	Confidence    float64       `json:"confidence"`
	TemplateImage []byte        `json:"template_image,omitempty"`
	TemplateName  string        `json:"template_name,omitempty"`
	Region        Region        `json:"template_region"`
}

// NewCondition creates a condition with a fresh id and the default
// confidence bound.
func NewCondition(typ ConditionType) *Condition {
	return &Condition{
		ID:         uuid.NewString(),
		Type:       typ,
		Analyzer:   AnalyzerOCR,
		Confidence: 0.7,
	}
}
