// Package model defines data structures for the supplement platform.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Intended efficacy rating vocabulary. The boundary emits free text in
// practice, so these are documentation rather than an enforced enum.
const (
	EfficacyHigh     = "High"
	EfficacyModerate = "Moderate"
	EfficacyLow      = "Low"
	EfficacyUnproven = "Unproven"
)

// Intended safety rating vocabulary.
const (
	SafetySafe    = "Safe"
	SafetyCaution = "Caution"
	SafetyUnsafe  = "Unsafe"
)

// IngredientAssessment is the per-ingredient portion of a review.
type IngredientAssessment struct {
	Name           string `json:"name"`
	EfficacyRating string `json:"efficacyRating"`
	SafetyRating   string `json:"safetyRating"`
	Description    string `json:"description"`
}

// ProductReview is the canonical AI-produced artifact. It is immutable once
// produced: holders replace the whole value with a newer one, never mutate
// fields in place.
type ProductReview struct {
	ProductName          string                 `json:"productName"`
	Brand                string                 `json:"brand"`
	Description          string                 `json:"description"`
	Ingredients          []IngredientAssessment `json:"ingredients"`
	ScientificResearch   string                 `json:"scientificResearch"`
	SafetyConsiderations string                 `json:"safetyConsiderations"`
	RecommendedDosage    string                 `json:"recommendedDosage"`
	QualityAssessment    string                 `json:"qualityAssessment"`
	OverallVerdict       string                 `json:"overallVerdict"`
}

// ErrMalformedReview indicates the boundary returned content that does not
// conform to the review schema. Callers treat it like a transport failure.
var ErrMalformedReview = errors.New("malformed review payload")

// Validate checks that a boundary-produced review carries the required
// fields. The boundary is a natural-language system and may emit partially
// conforming output, so this runs on every parse.
func (r *ProductReview) Validate() error {
	if strings.TrimSpace(r.ProductName) == "" {
		return fmt.Errorf("%w: missing productName", ErrMalformedReview)
	}
	if strings.TrimSpace(r.OverallVerdict) == "" {
		return fmt.Errorf("%w: missing overallVerdict", ErrMalformedReview)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("%w: ingredient %d missing name", ErrMalformedReview, i)
		}
		if strings.TrimSpace(ing.EfficacyRating) == "" {
			return fmt.Errorf("%w: ingredient %q missing efficacyRating", ErrMalformedReview, ing.Name)
		}
		if strings.TrimSpace(ing.SafetyRating) == "" {
			return fmt.Errorf("%w: ingredient %q missing safetyRating", ErrMalformedReview, ing.Name)
		}
	}
	return nil
}

// ParseReview decodes a single review object from boundary output.
func ParseReview(raw string) (*ProductReview, error) {
	cleaned := CleanJSONFence(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedReview)
	}

	var review ProductReview
	if err := json.Unmarshal([]byte(cleaned), &review); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReview, err)
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	return &review, nil
}

// ParseReviews decodes a sequence of reviews from boundary output. Both a
// bare JSON array and a {"results": [...]} envelope are accepted, since
// object-only structured-output modes force the latter. A valid empty
// sequence is not an error: search tolerates zero results.
func ParseReviews(raw string) ([]ProductReview, error) {
	cleaned := CleanJSONFence(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedReview)
	}

	var reviews []ProductReview
	if strings.HasPrefix(strings.TrimSpace(cleaned), "{") {
		var envelope struct {
			Results []ProductReview `json:"results"`
		}
		if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReview, err)
		}
		reviews = envelope.Results
	} else if err := json.Unmarshal([]byte(cleaned), &reviews); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReview, err)
	}
	for i := range reviews {
		if err := reviews[i].Validate(); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

// CleanJSONFence strips a surrounding markdown code fence if present.
// Structured-output modes usually return bare JSON, but some models wrap
// it anyway.
func CleanJSONFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
