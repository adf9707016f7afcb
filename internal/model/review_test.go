package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReviewJSON = `{
	"productName": "Vitamin D3",
	"brand": "NOW Foods",
	"description": "Cholecalciferol softgels.",
	"ingredients": [
		{"name": "Vitamin D3", "efficacyRating": "High", "safetyRating": "Safe", "description": "Supports bone health."}
	],
	"scientificResearch": "Well studied.",
	"safetyConsiderations": "Fat soluble; avoid megadoses.",
	"recommendedDosage": "1000-2000 IU daily.",
	"qualityAssessment": "Strong evidence.",
	"overallVerdict": "Recommended for most adults."
}`

func TestParseReview(t *testing.T) {
	review, err := ParseReview(validReviewJSON)
	require.NoError(t, err)
	assert.Equal(t, "Vitamin D3", review.ProductName)
	assert.Equal(t, "NOW Foods", review.Brand)
	require.Len(t, review.Ingredients, 1)
	assert.Equal(t, EfficacyHigh, review.Ingredients[0].EfficacyRating)
	assert.Equal(t, SafetySafe, review.Ingredients[0].SafetyRating)
}

func TestParseReviewFenced(t *testing.T) {
	fenced := "```json\n" + validReviewJSON + "\n```"
	review, err := ParseReview(fenced)
	require.NoError(t, err)
	assert.Equal(t, "Vitamin D3", review.ProductName)
}

func TestParseReviewMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n  "},
		{"not json", "The product appears to be a protein powder."},
		{"missing product name", `{"overallVerdict": "Fine"}`},
		{"missing verdict", `{"productName": "X"}`},
		{"ingredient missing name", `{"productName": "X", "overallVerdict": "V", "ingredients": [{"efficacyRating": "High", "safetyRating": "Safe"}]}`},
		{"ingredient missing rating", `{"productName": "X", "overallVerdict": "V", "ingredients": [{"name": "Zinc", "safetyRating": "Safe"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReview(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedReview)
		})
	}
}

func TestParseReviewsBareArray(t *testing.T) {
	raw := `[` + validReviewJSON + `,` + validReviewJSON + `]`
	reviews, err := ParseReviews(raw)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestParseReviewsEnvelope(t *testing.T) {
	raw := `{"results": [` + validReviewJSON + `]}`
	reviews, err := ParseReviews(raw)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Vitamin D3", reviews[0].ProductName)
}

func TestParseReviewsEmpty(t *testing.T) {
	reviews, err := ParseReviews(`[]`)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	reviews, err = ParseReviews(`{"results": []}`)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestParseReviewsInvalidEntry(t *testing.T) {
	raw := `[` + validReviewJSON + `, {"brand": "No Name"}]`
	_, err := ParseReviews(raw)
	assert.ErrorIs(t, err, ErrMalformedReview)
}

func TestCleanJSONFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"padded", "  \n```json\n{\"a\": 1}\n```\n  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONFence(tt.in))
		})
	}
}

func TestReviewRoundTrip(t *testing.T) {
	original, err := ParseReview(validReviewJSON)
	require.NoError(t, err)

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := ParseReview(string(raw))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestNewTurn(t *testing.T) {
	turn := NewTurn(RoleUser, "hello")
	assert.Equal(t, RoleUser, turn.Role)
	assert.Equal(t, "hello", turn.Text)
	assert.NotEmpty(t, turn.ID)
	assert.False(t, turn.CreatedAt.IsZero())

	// IDs are unique per turn.
	other := NewTurn(RoleUser, "hello")
	assert.NotEqual(t, turn.ID, other.ID)
}
