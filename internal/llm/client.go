// Package llm provides the AI boundary client: image analysis, database
// search, and consultant conversation behind a provider-agnostic interface.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/nutriscan-ai/supplement-platform/internal/model"
)

// Boundary failure kinds. Schema-validation failures are wrapped in the
// same kind as transport failures, so callers never distinguish them.
var (
	ErrAnalysis     = errors.New("image analysis failed")
	ErrSearch       = errors.New("supplement search failed")
	ErrConversation = errors.New("consultant conversation failed")
)

// Image is a captured frame ready for the analyze operation.
type Image struct {
	Bytes    []byte
	MIMEType string
}

// Client is the interface to the generative-AI boundary. Each operation is
// a single request/response with no streaming semantics visible to callers.
type Client interface {
	// AnalyzeImage identifies the product in a captured frame and returns
	// a structured review. Fails with ErrAnalysis on transport or schema
	// failure.
	AnalyzeImage(ctx context.Context, img Image) (*model.ProductReview, error)

	// SearchProducts returns reviews for the top matches to a free-text
	// query. The boundary is asked for one to three but zero is tolerated.
	SearchProducts(ctx context.Context, query string) ([]model.ProductReview, error)

	// Converse continues a consultant conversation. The full prior history
	// is sent as context together with the new message.
	Converse(ctx context.Context, history []model.ConversationTurn, message string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// NewClient creates a new boundary client for the given provider.
func NewClient(provider Provider, apiKey, model string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// reviewSchemaInstructions spells out the exact field set and types the
// boundary must emit, so parsing stays deterministic.
const reviewSchemaInstructions = `{
  "productName": "string",
  "brand": "string",
  "description": "string",
  "ingredients": [
    { "name": "string", "efficacyRating": "High/Moderate/Low/Unproven", "safetyRating": "Safe/Caution/Unsafe", "description": "string" }
  ],
  "scientificResearch": "string (summary of studies)",
  "safetyConsiderations": "string (drug interactions, contraindications)",
  "recommendedDosage": "string",
  "qualityAssessment": "string (strength of evidence)",
  "overallVerdict": "string"
}`

const analyzePrompt = `Analyze this supplement product image. Identify the product name, brand, and key ingredients.
Provide a scientific review based on clinical consensus.

Return the result strictly as a JSON object matching this schema, with no prose around it:
` + reviewSchemaInstructions

func searchPrompt(query string) string {
	return fmt.Sprintf(`Search for supplements matching %q. Provide detailed scientific profiles for the top 1 to 3 matches.

Return strictly a JSON object of the form {"results": [...]} with no prose around it.
Each element of "results" must follow this structure:
%s`, query, reviewSchemaInstructions)
}

const consultantSystemPrompt = `You are an expert AI Clinical Nutritionist and Supplement Consultant.
Your goal is to help users make informed decisions.
Ask relevant questions about health goals (energy, sleep, muscle, stress), medications, age, and lifestyle if not provided.
Provide evidence-based recommendations. Always mention safety warnings and disclaimer that you are an AI, not a doctor.
Keep responses concise, friendly, and structured. Use Markdown for readability.`
