package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/nutriscan-ai/supplement-platform/internal/model"
)

// OpenAIClient is the OpenAI boundary client.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client. An empty key is accepted;
// the first request fails with an authentication error instead.
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// AnalyzeImage identifies the product in a captured frame.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, img Image) (*model.ProductReview, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Bytes))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 4096,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI, Detail: openai.ImageURLDetailAuto},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: analyzePrompt,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	content := firstChoice(resp)
	review, err := model.ParseReview(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	return review, nil
}

// SearchProducts returns reviews for the top matches to a query.
func (c *OpenAIClient) SearchProducts(ctx context.Context, query string) ([]model.ProductReview, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 4096,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: searchPrompt(query)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}

	reviews, err := model.ParseReviews(firstChoice(resp))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}
	return reviews, nil
}

// Converse continues a consultant conversation.
func (c *OpenAIClient) Converse(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: consultantSystemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversation, err)
	}

	content := firstChoice(resp)
	if content == "" {
		return "", fmt.Errorf("%w: empty response", ErrConversation)
	}
	return content, nil
}

func firstChoice(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}
