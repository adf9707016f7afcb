package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nutriscan-ai/supplement-platform/internal/model"
)

// AnthropicClient is the Anthropic boundary client.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic client. An empty key is
// accepted; the first request fails with an authentication error instead.
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// AnalyzeImage identifies the product in a captured frame.
func (c *AnthropicClient) AnalyzeImage(ctx context.Context, img Image) (*model.ProductReview, error) {
	encoded := base64.StdEncoding.EncodeToString(img.Bytes)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(4096)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MIMEType, encoded),
				anthropic.NewTextBlock(analyzePrompt),
			),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	review, err := model.ParseReview(textContent(resp))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	return review, nil
}

// SearchProducts returns reviews for the top matches to a query.
func (c *AnthropicClient) SearchProducts(ctx context.Context, query string) ([]model.ProductReview, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(4096)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(searchPrompt(query))),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}

	reviews, err := model.ParseReviews(textContent(resp))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}
	return reviews, nil
}

// Converse continues a consultant conversation.
func (c *AnthropicClient) Converse(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
	messages, system := consultantMessages(history, message)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(1024)),
		System:    anthropic.F(system),
		Messages:  anthropic.F(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversation, err)
	}

	content := textContent(resp)
	if content == "" {
		return "", fmt.Errorf("%w: empty response", ErrConversation)
	}
	return content, nil
}

// consultantMessages converts a turn history for the Messages API, which
// requires the first message to carry the user role. The session seeds
// every conversation with an assistant greeting, so leading assistant
// turns are folded into the system prompt instead of sent as messages.
func consultantMessages(history []model.ConversationTurn, message string) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	system := []anthropic.TextBlockParam{anthropic.NewTextBlock(consultantSystemPrompt)}

	i := 0
	for i < len(history) && history[i].Role == model.RoleAssistant {
		system = append(system, anthropic.NewTextBlock("You opened the conversation with: "+history[i].Text))
		i++
	}

	messages := make([]anthropic.MessageParam, 0, len(history)-i+1)
	for _, turn := range history[i:] {
		if turn.Role == model.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Text)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Text)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(message)))
	return messages, system
}

func textContent(resp *anthropic.Message) string {
	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}
	return content
}
