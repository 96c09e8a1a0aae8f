package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicProvider serves Claude models via the official Messages API client.
type AnthropicProvider struct {
	apiKey string
	client *anthropic.Client
}

// NewAnthropicProvider creates the provider. An empty apiKey leaves it
// unconfigured; Chat then fails without issuing a request.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	p := &AnthropicProvider{apiKey: apiKey}
	if apiKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		p.client = &client
	}
	return p
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Configured() bool { return p.apiKey != "" }

func (p *AnthropicProvider) AvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			ID:          "claude-opus-4-5-20251101",
			Name:        "Claude Opus 4.5",
			Provider:    "anthropic",
			Description: "Most capable, best for complex tasks",
		},
		{
			ID:          "claude-sonnet-4-20250514",
			Name:        "Claude Sonnet 4",
			Provider:    "anthropic",
			Description: "Best balance of speed and capability",
		},
		{
			ID:          "claude-3-5-haiku-20241022",
			Name:        "Claude 3.5 Haiku",
			Provider:    "anthropic",
			Description: "Fastest, most cost-effective",
		},
	}
}

// Chat sends the transcript to the Anthropic Messages API. The system
// prompt travels in the dedicated system field, not as a message.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []ChatMessage, model string, systemPrompt string) (*ChatResult, error) {
	if p.client == nil {
		return nil, errors.New("Anthropic API key not configured")
	}

	apiMessages := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == ChatRoleAssistant {
			apiMessages = append(apiMessages, anthropic.NewAssistantMessage(block))
		} else {
			apiMessages = append(apiMessages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		Messages:  apiMessages,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content = block.AsText().Text
			break
		}
	}

	return &ChatResult{
		Content:      content,
		Model:        model,
		Raw:          json.RawMessage(resp.RawJSON()),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}
