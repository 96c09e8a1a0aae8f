package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAICompat is the shared chat-completion plumbing for every vendor that
// speaks the OpenAI wire protocol (OpenAI itself, Groq, xAI). The system
// prompt is prepended as a system-role message, matching what these APIs
// expect.
type openAICompat struct {
	vendor string
	apiKey string
	client *openai.Client
}

func newOpenAICompat(vendor, apiKey, baseURL string) openAICompat {
	c := openAICompat{vendor: vendor, apiKey: apiKey}
	if apiKey == "" {
		return c
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	c.client = &client
	return c
}

func (c *openAICompat) configured() bool { return c.apiKey != "" }

func (c *openAICompat) chat(ctx context.Context, messages []ChatMessage, model string, systemPrompt string) (*ChatResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("%s API key not configured", c.vendor)
	}

	apiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if systemPrompt != "" {
		apiMessages = append(apiMessages, openai.SystemMessage(systemPrompt))
	}
	for _, m := range messages {
		if m.Role == ChatRoleAssistant {
			apiMessages = append(apiMessages, openai.AssistantMessage(m.Content))
		} else {
			apiMessages = append(apiMessages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: apiMessages,
	})
	if err != nil {
		return nil, fmt.Errorf("%s api error: %w", c.vendor, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s api error: response contained no choices", c.vendor)
	}

	return &ChatResult{
		Content:      resp.Choices[0].Message.Content,
		Model:        model,
		Raw:          json.RawMessage(resp.RawJSON()),
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}
