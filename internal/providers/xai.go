package providers

import "context"

const xaiBaseURL = "https://api.x.ai/v1"

// XAIProvider serves Grok models via xAI's OpenAI-compatible endpoint.
type XAIProvider struct {
	openAICompat
}

func NewXAIProvider(apiKey string) *XAIProvider {
	return &XAIProvider{openAICompat: newOpenAICompat("xAI", apiKey, xaiBaseURL)}
}

func (p *XAIProvider) Name() string { return "xai" }

func (p *XAIProvider) Configured() bool { return p.configured() }

func (p *XAIProvider) AvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			ID:          "grok-3-beta",
			Name:        "Grok 3 Beta",
			Provider:    "xai",
			Description: "Latest Grok 3, most capable",
		},
		{
			ID:          "grok-2-1212",
			Name:        "Grok 2",
			Provider:    "xai",
			Description: "Grok 2, less filtered",
		},
		{
			ID:          "grok-beta",
			Name:        "Grok Beta",
			Provider:    "xai",
			Description: "Fast and capable",
		},
	}
}

func (p *XAIProvider) Chat(ctx context.Context, messages []ChatMessage, model string, systemPrompt string) (*ChatResult, error) {
	return p.chat(ctx, messages, model, systemPrompt)
}
