package providers

import "context"

// OpenAIProvider serves GPT and o-series models via the Chat Completions API.
type OpenAIProvider struct {
	openAICompat
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{openAICompat: newOpenAICompat("OpenAI", apiKey, "")}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Configured() bool { return p.configured() }

func (p *OpenAIProvider) AvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			ID:          "gpt-4o",
			Name:        "GPT-4o",
			Provider:    "openai",
			Description: "Latest GPT-4, fast and capable",
		},
		{
			ID:          "gpt-4o-mini",
			Name:        "GPT-4o Mini",
			Provider:    "openai",
			Description: "Fast and affordable",
		},
		{
			ID:          "o1",
			Name:        "o1",
			Provider:    "openai",
			Description: "Advanced reasoning model",
		},
		{
			ID:          "o1-mini",
			Name:        "o1 Mini",
			Provider:    "openai",
			Description: "Fast reasoning model",
		},
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []ChatMessage, model string, systemPrompt string) (*ChatResult, error) {
	return p.chat(ctx, messages, model, systemPrompt)
}
