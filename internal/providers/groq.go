package providers

import "context"

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider serves open-weight models hosted on Groq's OpenAI-compatible
// endpoint.
type GroqProvider struct {
	openAICompat
}

func NewGroqProvider(apiKey string) *GroqProvider {
	return &GroqProvider{openAICompat: newOpenAICompat("Groq", apiKey, groqBaseURL)}
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Configured() bool { return p.configured() }

func (p *GroqProvider) AvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			ID:          "llama-3.3-70b-versatile",
			Name:        "Llama 3.3 70B",
			Provider:    "groq",
			Description: "Latest Llama, very capable",
		},
		{
			ID:          "llama-3.1-8b-instant",
			Name:        "Llama 3.1 8B",
			Provider:    "groq",
			Description: "Fast and lightweight",
		},
		{
			ID:          "llama3-70b-8192",
			Name:        "Llama 3 70B",
			Provider:    "groq",
			Description: "Powerful open model",
		},
		{
			ID:          "gemma2-9b-it",
			Name:        "Gemma 2 9B",
			Provider:    "groq",
			Description: "Google's open model",
		},
	}
}

func (p *GroqProvider) Chat(ctx context.Context, messages []ChatMessage, model string, systemPrompt string) (*ChatResult, error) {
	return p.chat(ctx, messages, model, systemPrompt)
}
