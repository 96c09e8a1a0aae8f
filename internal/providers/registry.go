package providers

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned when no provider lists the requested model.
var ErrUnknownModel = errors.New("unknown model")

// DefaultKeys holds the process-wide API keys loaded from configuration.
type DefaultKeys struct {
	Anthropic string
	Groq      string
	OpenAI    string
	XAI       string
}

// Registry resolves model identifiers to providers. Providers are
// constructed per call because caller-supplied keys vary per request.
type Registry struct {
	defaults DefaultKeys
}

func NewRegistry(defaults DefaultKeys) *Registry {
	return &Registry{defaults: defaults}
}

// All returns the full provider set for one request, with caller keys
// taking precedence over configured defaults.
func (r *Registry) All(creds Credentials) []Provider {
	return []Provider{
		NewAnthropicProvider(firstNonEmpty(creds.Anthropic, r.defaults.Anthropic)),
		NewGroqProvider(firstNonEmpty(creds.Groq, r.defaults.Groq)),
		NewOpenAIProvider(firstNonEmpty(creds.OpenAI, r.defaults.OpenAI)),
		NewXAIProvider(firstNonEmpty(creds.XAI, r.defaults.XAI)),
	}
}

// Resolve returns the provider whose catalog lists modelID, or
// ErrUnknownModel naming the model when none does.
func (r *Registry) Resolve(modelID string, creds Credentials) (Provider, error) {
	for _, p := range r.All(creds) {
		for _, m := range p.AvailableModels() {
			if m.ID == modelID {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
