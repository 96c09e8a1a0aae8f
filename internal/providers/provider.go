// Package providers adapts the model vendor APIs (Anthropic, OpenAI, Groq,
// xAI) behind a single chat-completion interface and resolves model
// identifiers to the provider that serves them.
package providers

import (
	"context"
	"encoding/json"
	"net/http"
)

// ChatRole is the bilateral role a message carries in a provider request.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"      // Counterpart-authored
	ChatRoleAssistant ChatRole = "assistant" // Self-authored
)

// ChatMessage is one role-tagged entry in a provider request.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatResult is a completed provider response. Raw holds the full vendor
// payload for audit storage and is never reparsed by callers.
type ChatResult struct {
	Content      string
	Model        string
	Raw          json.RawMessage
	InputTokens  int
	OutputTokens int
}

// TotalTokens returns the summed input+output token usage.
func (r *ChatResult) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// ModelInfo describes one model a provider can serve.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
}

// Provider is the capability consumed by the orchestrator: given a
// role-tagged transcript, a model id and an optional system prompt, produce
// generated text plus token usage.
type Provider interface {
	Name() string
	AvailableModels() []ModelInfo
	Configured() bool
	Chat(ctx context.Context, messages []ChatMessage, model string, systemPrompt string) (*ChatResult, error)
}

// Header names for caller-supplied API keys. A caller key takes precedence
// over the process-wide key from configuration.
const (
	HeaderAnthropicKey = "X-Anthropic-Key"
	HeaderGroqKey      = "X-Groq-Key"
	HeaderOpenAIKey    = "X-OpenAI-Key"
	HeaderXAIKey       = "X-XAI-Key"
)

// Credentials carries caller-supplied provider API keys for a single
// request. Empty fields fall back to configured defaults.
type Credentials struct {
	Anthropic string
	Groq      string
	OpenAI    string
	XAI       string
}

// CredentialsFromHeader extracts caller-supplied keys from request headers.
func CredentialsFromHeader(h http.Header) Credentials {
	return Credentials{
		Anthropic: h.Get(HeaderAnthropicKey),
		Groq:      h.Get(HeaderGroqKey),
		OpenAI:    h.Get(HeaderOpenAIKey),
		XAI:       h.Get(HeaderXAIKey),
	}
}
