package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// CreateConversationRequest defines the body for creating a conversation.
// ModelC/SystemPromptC configure the optional third participant slot; a
// system prompt for C without a model for C is rejected.
type CreateConversationRequest struct {
	Title          *string `json:"title,omitempty"`
	ModelA         string  `json:"model_a"`
	ModelB         string  `json:"model_b"`
	ModelC         *string `json:"model_c,omitempty"`
	SystemPromptA  *string `json:"system_prompt_a,omitempty"`
	SystemPromptB  *string `json:"system_prompt_b,omitempty"`
	SystemPromptC  *string `json:"system_prompt_c,omitempty"`
	StarterMessage string  `json:"starter_message"`
}

// RunConversationRequest defines the body for running a conversation.
// Turns is the number of automated exchanges to drive (1-50, default 5).
type RunConversationRequest struct {
	Turns int `json:"turns"`
}

// InjectTarget selects which participant a human-injected message is
// attributed to.
type InjectTarget string

const (
	InjectToA InjectTarget = "user_to_a" // Persisted as role model_a
	InjectToB InjectTarget = "user_to_b" // Persisted as role model_b
)

// InjectMessageRequest defines the body for injecting a human-authored
// message into a conversation's history.
type InjectMessageRequest struct {
	Role    InjectTarget `json:"role"`
	Content string       `json:"content"`
}

// --- Response Structs ---

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConversationResponse defines the conversation data returned by the API.
type ConversationResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	ModelA         string    `json:"model_a"`
	ModelB         string    `json:"model_b"`
	ModelC         *string   `json:"model_c,omitempty"`
	SystemPromptA  *string   `json:"system_prompt_a,omitempty"`
	SystemPromptB  *string   `json:"system_prompt_b,omitempty"`
	SystemPromptC  *string   `json:"system_prompt_c,omitempty"`
	StarterMessage string    `json:"starter_message"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageResponse defines the message data returned by the API. The raw
// provider payload is retained server-side only and not exposed here.
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           Role      `json:"role"`
	ModelName      string    `json:"model_name"`
	Content        string    `json:"content"`
	TokenCount     int       `json:"token_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ModelResponse is one entry in the flat model catalog.
type ModelResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
}

// ProviderStatusResponse reports whether a provider is usable and which
// models it serves.
type ProviderStatusResponse struct {
	Name       string          `json:"name"`
	Configured bool            `json:"configured"`
	Models     []ModelResponse `json:"models"`
}
