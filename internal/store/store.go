package store

import (
	"context"
	"encoding/json"
	"errors"

	"neuraldiscourse-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreateConversationParams contains parameters for creating a conversation.
// ModelC/SystemPromptC are nil for two-way conversations.
type CreateConversationParams struct {
	ID             uuid.UUID
	Title          string
	ModelA         string
	ModelB         string
	ModelC         *string
	SystemPromptA  *string
	SystemPromptB  *string
	SystemPromptC  *string
	StarterMessage string
}

// CreateMessageParams contains parameters for appending a message.
// RawResponse may be nil (human-injected messages carry no provider payload).
type CreateMessageParams struct {
	ConversationID uuid.UUID
	Role           models.Role
	ModelName      string
	Content        string
	RawResponse    json.RawMessage
	TokenCount     int
}

// Store defines the interface for database operations. This allows for
// mocking in tests and potential DB backend switching.
type Store interface {
	// Conversation operations
	CreateConversation(ctx context.Context, arg CreateConversationParams) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	// Message operations. Messages are append-only; each write is an
	// independent, immediately committed transaction.
	CreateMessage(ctx context.Context, arg CreateMessageParams) (*models.Message, error)
	ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
}
