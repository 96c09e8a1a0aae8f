package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies which participant slot produced a message.
type Role string

const (
	RoleModelA Role = "model_a"
	RoleModelB Role = "model_b"
	RoleModelC Role = "model_c"
)

// ModelNameHuman is the model_name tag for messages injected by a human
// rather than generated by a provider.
const ModelNameHuman = "human"

// Conversation represents a configured dialogue between two or three models.
// The third slot (ModelC/SystemPromptC) is either fully populated or absent.
type Conversation struct {
	ID             uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	ModelA         string    `db:"model_a"`
	ModelB         string    `db:"model_b"`
	ModelC         *string   `db:"model_c"` // Pointer for nullable varchar
	SystemPromptA  *string   `db:"system_prompt_a"`
	SystemPromptB  *string   `db:"system_prompt_b"`
	SystemPromptC  *string   `db:"system_prompt_c"`
	StarterMessage string    `db:"starter_message"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Participants returns the number of participant slots (2 or 3).
func (c *Conversation) Participants() int {
	if c.ModelC != nil && *c.ModelC != "" {
		return 3
	}
	return 2
}

// Message is one persisted exchange in a conversation. Messages are
// append-only and totally ordered by creation time within their conversation.
type Message struct {
	ID             uuid.UUID       `db:"id"`
	ConversationID uuid.UUID       `db:"conversation_id"`
	Role           Role            `db:"role"`
	ModelName      string          `db:"model_name"`
	Content        string          `db:"content"`
	RawResponse    json.RawMessage `db:"raw_response"` // Full provider payload, kept for audit
	TokenCount     int             `db:"token_count"`
	CreatedAt      time.Time       `db:"created_at"`
}
