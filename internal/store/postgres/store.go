package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id              UUID PRIMARY KEY,
    title           VARCHAR(255) NOT NULL DEFAULT 'Untitled',
    model_a         VARCHAR(100) NOT NULL,
    model_b         VARCHAR(100) NOT NULL,
    model_c         VARCHAR(100),
    system_prompt_a TEXT,
    system_prompt_b TEXT,
    system_prompt_c TEXT,
    starter_message TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS messages (
    id              UUID PRIMARY KEY,
    conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    role            VARCHAR(50) NOT NULL,
    model_name      VARCHAR(100) NOT NULL,
    content         TEXT NOT NULL,
    raw_response    JSONB,
    token_count     INTEGER NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
    ON messages (conversation_id, created_at);
`

// InitSchema creates the tables if they do not exist yet. Called once at
// startup; safe to re-run.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("database error initializing schema: %w", err)
	}
	return nil
}

// --- Conversation Methods ---

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (
    id, title, model_a, model_b, model_c, system_prompt_a, system_prompt_b, system_prompt_c, starter_message
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
RETURNING id, title, model_a, model_b, model_c, system_prompt_a, system_prompt_b, system_prompt_c, starter_message, created_at, updated_at;
`

func (s *PostgresStore) CreateConversation(ctx context.Context, arg store.CreateConversationParams) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, createConversation,
		arg.ID,
		arg.Title,
		arg.ModelA,
		arg.ModelB,
		arg.ModelC, // pgx handles *string to NULL automatically
		arg.SystemPromptA,
		arg.SystemPromptB,
		arg.SystemPromptC,
		arg.StarterMessage,
	)
	conv, err := scanConversation(row)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateConversation: Failed to insert conversation %s: %v", arg.ID, err)
		return nil, fmt.Errorf("database error creating conversation: %w", err)
	}
	return conv, nil
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, title, model_a, model_b, model_c, system_prompt_a, system_prompt_b, system_prompt_c, starter_message, created_at, updated_at
FROM conversations
WHERE id = $1;
`

func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, getConversationByID, id)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}
	return conv, nil
}

const listConversations = `-- name: ListConversations :many
SELECT id, title, model_a, model_b, model_c, system_prompt_a, system_prompt_b, system_prompt_c, starter_message, created_at, updated_at
FROM conversations
ORDER BY created_at DESC;
`

func (s *PostgresStore) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	rows, err := s.db.Query(ctx, listConversations)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var items []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, *conv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return items, nil
}

const deleteConversation = `-- name: DeleteConversation :exec
DELETE FROM conversations
WHERE id = $1;
`

// DeleteConversation removes a conversation; its messages go with it via
// the ON DELETE CASCADE constraint.
func (s *PostgresStore) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, deleteConversation, id)
	if err != nil {
		return fmt.Errorf("error executing delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Message Methods ---

const createMessage = `-- name: CreateMessage :one
INSERT INTO messages (
    id, conversation_id, role, model_name, content, raw_response, token_count
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
)
RETURNING id, conversation_id, role, model_name, content, raw_response, token_count, created_at;
`

func (s *PostgresStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	row := s.db.QueryRow(ctx, createMessage,
		uuid.New(),
		arg.ConversationID,
		arg.Role,
		arg.ModelName,
		arg.Content,
		arg.RawResponse, // pgx handles json.RawMessage to JSONB, nil to NULL
		arg.TokenCount,
	)

	var msg models.Message
	err := row.Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&msg.ModelName,
		&msg.Content,
		&msg.RawResponse,
		&msg.TokenCount,
		&msg.CreatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateMessage: Failed to insert message for conversation %s: %v", arg.ConversationID, err)
		return nil, fmt.Errorf("database error creating message: %w", err)
	}
	return &msg, nil
}

const listMessagesByConversation = `-- name: ListMessagesByConversation :many
SELECT id, conversation_id, role, model_name, content, raw_response, token_count, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at, id;
`

func (s *PostgresStore) ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listMessagesByConversation, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.ModelName,
			&msg.Content,
			&msg.RawResponse,
			&msg.TokenCount,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		items = append(items, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return items, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(row scanner) (*models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.Title,
		&conv.ModelA,
		&conv.ModelB,
		&conv.ModelC,
		&conv.SystemPromptA,
		&conv.SystemPromptB,
		&conv.SystemPromptC,
		&conv.StarterMessage,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
