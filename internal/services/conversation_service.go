package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/orchestrator"
	"neuraldiscourse-backend/internal/providers"
	"neuraldiscourse-backend/internal/store"

	"github.com/google/uuid"
)

// ErrInvalidRequest marks validation failures so handlers can map them to
// 400 responses.
var ErrInvalidRequest = errors.New("invalid request")

const (
	defaultTurns = 5
	maxTurns     = 50
	defaultTitle = "Untitled"
)

// ConversationService handles conversation lifecycle, human message
// injection and run orchestration.
type ConversationService struct {
	store  store.Store
	runner *orchestrator.Runner
}

func NewConversationService(store store.Store, runner *orchestrator.Runner) *ConversationService {
	return &ConversationService{
		store:  store,
		runner: runner,
	}
}

// CreateConversation validates and persists a new conversation with its
// starter message. The third participant slot must be fully populated or
// entirely absent.
func (s *ConversationService) CreateConversation(ctx context.Context, req models.CreateConversationRequest) (*models.ConversationResponse, error) {
	if strings.TrimSpace(req.ModelA) == "" {
		return nil, fmt.Errorf("%w: model_a is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.ModelB) == "" {
		return nil, fmt.Errorf("%w: model_b is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.StarterMessage) == "" {
		return nil, fmt.Errorf("%w: starter_message is required", ErrInvalidRequest)
	}

	modelC := req.ModelC
	if modelC != nil && strings.TrimSpace(*modelC) == "" {
		modelC = nil
	}
	if modelC == nil && req.SystemPromptC != nil {
		return nil, fmt.Errorf("%w: system_prompt_c requires model_c", ErrInvalidRequest)
	}
	var systemPromptC *string
	if modelC != nil {
		systemPromptC = req.SystemPromptC
	}

	title := defaultTitle
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		title = *req.Title
	}

	conv, err := s.store.CreateConversation(ctx, store.CreateConversationParams{
		ID:             uuid.New(),
		Title:          title,
		ModelA:         req.ModelA,
		ModelB:         req.ModelB,
		ModelC:         modelC,
		SystemPromptA:  req.SystemPromptA,
		SystemPromptB:  req.SystemPromptB,
		SystemPromptC:  systemPromptC,
		StarterMessage: req.StarterMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation in store: %w", err)
	}

	log.Printf("[ConversationService] Created conversation %s (%d participants)", conv.ID, conv.Participants())
	return mapConversationToResponse(conv), nil
}

// GetConversation retrieves a conversation by ID.
func (s *ConversationService) GetConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	conv, err := s.store.GetConversationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err // Propagate not found error
		}
		return nil, fmt.Errorf("failed to get conversation from store: %w", err)
	}
	return mapConversationToResponse(conv), nil
}

// ListConversations retrieves all conversations, newest first.
func (s *ConversationService) ListConversations(ctx context.Context) ([]models.ConversationResponse, error) {
	convs, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations from store: %w", err)
	}

	resp := make([]models.ConversationResponse, 0, len(convs))
	for i := range convs {
		resp = append(resp, *mapConversationToResponse(&convs[i]))
	}
	return resp, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *ConversationService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteConversation(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete conversation from store: %w", err)
	}
	return nil
}

// ListMessages retrieves a conversation's message log in creation order.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.MessageResponse, error) {
	if _, err := s.store.GetConversationByID(ctx, conversationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to verify conversation: %w", err)
	}

	msgs, err := s.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from store: %w", err)
	}

	resp := make([]models.MessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, *mapMessageToResponse(&msgs[i]))
	}
	return resp, nil
}

// InjectMessage appends a human-authored message attributed to one of the
// participant slots. It participates in future context building like any
// other message; token count is zero and the model tag is "human".
func (s *ConversationService) InjectMessage(ctx context.Context, conversationID uuid.UUID, req models.InjectMessageRequest) (*models.MessageResponse, error) {
	var role models.Role
	switch req.Role {
	case models.InjectToA:
		role = models.RoleModelA
	case models.InjectToB:
		role = models.RoleModelB
	default:
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrInvalidRequest, models.InjectToA, models.InjectToB)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidRequest)
	}

	if _, err := s.store.GetConversationByID(ctx, conversationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to verify conversation: %w", err)
	}

	msg, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		ConversationID: conversationID,
		Role:           role,
		ModelName:      models.ModelNameHuman,
		Content:        req.Content,
		TokenCount:     0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist injected message: %w", err)
	}

	return mapMessageToResponse(msg), nil
}

// RunConversation starts an orchestration run and returns its event stream.
// A missing conversation is reported here, before any streaming begins.
func (s *ConversationService) RunConversation(ctx context.Context, conversationID uuid.UUID, req models.RunConversationRequest, creds providers.Credentials) (<-chan orchestrator.Event, error) {
	turns := req.Turns
	if turns == 0 {
		turns = defaultTurns
	}
	if turns < 1 || turns > maxTurns {
		return nil, fmt.Errorf("%w: turns must be between 1 and %d", ErrInvalidRequest, maxTurns)
	}

	conv, err := s.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get conversation from store: %w", err)
	}

	history, err := s.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	log.Printf("[ConversationService] Starting run for conversation %s: %d turns over %d prior messages", conv.ID, turns, len(history))
	return s.runner.Run(ctx, conv, history, turns, creds), nil
}

func mapConversationToResponse(conv *models.Conversation) *models.ConversationResponse {
	return &models.ConversationResponse{
		ID:             conv.ID,
		Title:          conv.Title,
		ModelA:         conv.ModelA,
		ModelB:         conv.ModelB,
		ModelC:         conv.ModelC,
		SystemPromptA:  conv.SystemPromptA,
		SystemPromptB:  conv.SystemPromptB,
		SystemPromptC:  conv.SystemPromptC,
		StarterMessage: conv.StarterMessage,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
	}
}

func mapMessageToResponse(msg *models.Message) *models.MessageResponse {
	return &models.MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		ModelName:      msg.ModelName,
		Content:        msg.Content,
		TokenCount:     msg.TokenCount,
		CreatedAt:      msg.CreatedAt,
	}
}
