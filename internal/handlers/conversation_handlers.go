package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/orchestrator"
	"neuraldiscourse-backend/internal/providers"
	"neuraldiscourse-backend/internal/services"
	"neuraldiscourse-backend/internal/store"
	"neuraldiscourse-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ConversationHandlers handles HTTP requests for conversations, messages
// and orchestration runs.
type ConversationHandlers struct {
	conversationService *services.ConversationService
}

func NewConversationHandlers(conversationService *services.ConversationService) *ConversationHandlers {
	return &ConversationHandlers{
		conversationService: conversationService,
	}
}

// HandleCreateConversation handles POST /api/conversations.
func (h *ConversationHandlers) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv, err := h.conversationService.CreateConversation(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, conv)
}

// HandleListConversations handles GET /api/conversations.
func (h *ConversationHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.conversationService.ListConversations(r.Context())
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, convs)
}

// HandleGetConversation handles GET /api/conversations/{conversationID}.
func (h *ConversationHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationIDFromURL(w, r)
	if !ok {
		return
	}

	conv, err := h.conversationService.GetConversation(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// HandleDeleteConversation handles DELETE /api/conversations/{conversationID}.
func (h *ConversationHandlers) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleListMessages handles GET /api/conversations/{conversationID}/messages.
func (h *ConversationHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationIDFromURL(w, r)
	if !ok {
		return
	}

	msgs, err := h.conversationService.ListMessages(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, msgs)
}

// HandleInjectMessage handles POST /api/conversations/{conversationID}/messages.
// It appends a human-authored message attributed to one participant slot.
func (h *ConversationHandlers) HandleInjectMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationIDFromURL(w, r)
	if !ok {
		return
	}

	var req models.InjectMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.conversationService.InjectMessage(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to inject message")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// HandleRunConversation handles POST /api/conversations/{conversationID}/run.
// Errors are reported as JSON before streaming begins; once the run starts,
// the response is an NDJSON event stream, one event per line, terminated by
// a done event.
func (h *ConversationHandlers) HandleRunConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationIDFromURL(w, r)
	if !ok {
		return
	}

	var req models.RunConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	creds := providers.CredentialsFromHeader(r.Header)

	events, err := h.conversationService.RunConversation(r.Context(), id, req, creds)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to start run")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := orchestrator.NewEncoder(w)
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			// Consumer is gone; the run observes the cancelled request
			// context and stops on its own.
			log.Printf("[ConversationHandlers] Stream write failed for conversation %s: %v", id, err)
			return
		}
	}
}

// conversationIDFromURL parses the conversationID URL parameter, writing a
// 400 response on failure.
func conversationIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "conversationID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return uuid.Nil, false
	}
	return id, true
}
