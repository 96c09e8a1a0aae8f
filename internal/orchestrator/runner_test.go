package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/providers"
	"neuraldiscourse-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records persisted messages in memory.
type fakeWriter struct {
	mu       sync.Mutex
	messages []store.CreateMessageParams
	failAt   int // 1-based call number that fails; 0 means never
	calls    int
}

func (f *fakeWriter) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return nil, errors.New("disk on fire")
	}
	f.messages = append(f.messages, arg)
	return &models.Message{
		ID:             uuid.New(),
		ConversationID: arg.ConversationID,
		Role:           arg.Role,
		ModelName:      arg.ModelName,
		Content:        arg.Content,
		RawResponse:    arg.RawResponse,
		TokenCount:     arg.TokenCount,
		CreatedAt:      time.Now(),
	}, nil
}

func (f *fakeWriter) persisted() []store.CreateMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.CreateMessageParams(nil), f.messages...)
}

type chatCall struct {
	messages     []providers.ChatMessage
	model        string
	systemPrompt string
}

// fakeProvider answers every model with a numbered reply and records the
// exact requests it receives.
type fakeProvider struct {
	mu     sync.Mutex
	calls  []chatCall
	failAt int // 1-based call number that fails; 0 means never
}

func (f *fakeProvider) Name() string                           { return "fake" }
func (f *fakeProvider) Configured() bool                       { return true }
func (f *fakeProvider) AvailableModels() []providers.ModelInfo { return nil }

func (f *fakeProvider) Chat(ctx context.Context, messages []providers.ChatMessage, model string, systemPrompt string) (*providers.ChatResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, chatCall{
		messages:     append([]providers.ChatMessage(nil), messages...),
		model:        model,
		systemPrompt: systemPrompt,
	})
	if f.failAt != 0 && len(f.calls) == f.failAt {
		return nil, errors.New("rate limited")
	}
	return &providers.ChatResult{
		Content:      fmt.Sprintf("reply-%d", len(f.calls)),
		Model:        model,
		Raw:          json.RawMessage(`{"ok":true}`),
		InputTokens:  7,
		OutputTokens: 5,
	}, nil
}

func (f *fakeProvider) recorded() []chatCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chatCall(nil), f.calls...)
}

// fakeResolver serves a fixed model -> provider table.
type fakeResolver struct {
	known map[string]providers.Provider
}

func (f *fakeResolver) Resolve(modelID string, creds providers.Credentials) (providers.Provider, error) {
	if p, ok := f.known[modelID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", providers.ErrUnknownModel, modelID)
}

func collect(events <-chan Event) []Event {
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func newTestConversation(threeWay bool) *models.Conversation {
	promptA := "You are participant A."
	promptB := "You are participant B."
	conv := &models.Conversation{
		ID:             uuid.New(),
		ModelA:         "model-a-id",
		ModelB:         "model-b-id",
		SystemPromptA:  &promptA,
		SystemPromptB:  &promptB,
		StarterMessage: "Let's debate free will.",
	}
	if threeWay {
		modelC := "model-c-id"
		conv.ModelC = &modelC
	}
	return conv
}

func newTestRunner(w *fakeWriter, p providers.Provider, known ...string) *Runner {
	table := make(map[string]providers.Provider, len(known))
	for _, id := range known {
		table[id] = p
	}
	return NewRunner(w, &fakeResolver{known: table}, 0)
}

func TestRunner_TwoWayHappyPath(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{}
	r := newTestRunner(w, p, "model-a-id", "model-b-id")
	conv := newTestConversation(false)

	events := collect(r.Run(context.Background(), conv, nil, 3, providers.Credentials{}))

	require.Equal(t, []EventType{
		EventStart, EventMessage,
		EventStart, EventMessage,
		EventStart, EventMessage,
		EventDone,
	}, eventTypes(events))

	// B opens by replying to the human starter, then strict alternation.
	assert.Equal(t, models.RoleModelB, events[0].Role)
	assert.Equal(t, models.RoleModelA, events[2].Role)
	assert.Equal(t, models.RoleModelB, events[4].Role)
	assert.Equal(t, "model-b-id", events[0].Model)

	msgEv := events[1]
	assert.Equal(t, "reply-1", msgEv.Content)
	require.NotNil(t, msgEv.Tokens)
	assert.Equal(t, 12, *msgEv.Tokens)

	persisted := w.persisted()
	require.Len(t, persisted, 3)
	assert.Equal(t, models.RoleModelB, persisted[0].Role)
	assert.Equal(t, models.RoleModelA, persisted[1].Role)
	assert.Equal(t, models.RoleModelB, persisted[2].Role)
	assert.Equal(t, 12, persisted[0].TokenCount)
	assert.Equal(t, json.RawMessage(`{"ok":true}`), persisted[0].RawResponse)

	calls := p.recorded()
	require.Len(t, calls, 3)

	// First call: B sees only the starter, tagged as counterpart.
	require.Len(t, calls[0].messages, 1)
	assert.Equal(t, providers.ChatRoleUser, calls[0].messages[0].Role)
	assert.Equal(t, conv.StarterMessage, calls[0].messages[0].Content)

	// Second call: A sees B's reply as counterpart, no starter.
	require.Len(t, calls[1].messages, 1)
	assert.Equal(t, providers.ChatRoleUser, calls[1].messages[0].Role)
	assert.Equal(t, "reply-1", calls[1].messages[0].Content)

	// The human-seed note goes out once, on the very first turn only.
	assert.True(t, strings.HasPrefix(calls[0].systemPrompt, humanSeedNote))
	assert.Contains(t, calls[0].systemPrompt, "You are participant B.")
	assert.Equal(t, "You are participant A.", calls[1].systemPrompt)
	assert.Equal(t, "You are participant B.", calls[2].systemPrompt)
}

func TestRunner_ThreeWayRotation(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{}
	r := newTestRunner(w, p, "model-a-id", "model-b-id", "model-c-id")
	conv := newTestConversation(true)

	events := collect(r.Run(context.Background(), conv, nil, 3, providers.Credentials{}))

	require.Equal(t, EventDone, events[len(events)-1].Type)
	persisted := w.persisted()
	require.Len(t, persisted, 3)
	assert.Equal(t, models.RoleModelB, persisted[0].Role)
	assert.Equal(t, models.RoleModelC, persisted[1].Role)
	assert.Equal(t, models.RoleModelA, persisted[2].Role)
}

func TestRunner_ResumesFromPersistedHistory(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{}
	r := newTestRunner(w, p, "model-a-id", "model-b-id")
	conv := newTestConversation(false)
	history := []models.Message{
		{Role: models.RoleModelB, Content: "earlier reply"},
	}

	events := collect(r.Run(context.Background(), conv, history, 1, providers.Credentials{}))

	require.Equal(t, []EventType{EventStart, EventMessage, EventDone}, eventTypes(events))
	assert.Equal(t, models.RoleModelA, events[0].Role)

	calls := p.recorded()
	require.Len(t, calls, 1)
	// Prior history only, no starter injection, no seed note.
	require.Len(t, calls[0].messages, 1)
	assert.Equal(t, "earlier reply", calls[0].messages[0].Content)
	assert.Equal(t, "You are participant A.", calls[0].systemPrompt)
}

func TestRunner_ProviderFailureAbortsRemainingTurns(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{failAt: 2}
	r := newTestRunner(w, p, "model-a-id", "model-b-id")
	conv := newTestConversation(false)

	events := collect(r.Run(context.Background(), conv, nil, 3, providers.Credentials{}))

	require.Equal(t, []EventType{
		EventStart, EventMessage,
		EventStart, EventError,
		EventDone,
	}, eventTypes(events))
	assert.Contains(t, events[3].Error, "rate limited")

	// Turn 2 of 3 failed: exactly one message survives.
	assert.Len(t, w.persisted(), 1)
}

func TestRunner_PersistFailureAbortsRemainingTurns(t *testing.T) {
	w := &fakeWriter{failAt: 1}
	p := &fakeProvider{}
	r := newTestRunner(w, p, "model-a-id", "model-b-id")
	conv := newTestConversation(false)

	events := collect(r.Run(context.Background(), conv, nil, 3, providers.Credentials{}))

	require.Equal(t, []EventType{EventStart, EventError, EventDone}, eventTypes(events))
	assert.Contains(t, events[1].Error, "failed to persist message")
	assert.Empty(t, w.persisted())
}

func TestRunner_UnresolvableModelSurfacesBeforeAnyTurn(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{}
	// C's model is missing from the resolver table.
	r := newTestRunner(w, p, "model-a-id", "model-b-id")
	conv := newTestConversation(true)

	events := collect(r.Run(context.Background(), conv, nil, 1, providers.Credentials{}))

	require.Equal(t, []EventType{EventError, EventDone}, eventTypes(events))
	assert.Contains(t, events[0].Error, "Model C error:")
	assert.Contains(t, events[0].Error, "model-c-id")
	assert.Empty(t, w.persisted(), "no turn may execute when a required slot cannot resolve")
	assert.Empty(t, p.recorded())
}

func TestRunner_PersistHappensBeforeEmit(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{}
	r := newTestRunner(w, p, "model-a-id", "model-b-id")
	conv := newTestConversation(false)

	events := r.Run(context.Background(), conv, nil, 1, providers.Credentials{})
	for ev := range events {
		if ev.Type == EventMessage {
			// The message event is in hand, so the write must have committed.
			assert.NotEmpty(t, w.persisted())
		}
	}
}

func TestRunner_CancelledConsumerStopsRun(t *testing.T) {
	w := &fakeWriter{}
	p := &fakeProvider{}
	// Long pacing delay parks the runner between turns.
	table := map[string]providers.Provider{"model-a-id": p, "model-b-id": p}
	r := NewRunner(w, &fakeResolver{known: table}, time.Hour)
	conv := newTestConversation(false)

	ctx, cancel := context.WithCancel(context.Background())
	events := r.Run(ctx, conv, nil, 2, providers.Credentials{})

	require.Equal(t, EventStart, (<-events).Type)
	require.Equal(t, EventMessage, (<-events).Type)
	cancel()

	rest := collect(events)
	for _, ev := range rest {
		assert.NotEqual(t, EventMessage, ev.Type, "no further turns after the consumer is gone")
	}
	assert.Len(t, w.persisted(), 1)
	assert.Len(t, p.recorded(), 1)
}
