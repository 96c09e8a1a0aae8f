// Package orchestrator contains the turn orchestration engine: the
// scheduler that decides who speaks next, the per-slot perspective builder,
// the run loop that drives sequential provider calls, and the event stream
// those runs produce.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/providers"
	"neuraldiscourse-backend/internal/store"
)

// humanSeedNote is prepended to the first speaker's system prompt on the
// very first turn over an empty history, so models know the opening message
// was not machine-generated. It is added exactly once per conversation.
const humanSeedNote = "Note: the first message in this conversation was written by a human to start the discussion. All messages after it are generated by AI models."

const persistTimeout = 10 * time.Second

// MessageWriter is the narrow persistence surface the runner needs. Each
// turn is persisted as its own short-lived write, committed before the
// corresponding message event is emitted.
type MessageWriter interface {
	CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error)
}

// Resolver maps a model identifier to the provider that serves it, using
// caller-supplied credentials in preference to configured defaults.
type Resolver interface {
	Resolve(modelID string, creds providers.Credentials) (providers.Provider, error)
}

// Runner drives automated turns for conversations. Turns within one run are
// strictly sequential; independent runs may execute concurrently because the
// runner keeps no state between calls.
type Runner struct {
	store     MessageWriter
	registry  Resolver
	turnDelay time.Duration
}

func NewRunner(store MessageWriter, registry Resolver, turnDelay time.Duration) *Runner {
	return &Runner{
		store:     store,
		registry:  registry,
		turnDelay: turnDelay,
	}
}

// slot bundles one participant's configuration with its resolved provider.
type slot struct {
	role         models.Role
	model        string
	systemPrompt string
	provider     providers.Provider
}

// Run executes up to turns automated exchanges against the conversation and
// returns the event stream. The channel is closed after the terminal done
// event. Cancelling ctx stops the run: no further provider calls or writes
// are made once the consumer is gone.
func (r *Runner) Run(ctx context.Context, conv *models.Conversation, history []models.Message, turns int, creds providers.Credentials) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		r.run(ctx, conv, history, turns, creds, events)
	}()
	return events
}

func (r *Runner) run(ctx context.Context, conv *models.Conversation, history []models.Message, turns int, creds providers.Credentials, events chan<- Event) {
	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	perspectives := BuildPerspectives(conv, history)

	// Pre-flight: resolve every slot this run will need, so an unresolvable
	// model surfaces before any turn is attempted.
	slots := make(map[models.Role]*slot, conv.Participants())
	for _, s := range participantSlots(conv) {
		p, err := r.registry.Resolve(s.model, creds)
		if err != nil {
			emit(ErrorEvent(fmt.Sprintf("Model %s error: %v", slotLabel(s.role), err)))
			emit(DoneEvent())
			return
		}
		s.provider = p
		slots[s.role] = s
	}

	next := NextSpeaker(conv.Participants(), LastRole(history))
	firstTurn := len(history) == 0

	for i := 0; i < turns; i++ {
		s := slots[next]

		if !emit(StartEvent(s.role, s.model)) {
			return
		}

		systemPrompt := s.systemPrompt
		if firstTurn {
			systemPrompt = joinPrompt(humanSeedNote, s.systemPrompt)
			firstTurn = false
		}

		result, err := s.provider.Chat(ctx, perspectives[s.role], s.model, systemPrompt)
		if err != nil {
			log.Printf("[Runner] Provider call failed for conversation %s (%s/%s): %v", conv.ID, s.role, s.model, err)
			if !emit(ErrorEvent(err.Error())) {
				return
			}
			break
		}

		// Persist before emitting: a delivered message event must imply a
		// durable record. The write is detached from the request context so
		// a consumer disconnect cannot roll back a completed turn.
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		msg, err := r.store.CreateMessage(wctx, store.CreateMessageParams{
			ConversationID: conv.ID,
			Role:           s.role,
			ModelName:      s.model,
			Content:        result.Content,
			RawResponse:    result.Raw,
			TokenCount:     result.TotalTokens(),
		})
		cancel()
		if err != nil {
			log.Printf("[Runner] Failed to persist message for conversation %s: %v", conv.ID, err)
			if !emit(ErrorEvent(fmt.Sprintf("failed to persist message: %v", err))) {
				return
			}
			break
		}

		perspectives.Append(s.role, result.Content)

		if !emit(MessageEvent(s.role, s.model, result.Content, msg.TokenCount)) {
			return
		}

		next = NextSpeaker(conv.Participants(), s.role)

		// Fixed pacing delay so consecutive turns don't burst the provider APIs.
		select {
		case <-time.After(r.turnDelay):
		case <-ctx.Done():
			return
		}
	}

	emit(DoneEvent())
}

func participantSlots(conv *models.Conversation) []*slot {
	slots := []*slot{
		{role: models.RoleModelA, model: conv.ModelA, systemPrompt: deref(conv.SystemPromptA)},
		{role: models.RoleModelB, model: conv.ModelB, systemPrompt: deref(conv.SystemPromptB)},
	}
	if conv.Participants() == 3 {
		slots = append(slots, &slot{role: models.RoleModelC, model: *conv.ModelC, systemPrompt: deref(conv.SystemPromptC)})
	}
	return slots
}

func slotLabel(role models.Role) string {
	switch role {
	case models.RoleModelA:
		return "A"
	case models.RoleModelB:
		return "B"
	case models.RoleModelC:
		return "C"
	}
	return string(role)
}

func joinPrompt(note, prompt string) string {
	if prompt == "" {
		return note
	}
	return note + "\n\n" + prompt
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
