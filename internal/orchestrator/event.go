package orchestrator

import (
	"encoding/json"
	"io"

	"neuraldiscourse-backend/internal/models"
)

// EventType discriminates the four stream record kinds.
type EventType string

const (
	EventStart   EventType = "start"
	EventMessage EventType = "message"
	EventError   EventType = "error"
	EventDone    EventType = "done"
)

// Event is one self-contained stream record. Only the fields relevant to
// the event type are populated; the rest are omitted from the encoding.
type Event struct {
	Type    EventType   `json:"type"`
	Role    models.Role `json:"role,omitempty"`
	Model   string      `json:"model,omitempty"`
	Content string      `json:"content,omitempty"`
	Tokens  *int        `json:"tokens,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StartEvent announces that a slot's provider is being invoked.
func StartEvent(role models.Role, model string) Event {
	return Event{Type: EventStart, Role: role, Model: model}
}

// MessageEvent carries a completed, already-persisted turn.
func MessageEvent(role models.Role, model, content string, tokens int) Event {
	return Event{Type: EventMessage, Role: role, Model: model, Content: content, Tokens: &tokens}
}

// ErrorEvent reports a failure that aborts the remaining turns.
func ErrorEvent(detail string) Event {
	return Event{Type: EventError, Error: detail}
}

// DoneEvent terminates the stream. Exactly one is emitted per run.
func DoneEvent() Event {
	return Event{Type: EventDone}
}

// flusher is satisfied by http.ResponseWriter implementations that support
// incremental delivery.
type flusher interface {
	Flush()
}

// Encoder serializes events as newline-delimited JSON, flushing after each
// record so a consumer sees events as they are produced rather than when
// the response buffer fills.
type Encoder struct {
	enc   *json.Encoder
	flush func()
}

func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{enc: json.NewEncoder(w)}
	if f, ok := w.(flusher); ok {
		e.flush = f.Flush
	}
	return e
}

// Encode writes one event as a single JSON line.
func (e *Encoder) Encode(ev Event) error {
	if err := e.enc.Encode(ev); err != nil {
		return err
	}
	if e.flush != nil {
		e.flush()
	}
	return nil
}
