package session

import (
	"time"

	"wayne-chat/internal/history"
)

type State int

const (
	Idle State = iota
	AwaitingResponse
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

type EventKind string

const (
	EventMessageAdded        EventKind = "message-added"
	EventResponsePending     EventKind = "response-pending"
	EventSpeak               EventKind = "speak"
	EventError               EventKind = "error"
	EventHistoryChanged      EventKind = "history-changed"
	EventProgress            EventKind = "progress"
	EventConversationChanged EventKind = "conversation-changed"
)

// Event is a notification for the presentation layer. Only the fields that
// belong to Kind are set.
type Event struct {
	Kind           EventKind
	ConversationID string

	// message-added
	Sender    history.Sender
	Text      string
	Timestamp time.Time

	// response-pending
	Pending bool

	// speak
	Locale string

	// progress
	Progress int

	// conversation-changed
	Transcript []history.Message
}

// Listener receives events synchronously and in order. It is called while the
// controller holds its lock, so it must not call back into the controller.
type Listener func(Event)
