package history

import (
	"fmt"
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// UnmarshalText accepts "ai", the sender name used by older clients, as an
// alias for SenderAssistant.
func (s *Sender) UnmarshalText(text []byte) error {
	switch string(text) {
	case string(SenderUser):
		*s = SenderUser
	case string(SenderAssistant), "ai":
		*s = SenderAssistant
	default:
		return fmt.Errorf("unknown message sender '%s'", text)
	}
	return nil
}

type Message struct {
	Sender    Sender
	Text      string
	Timestamp time.Time
}

type Conversation struct {
	ID          string
	Messages    []Message
	Preview     string
	LastUpdated time.Time
}

// Summary is the sidebar view of a conversation.
type Summary struct {
	ID          string
	Preview     string
	LastUpdated time.Time
}

const (
	previewLength = 30
	ellipsis      = "..."
)

// Preview truncates text to its first previewLength characters followed by
// an ellipsis. Shorter text is returned unchanged.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + ellipsis
}
