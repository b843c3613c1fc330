package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"wayne-chat/internal/storage"
)

// IndexKey is the storage key holding the whole history index.
const IndexKey = "wayneAI_chatHistory"

// Store owns the history index. Every mutation rewrites the full index, so
// mutations are serialized to avoid lost updates.
type Store struct {
	mu sync.Mutex
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) loadIndex() *index {
	ix := newIndex()
	if !s.kv.Read(IndexKey, ix) {
		return newIndex()
	}
	return ix
}

// Append adds msg to the conversation, creating the conversation if needed.
// The first message of a conversation becomes its preview.
func (s *Store) Append(conversationID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ix := newIndex()
	if err := s.kv.Lookup(IndexKey, ix); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			ix = newIndex()
		case errors.Is(err, storage.ErrStorageCorruption):
			slog.Warn("replacing corrupted chat history", "error", err)
			ix = newIndex()
		default:
			// The stored index may be intact; rewriting it from scratch would
			// drop every other conversation.
			return fmt.Errorf("error loading history: %w", err)
		}
	}

	record, ok := ix.get(conversationID)
	if !ok {
		record = &conversationRecord{
			Messages:    []messageRecord{},
			Preview:     Preview(msg.Text),
			LastUpdated: msg.Timestamp.UnixMilli(),
		}
		ix.put(conversationID, record)
	}

	ts := msg.Timestamp.UnixMilli()
	record.Messages = append(record.Messages, messageRecord{
		Sender:    msg.Sender,
		Text:      msg.Text,
		Timestamp: ts,
	})
	record.LastUpdated = max(record.LastUpdated, ts)

	if err := s.kv.Write(IndexKey, ix); err != nil {
		slog.Error("error persisting chat history", "conversation_id", conversationID, "error", err)
		return fmt.Errorf("error saving message to history: %w", err)
	}
	return nil
}

// List returns every conversation, most recently updated first. Conversations
// with equal timestamps keep their index order.
func (s *Store) List() []Summary {
	s.mu.Lock()
	ix := s.loadIndex()
	s.mu.Unlock()

	summaries := make([]Summary, 0, len(ix.order))
	for _, id := range ix.order {
		record := ix.records[id]
		summaries = append(summaries, Summary{
			ID:          id,
			Preview:     record.Preview,
			LastUpdated: time.UnixMilli(record.LastUpdated),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastUpdated.After(summaries[j].LastUpdated)
	})
	return summaries
}

// Load returns the messages of a conversation in append order, or an empty
// slice if the conversation does not exist.
func (s *Store) Load(conversationID string) []Message {
	conversation, ok := s.Get(conversationID)
	if !ok {
		return []Message{}
	}
	return conversation.Messages
}

func (s *Store) Get(conversationID string) (Conversation, bool) {
	s.mu.Lock()
	ix := s.loadIndex()
	s.mu.Unlock()

	record, ok := ix.get(conversationID)
	if !ok {
		return Conversation{}, false
	}
	return record.conversation(conversationID), true
}

// ClearAll deletes the whole index.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(IndexKey); err != nil {
		return fmt.Errorf("error clearing history: %w", err)
	}
	slog.Info("chat history cleared")
	return nil
}
