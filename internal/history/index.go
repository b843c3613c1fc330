package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type messageRecord struct {
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type conversationRecord struct {
	Messages    []messageRecord `json:"messages"`
	Preview     string          `json:"preview"`
	LastUpdated int64           `json:"lastUpdated"`
}

func (r *conversationRecord) conversation(id string) Conversation {
	messages := make([]Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, Message{Sender: m.Sender, Text: m.Text, Timestamp: time.UnixMilli(m.Timestamp)})
	}
	return Conversation{
		ID:          id,
		Messages:    messages,
		Preview:     r.Preview,
		LastUpdated: time.UnixMilli(r.LastUpdated),
	}
}

// index is the persisted mapping of conversation id to record. It is encoded
// as a JSON object whose key order is kept across decode/encode.
type index struct {
	order   []string
	records map[string]*conversationRecord
}

func newIndex() *index {
	return &index{records: make(map[string]*conversationRecord)}
}

func (ix *index) get(id string) (*conversationRecord, bool) {
	r, ok := ix.records[id]
	return r, ok
}

func (ix *index) put(id string, r *conversationRecord) {
	if _, ok := ix.records[id]; !ok {
		ix.order = append(ix.order, id)
	}
	ix.records[id] = r
}

func (ix *index) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ix.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(ix.records[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ix *index) UnmarshalJSON(data []byte) error {
	ix.order = nil
	ix.records = make(map[string]*conversationRecord)

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("history index must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid conversation id %v", tok)
		}

		var record *conversationRecord
		if err := dec.Decode(&record); err != nil {
			return fmt.Errorf("invalid record for conversation '%s': %w", id, err)
		}
		if record == nil {
			continue
		}
		ix.put(id, record)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
