package store

import (
	"context"
	"sync"

	"preference-graph/backend/internal/conversation"
	"preference-graph/backend/internal/graph"
)

// MemoryStore keeps per-user conversation history in process memory.
// Contents are lost on restart. Episode ids are the uid itself, matching the
// convention for stores that do not model discrete episodes.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string][]conversation.Conversation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		convs: make(map[string][]conversation.Conversation),
	}
}

func (s *MemoryStore) Append(_ context.Context, uid string, conv conversation.Conversation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[uid] = append(s.convs[uid], conv)
	return uid, nil
}

func (s *MemoryStore) Recent(_ context.Context, uid string, n int) ([]conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.convs[uid]
	if len(history) == 0 {
		return nil, graph.ErrNoConversations{UID: uid}
	}
	if n < 1 {
		n = 1
	}
	if n > len(history) {
		n = len(history)
	}

	// History is append-ordered; reads are newest first.
	out := make([]conversation.Conversation, 0, n)
	for i := len(history) - 1; i >= len(history)-n; i-- {
		out = append(out, history[i])
	}
	return out, nil
}
