// Package store abstracts where verbatim conversations live. The graph-backed
// implementation is canonical; the in-memory one is a process-lifetime
// fallback with no persistence across restarts. The backend is chosen once at
// startup from configuration, never probed per call.
package store

import (
	"context"

	"preference-graph/backend/internal/conversation"
	"preference-graph/backend/internal/graph"
)

// ConversationStore persists conversations and serves the "last n" reads.
type ConversationStore interface {
	// Append stores a conversation for the user and returns an episode id.
	Append(ctx context.Context, uid string, conv conversation.Conversation) (string, error)
	// Recent returns the user's n most recent conversations, newest first.
	// Zero stored conversations is graph.ErrNoConversations.
	Recent(ctx context.Context, uid string, n int) ([]conversation.Conversation, error)
}

// GraphStore stores conversations as Episode nodes linked to the user.
type GraphStore struct {
	repo *graph.Repository
}

// NewGraphStore creates the graph-backed store.
func NewGraphStore(repo *graph.Repository) *GraphStore {
	return &GraphStore{repo: repo}
}

func (s *GraphStore) Append(ctx context.Context, uid string, conv conversation.Conversation) (string, error) {
	return s.repo.CreateEpisode(ctx, uid, conv)
}

func (s *GraphStore) Recent(ctx context.Context, uid string, n int) ([]conversation.Conversation, error) {
	return s.repo.RecentConversations(ctx, uid, n)
}
