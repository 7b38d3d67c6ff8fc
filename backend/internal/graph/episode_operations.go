package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"preference-graph/backend/internal/conversation"
	"go.uber.org/zap"
)

// ============================================================================
// Episode Operations
// ============================================================================

// CreateEpisode stores the verbatim conversation as a new Episode node linked
// to the user. Episodes are append-only; there is no update path.
func (r *Repository) CreateEpisode(ctx context.Context, uid string, conv conversation.Conversation) (string, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	payload, err := json.Marshal(conv)
	if err != nil {
		return "", fmt.Errorf("failed to marshal conversation: %w", err)
	}

	episodeID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	query := `
		MERGE (u:User {uid: $uid})
		CREATE (e:Episode {
			id: $episodeID,
			conversation: $conversation,
			created_at: datetime($now)
		})
		MERGE (u)-[:CREATED]->(e)
		RETURN e.id as id
	`

	_, err = session.Run(ctx, query, map[string]interface{}{
		"uid":          uid,
		"episodeID":    episodeID,
		"conversation": string(payload),
		"now":          now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create episode: %w", err)
	}

	r.logger.Info("Episode created",
		zap.String("uid", uid),
		zap.String("episode_id", episodeID),
		zap.Int("turns", len(conv)),
	)
	return episodeID, nil
}

// RecentConversations returns the stored conversations of the user's n most
// recent episodes, newest first. Zero episodes is ErrNoConversations, not an
// empty slice. Episodes created in the same instant have undefined relative
// order.
func (r *Repository) RecentConversations(ctx context.Context, uid string, n int) ([]conversation.Conversation, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	if n < 1 {
		n = 1
	}

	query := `
		MATCH (u:User {uid: $uid})-[:CREATED]->(e:Episode)
		RETURN e.conversation as conv_json
		ORDER BY e.created_at DESC
		LIMIT $n
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
		"n":   n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent conversations: %w", err)
	}

	var convs []conversation.Conversation
	for result.Next(ctx) {
		raw := getStringFromRecord(result.Record(), "conv_json")
		var conv conversation.Conversation
		if err := json.Unmarshal([]byte(raw), &conv); err != nil {
			r.logger.Warn("Skipping episode with unreadable conversation payload",
				zap.String("uid", uid),
				zap.Error(err),
			)
			continue
		}
		convs = append(convs, conv)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversation records: %w", err)
	}

	if len(convs) == 0 {
		return nil, ErrNoConversations{UID: uid}
	}
	return convs, nil
}
