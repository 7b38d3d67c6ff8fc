package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EnsureUser idempotently creates the user node keyed by uid. Repeated calls
// with the same uid never create a second node.
func (r *Repository) EnsureUser(ctx context.Context, uid string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `MERGE (u:User {uid: $uid})`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	r.logger.Debug("User node ensured", zap.String("uid", uid))
	return nil
}
