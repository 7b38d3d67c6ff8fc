package graph

import (
	"context"
	"fmt"

	"preference-graph/backend/internal/extractor"
)

// ============================================================================
// Preference Operations
// ============================================================================

// TopPreferences returns up to k preference values reachable via the
// canonical LIKES edge. Ordering is store-defined: stable for identical
// underlying data, but otherwise unspecified.
func (r *Repository) TopPreferences(ctx context.Context, uid string, k int) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	if k < 1 {
		k = 5
	}

	query := fmt.Sprintf(
		`MATCH (u:User {uid: $uid})-[:%s]->(p:%s) RETURN p.name as name LIMIT $k`,
		extractor.RelationLikes, extractor.PreferenceLabel,
	)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
		"k":   k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}

	var prefs []string
	for result.Next(ctx) {
		prefs = append(prefs, getStringFromRecord(result.Record(), "name"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read preference records: %w", err)
	}

	return prefs, nil
}
