package graph

import (
	"context"
	"fmt"

	"preference-graph/backend/internal/extractor"
	"go.uber.org/zap"
)

// ============================================================================
// Fact Operations
// ============================================================================

// UpsertFacts merges each fact's object node and user edge into the graph.
// Facts are processed in order; the first storage error aborts and leaves the
// facts written so far in place. Label and relation type are re-validated
// before interpolation even though the extractor already sanitized them.
func (r *Repository) UpsertFacts(ctx context.Context, uid string, facts []extractor.Fact) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	for _, fact := range facts {
		if !extractor.IsSafeIdentifier(fact.ObjectLabel) {
			return ErrUnsafeIdentifier{Token: fact.ObjectLabel}
		}
		if !extractor.IsSafeIdentifier(fact.RelationType) {
			return ErrUnsafeIdentifier{Token: fact.RelationType}
		}

		// Object values are parameterized; only the sanitized label and
		// relation type reach the query text itself.
		objectQuery := fmt.Sprintf(`MERGE (o:%s {name: $obj})`, fact.ObjectLabel)
		if _, err := session.Run(ctx, objectQuery, map[string]interface{}{
			"obj": fact.ObjectValue,
		}); err != nil {
			return fmt.Errorf("failed to merge object node: %w", err)
		}

		edgeQuery := fmt.Sprintf(
			`MATCH (u:User {uid: $uid}), (o:%s {name: $obj}) MERGE (u)-[:%s]->(o)`,
			fact.ObjectLabel, fact.RelationType,
		)
		if _, err := session.Run(ctx, edgeQuery, map[string]interface{}{
			"uid": uid,
			"obj": fact.ObjectValue,
		}); err != nil {
			return fmt.Errorf("failed to merge edge: %w", err)
		}

		r.logger.Info("Fact merged",
			zap.String("uid", uid),
			zap.String("relation", fact.RelationType),
			zap.String("label", fact.ObjectLabel),
		)
	}

	return nil
}
