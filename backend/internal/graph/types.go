package graph

import (
	"fmt"

	"preference-graph/backend/internal/conversation"
)

// Episode is one stored conversation linked to a user.
type Episode struct {
	ID           string
	UID          string
	Conversation conversation.Conversation
}

// ErrNoConversations is returned by reads that require at least one stored
// episode for the user.
type ErrNoConversations struct {
	UID string
}

func (e ErrNoConversations) Error() string {
	return fmt.Sprintf("no conversations found for user %s", e.UID)
}

// ErrUnsafeIdentifier is returned when a fact carries a label or relation
// type that is not identifier-safe and therefore must not be interpolated
// into a query.
type ErrUnsafeIdentifier struct {
	Token string
}

func (e ErrUnsafeIdentifier) Error() string {
	return fmt.Sprintf("unsafe graph identifier: %q", e.Token)
}
