package conversation

import (
	"strings"
)

// Speaker values as they appear in ingested payloads.
const (
	SpeakerAI   = "AI"
	SpeakerUser = "User"
)

// Turn is a single utterance in a conversation.
type Turn struct {
	Speaker string `json:"speaker" binding:"required"`
	Text    string `json:"text"`
}

// Conversation is an ordered sequence of turns. Conversations are immutable
// once stored; re-ingesting creates a new episode rather than mutating one.
type Conversation []Turn

// FormatTurns renders turns as "<speaker>: <text>" lines for LLM prompts.
func FormatTurns(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.Speaker+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

// FormatConversations renders multiple conversations as blank-line separated
// blocks, preserving the given order.
func FormatConversations(convs []Conversation) string {
	blocks := make([]string, 0, len(convs))
	for _, c := range convs {
		blocks = append(blocks, FormatTurns(c))
	}
	return strings.Join(blocks, "\n\n")
}
