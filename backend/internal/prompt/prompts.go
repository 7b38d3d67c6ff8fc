// Package prompt holds the task-specific system instructions and builds the
// (system, user) message pairs sent to the LLM gateway.
package prompt

import (
	"fmt"
	"strings"

	"preference-graph/backend/internal/conversation"
)

// RELATIONSHIP_EXTRACTION_INSTRUCTION asks for a single JSON array of
// relation/object/object_type records covering the fact dimensions the graph
// models. The extractor tolerates wrapping prose, but the instruction still
// demands a bare array to keep output parseable at temperature 0.
const RELATIONSHIP_EXTRACTION_INSTRUCTION = `You are a relationship-extraction assistant. Given the full conversation between 'AI' and 'User', extract the user's expressed facts and preferences across many high-level dimensions:
  - problem           - the current issue, challenge, or pain point the user mentions
  - religion          - stated or implied spiritual / religious beliefs or affiliations
  - culture           - cultural background, traditions, or values the user identifies with
  - tone              - the overall emotional tone the user conveys (e.g. anxious, optimistic)
  - tone_sensitivity  - how sensitive the user appears to that tone (e.g. highly sensitive, mildly aware)
  - theme_resonance   - topics, metaphors, or themes that visibly resonate with the user
  - preference        - any explicit preference, coping strategy, or desire

You can also extract other facts and preferences that are not listed here, but only if they are explicitly mentioned in the conversation.
For each distinct fact you find, append a JSON object with these keys:
  "relation"    - one of ["PROBLEM", "RELIGION", "CULTURE", "TONE", "TONE_SENSITIVITY", "THEME_RESONANCE", "PREFERENCE"]
  "object"      - the extracted text snippet or a concise phrase capturing the fact
  "object_type" - a PascalCase node label (use Problem, Religion, Culture, Tone, ToneSensitivity, ThemeResonance, Preference respectively)

Return one JSON array (no additional text). Aim for 2-3 objects per conversation turn, but never repeat identical facts. Adhere strictly to only one JSON array.`

// NEXT_QUESTION_INSTRUCTION drives follow-up question generation.
const NEXT_QUESTION_INSTRUCTION = `You are a helpful assistant that generates the next follow-up question to learn about user preferences. Only output the question.`

// SUMMARY_INSTRUCTION drives concise conversation summarization.
const SUMMARY_INSTRUCTION = `You are a helpful assistant that summarizes the following conversation between AI and User concisely. Only output the summary.`

// CONTENT_SUMMARY_INSTRUCTION drives the publication-style summary variant.
const CONTENT_SUMMARY_INSTRUCTION = `You are a content creation assistant. Produce an in-depth summary for content publication.`

// PREFERENCE_EXTRACTION_INSTRUCTION drives the recent-preferences path, which
// re-derives preferences from stored conversations instead of the graph.
const PREFERENCE_EXTRACTION_INSTRUCTION = `You are a preference extraction assistant. Given the following conversations between 'AI' and 'User', extract all distinct preferences the user expresses. Output a JSON array of strings.`

// Extraction builds the relationship-extraction messages for one conversation.
func Extraction(turns []conversation.Turn) (system, user string) {
	return RELATIONSHIP_EXTRACTION_INSTRUCTION, conversation.FormatTurns(turns)
}

// NextQuestion builds the follow-up question messages from known preferences.
func NextQuestion(preferences []string) (system, user string) {
	if len(preferences) == 0 {
		return NEXT_QUESTION_INSTRUCTION, "Ask a question to learn about the user's preferences."
	}
	user = fmt.Sprintf(
		"User preferences so far: %s. Ask the next question to learn another preference.",
		strings.Join(preferences, ", "),
	)
	return NEXT_QUESTION_INSTRUCTION, user
}

// Summary builds the concise summarization messages over stored conversations.
func Summary(convs []conversation.Conversation) (system, user string) {
	return SUMMARY_INSTRUCTION, conversation.FormatConversations(convs)
}

// ContentSummary builds the publication-style summarization messages.
func ContentSummary(convs []conversation.Conversation) (system, user string) {
	user = "Create a rich, detailed content summary of these user-AI interactions:\n\n" +
		conversation.FormatConversations(convs)
	return CONTENT_SUMMARY_INSTRUCTION, user
}

// Preferences builds the preference re-extraction messages over stored
// conversations.
func Preferences(convs []conversation.Conversation) (system, user string) {
	return PREFERENCE_EXTRACTION_INSTRUCTION, conversation.FormatConversations(convs)
}
