// Package extractor turns free-form LLM output into sanitized graph facts.
//
// Model output is not trusted to be valid JSON: responses are scanned for the
// first '[' and last ']' and only the substring between them is parsed.
// Anything unparseable degrades to zero facts rather than an error.
package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"preference-graph/backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	// DefaultRelation is used when the model omits the relation field.
	DefaultRelation = "REL"
	// PreferenceLabel is the canonical object label for preference facts.
	PreferenceLabel = "Preference"
	// RelationLikes is the single edge type all preference facts converge on.
	RelationLikes = "LIKES"
)

// Relationship is one raw record from the model's JSON array. All fields are
// optional; defaults are applied when building facts.
type Relationship struct {
	Relation   string `json:"relation"`
	Object     string `json:"object"`
	ObjectType string `json:"object_type"`
}

// Fact is a sanitized (relation, label, value) triple safe to upsert.
// RelationType and ObjectLabel only ever contain [A-Za-z0-9_].
type Fact struct {
	RelationType string
	ObjectLabel  string
	ObjectValue  string
}

var (
	nonAlnumRuns = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// ParseRelationships locates a JSON array in raw model output and decodes it.
// Returns nil for missing or unbalanced brackets and for malformed JSON;
// malformed output is never an error, only an empty extraction.
func ParseRelationships(raw string) []Relationship {
	body, ok := arrayBody(raw)
	if !ok {
		logger.Get().Warn("No JSON array found in model output",
			zap.Int("output_len", len(raw)),
		)
		return nil
	}

	var rels []Relationship
	if err := json.Unmarshal([]byte(body), &rels); err != nil {
		logger.Get().Warn("Failed to parse relationship array",
			zap.Error(err),
		)
		return nil
	}
	return rels
}

// ParseStringArray decodes a JSON array of strings from raw model output,
// with the same bracket-scan tolerance as ParseRelationships.
func ParseStringArray(raw string) []string {
	body, ok := arrayBody(raw)
	if !ok {
		return nil
	}

	var values []string
	if err := json.Unmarshal([]byte(body), &values); err != nil {
		logger.Get().Warn("Failed to parse string array",
			zap.Error(err),
		)
		return nil
	}
	return values
}

// arrayBody returns the substring from the first '[' through the last ']'.
func arrayBody(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// SanitizeRelationType collapses every run of non-alphanumeric characters to
// a single underscore, trims boundary underscores and upper-cases the result.
// Empty input (or input with no alphanumerics) yields DefaultRelation.
func SanitizeRelationType(s string) string {
	token := nonAlnumRuns.ReplaceAllString(s, "_")
	token = strings.Trim(token, "_")
	if token == "" {
		return DefaultRelation
	}
	return strings.ToUpper(token)
}

// NormalizeObjectLabel turns a raw object_type into a node label: whitespace
// trimmed, non-alphanumeric runs collapsed to single underscores, first
// character upper-cased with the remainder unchanged. Empty input falls back
// to PreferenceLabel.
func NormalizeObjectLabel(s string) string {
	token := nonAlnumRuns.ReplaceAllString(strings.TrimSpace(s), "_")
	token = strings.Trim(token, "_")
	if token == "" {
		return PreferenceLabel
	}
	runes := []rune(token)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// IsSafeIdentifier reports whether s may be interpolated into a Cypher label
// or relationship type position.
func IsSafeIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// ToFacts sanitizes raw relationships into upsertable facts. Facts with
// empty object values are kept; they become nodes keyed by the empty string.
// Any fact whose normalized label is PreferenceLabel gets RelationLikes as
// its edge type regardless of what the model put in the relation field.
func ToFacts(rels []Relationship) []Fact {
	facts := make([]Fact, 0, len(rels))
	for _, rel := range rels {
		label := NormalizeObjectLabel(rel.ObjectType)

		var relType string
		if label == PreferenceLabel {
			relType = RelationLikes
		} else {
			relation := rel.Relation
			if relation == "" {
				relation = DefaultRelation
			}
			relType = SanitizeRelationType(relation)
		}

		facts = append(facts, Fact{
			RelationType: relType,
			ObjectLabel:  label,
			ObjectValue:  rel.Object,
		})
	}
	return facts
}

// Extract is the full pipeline from raw model output to sanitized facts.
func Extract(raw string) []Fact {
	return ToFacts(ParseRelationships(raw))
}
