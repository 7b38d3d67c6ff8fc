package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRelationType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation and space", "likes-to read!", "LIKES_TO_READ"},
		{"already clean", "PROBLEM", "PROBLEM"},
		{"lowercase", "religion", "RELIGION"},
		{"unicode symbols", "enjoys→reading", "ENJOYS_READING"},
		{"underscore runs", "a__b", "A_B"},
		{"leading and trailing junk", "  !!tone!!  ", "TONE"},
		{"empty", "", "REL"},
		{"only symbols", "!@#$", "REL"},
		{"digits kept", "top10 things", "TOP10_THINGS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeRelationType(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsSafeIdentifier(got))
		})
	}
}

func TestNormalizeObjectLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "preference", "Preference"},
		{"already capitalized", "Preference", "Preference"},
		{"pascal case preserved", "ToneSensitivity", "ToneSensitivity"},
		{"internal space", "tone sensitivity", "Tone_sensitivity"},
		{"surrounding whitespace", "  culture ", "Culture"},
		{"punctuation", "theme-resonance", "Theme_resonance"},
		{"empty", "", "Preference"},
		{"whitespace only", "   ", "Preference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeObjectLabel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsSafeIdentifier(got))
		})
	}
}

func TestParseRelationships_WrappedInProse(t *testing.T) {
	raw := `Sure! Here is what I found: [{"relation":"PREFERENCE","object":"hiking","object_type":"Preference"}] Hope that helps.`

	rels := ParseRelationships(raw)
	require.Len(t, rels, 1)
	assert.Equal(t, "PREFERENCE", rels[0].Relation)
	assert.Equal(t, "hiking", rels[0].Object)
	assert.Equal(t, "Preference", rels[0].ObjectType)
}

func TestParseRelationships_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no brackets", "I could not find any facts."},
		{"only opening bracket", "here you go: ["},
		{"only closing bracket", "done]"},
		{"reversed brackets", "] nothing here ["},
		{"non-JSON between brackets", "[this is not json]"},
		{"object instead of array", `{"relation":"X"}`},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseRelationships(tt.raw))
		})
	}
}

func TestParseRelationships_EmptyArray(t *testing.T) {
	assert.Empty(t, ParseRelationships("[]"))
}

func TestParseStringArray(t *testing.T) {
	raw := `The user's preferences are: ["reading", "hiking"]`
	assert.Equal(t, []string{"reading", "hiking"}, ParseStringArray(raw))

	assert.Empty(t, ParseStringArray("no array here"))
	assert.Empty(t, ParseStringArray("[1, 2, 3"))
}

func TestToFacts_PreferenceCanonicalization(t *testing.T) {
	rels := []Relationship{
		{Relation: "PREFERENCE", Object: "hiking", ObjectType: "Preference"},
		{Relation: "ENJOYS", Object: "tea", ObjectType: "preference"},
		{Relation: "whatever-else!", Object: "coffee", ObjectType: "Preference"},
	}

	facts := ToFacts(rels)
	require.Len(t, facts, 3)
	for _, f := range facts {
		assert.Equal(t, RelationLikes, f.RelationType)
		assert.Equal(t, PreferenceLabel, f.ObjectLabel)
	}
}

func TestToFacts_Defaults(t *testing.T) {
	facts := ToFacts([]Relationship{{}})
	require.Len(t, facts, 1)

	// Missing object_type defaults to Preference, which forces LIKES.
	assert.Equal(t, RelationLikes, facts[0].RelationType)
	assert.Equal(t, PreferenceLabel, facts[0].ObjectLabel)
	assert.Equal(t, "", facts[0].ObjectValue)
}

func TestToFacts_NonPreference(t *testing.T) {
	facts := ToFacts([]Relationship{
		{Relation: "struggles with", Object: "exam anxiety", ObjectType: "problem"},
	})
	require.Len(t, facts, 1)
	assert.Equal(t, "STRUGGLES_WITH", facts[0].RelationType)
	assert.Equal(t, "Problem", facts[0].ObjectLabel)
	assert.Equal(t, "exam anxiety", facts[0].ObjectValue)
}

func TestToFacts_MissingRelationOnNonPreference(t *testing.T) {
	facts := ToFacts([]Relationship{
		{Object: "buddhism", ObjectType: "Religion"},
	})
	require.Len(t, facts, 1)
	assert.Equal(t, "REL", facts[0].RelationType)
	assert.Equal(t, "Religion", facts[0].ObjectLabel)
}

func TestExtract_ExampleScenario(t *testing.T) {
	raw := `Sure! [{"relation":"PREFERENCE","object":"hiking","object_type":"Preference"}]`

	facts := Extract(raw)
	require.Len(t, facts, 1)
	assert.Equal(t, Fact{
		RelationType: "LIKES",
		ObjectLabel:  "Preference",
		ObjectValue:  "hiking",
	}, facts[0])
}
