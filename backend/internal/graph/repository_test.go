package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"preference-graph/backend/internal/conversation"
	"preference-graph/backend/internal/extractor"
)

// These tests require a running Neo4j instance at bolt://localhost:7687.
// Run with -short to skip them.

func createTestDriver() (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return driver, nil
}

func cleanupUser(ctx context.Context, driver neo4j.DriverWithContext, uid string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx,
		"MATCH (u:User {uid: $uid}) OPTIONAL MATCH (u)-->(n) DETACH DELETE u, n",
		map[string]interface{}{"uid": uid})
}

func countRows(t *testing.T, driver neo4j.DriverWithContext, query string, params map[string]interface{}) int {
	t.Helper()
	ctx := context.Background()
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("count query returned no row: %v", err)
	}
	return getIntFromRecord(record, "c")
}

func TestRepository_UpsertFacts_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	uid := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupUser(ctx, driver, uid)

	facts := []extractor.Fact{
		{RelationType: "LIKES", ObjectLabel: "Preference", ObjectValue: "hiking"},
		{RelationType: "STRUGGLES_WITH", ObjectLabel: "Problem", ObjectValue: "exam anxiety"},
	}

	if err := repo.EnsureUser(ctx, uid); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	// Ingest the same fact set twice; node and edge counts must not grow.
	for i := 0; i < 2; i++ {
		if err := repo.UpsertFacts(ctx, uid, facts); err != nil {
			t.Fatalf("UpsertFacts run %d failed: %v", i+1, err)
		}
	}

	users := countRows(t, driver,
		"MATCH (u:User {uid: $uid}) RETURN count(u) as c",
		map[string]interface{}{"uid": uid})
	if users != 1 {
		t.Errorf("Expected 1 user node, got %d", users)
	}

	edges := countRows(t, driver,
		"MATCH (u:User {uid: $uid})-[r]->() WHERE type(r) <> 'CREATED' RETURN count(r) as c",
		map[string]interface{}{"uid": uid})
	if edges != 2 {
		t.Errorf("Expected 2 fact edges, got %d", edges)
	}

	prefEdges := countRows(t, driver,
		"MATCH (u:User {uid: $uid})-[:LIKES]->(p:Preference {name: 'hiking'}) RETURN count(p) as c",
		map[string]interface{}{"uid": uid})
	if prefEdges != 1 {
		t.Errorf("Expected exactly 1 LIKES edge to hiking, got %d", prefEdges)
	}
}

func TestRepository_UpsertFacts_RejectsUnsafeIdentifier(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	uid := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupUser(ctx, driver, uid)

	err = repo.UpsertFacts(ctx, uid, []extractor.Fact{
		{RelationType: "LIKES]->(x) DETACH DELETE x //", ObjectLabel: "Preference", ObjectValue: "v"},
	})
	var unsafeErr ErrUnsafeIdentifier
	if !errors.As(err, &unsafeErr) {
		t.Fatalf("Expected ErrUnsafeIdentifier, got %v", err)
	}
}

func TestRepository_TopPreferences(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	uid := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupUser(ctx, driver, uid)

	if err := repo.EnsureUser(ctx, uid); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	facts := []extractor.Fact{
		{RelationType: "LIKES", ObjectLabel: "Preference", ObjectValue: "hiking"},
		{RelationType: "LIKES", ObjectLabel: "Preference", ObjectValue: "tea"},
		{RelationType: "HAS", ObjectLabel: "Problem", ObjectValue: "exams"},
	}
	if err := repo.UpsertFacts(ctx, uid, facts); err != nil {
		t.Fatalf("UpsertFacts failed: %v", err)
	}

	prefs, err := repo.TopPreferences(ctx, uid, 5)
	if err != nil {
		t.Fatalf("TopPreferences failed: %v", err)
	}
	if len(prefs) != 2 {
		t.Errorf("Expected 2 preferences, got %d: %v", len(prefs), prefs)
	}

	limited, err := repo.TopPreferences(ctx, uid, 1)
	if err != nil {
		t.Fatalf("TopPreferences with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 preference with k=1, got %d", len(limited))
	}
}

func TestRepository_Episodes_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	uid := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupUser(ctx, driver, uid)

	c1 := conversation.Conversation{{Speaker: "User", Text: "first"}}
	c2 := conversation.Conversation{{Speaker: "User", Text: "second"}}

	if _, err := repo.CreateEpisode(ctx, uid, c1); err != nil {
		t.Fatalf("CreateEpisode c1 failed: %v", err)
	}
	// Distinct created_at timestamps keep the ordering assertion meaningful.
	time.Sleep(10 * time.Millisecond)
	if _, err := repo.CreateEpisode(ctx, uid, c2); err != nil {
		t.Fatalf("CreateEpisode c2 failed: %v", err)
	}

	latest, err := repo.RecentConversations(ctx, uid, 1)
	if err != nil {
		t.Fatalf("RecentConversations(1) failed: %v", err)
	}
	if len(latest) != 1 || latest[0][0].Text != "second" {
		t.Errorf("Expected newest conversation 'second', got %+v", latest)
	}

	both, err := repo.RecentConversations(ctx, uid, 2)
	if err != nil {
		t.Fatalf("RecentConversations(2) failed: %v", err)
	}
	if len(both) != 2 || both[0][0].Text != "second" || both[1][0].Text != "first" {
		t.Errorf("Expected [second, first], got %+v", both)
	}
}

func TestRepository_RecentConversations_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)

	_, err = repo.RecentConversations(ctx, "nonexistent-user", 1)
	var notFound ErrNoConversations
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected ErrNoConversations, got %v", err)
	}
}
