package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"preference-graph/backend/pkg/config"
	"preference-graph/backend/pkg/logger"
)

const schemaVersion = "preference_schema_v1"

func main() {
	force := flag.Bool("force", false, "Force migration even if already applied")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Neo4j schema migration...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if !*force {
		applied, err := checkMigrationApplied(ctx, driver)
		if err != nil {
			log.Fatal("Failed to check migration status", zap.Error(err))
		}
		if applied {
			log.Info("Migration already applied. Use -force to reapply.")
			os.Exit(0)
		}
	}

	if err := runMigrations(ctx, driver, log); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	if err := markMigrationApplied(ctx, driver); err != nil {
		log.Warn("Failed to mark migration as applied", zap.Error(err))
	}

	log.Info("Migration completed successfully!")
}

func checkMigrationApplied(ctx context.Context, driver neo4j.DriverWithContext) (bool, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (m:Migration {version: $version}) RETURN m.applied_at AS applied_at",
		map[string]any{"version": schemaVersion},
	)
	if err != nil {
		return false, err
	}

	return result.Next(ctx), nil
}

func markMigrationApplied(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (m:Migration {version: $version})
		SET m.applied_at = datetime(),
		    m.description = 'Constraints and indexes for the preference graph'
	`

	_, err := session.Run(ctx, query, map[string]any{"version": schemaVersion})
	return err
}

func runMigrations(ctx context.Context, driver neo4j.DriverWithContext, log *zap.Logger) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	migrations := []struct {
		name        string
		description string
		query       string
	}{
		{
			name:        "Create Constraints",
			description: "Unique keys the MERGE upserts rely on",
			query: `
				CREATE CONSTRAINT user_uid_unique IF NOT EXISTS FOR (u:User) REQUIRE u.uid IS UNIQUE;
				CREATE CONSTRAINT episode_id_unique IF NOT EXISTS FOR (e:Episode) REQUIRE e.id IS UNIQUE;
			`,
		},
		{
			name:        "Create Indexes",
			description: "Indexes for recency ordering and object lookups",
			query: `
				CREATE INDEX episode_created_at IF NOT EXISTS FOR (e:Episode) ON (e.created_at);
				CREATE INDEX preference_name IF NOT EXISTS FOR (p:Preference) ON (p.name);
			`,
		},
	}

	for i, migration := range migrations {
		log.Info("Running migration",
			zap.Int("step", i+1),
			zap.Int("total", len(migrations)),
			zap.String("name", migration.name),
			zap.String("description", migration.description),
		)

		for j, stmt := range splitStatements(migration.query) {
			if stmt == "" {
				continue
			}
			if _, err := session.Run(ctx, stmt, nil); err != nil {
				// Constraints and indexes may already exist.
				log.Warn("Migration step had an error (may be expected)",
					zap.String("migration", migration.name),
					zap.Int("statement", j+1),
					zap.Error(err),
				)
			}
		}
	}

	return nil
}

func splitStatements(query string) []string {
	var statements []string
	for _, stmt := range strings.Split(query, ";") {
		statements = append(statements, strings.TrimSpace(stmt))
	}
	return statements
}
