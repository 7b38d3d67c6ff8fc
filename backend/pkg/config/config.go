package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backend selectors for CONVERSATION_STORE.
const (
	StoreGraph  = "graph"
	StoreMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// LLM
	OpenAIAPIBase string
	OpenAIAPIKey  string
	ModelName     string
	LLMTimeout    time.Duration

	// Conversation storage backend: graph (episodes in Neo4j) or memory
	// (process-lifetime, no persistence across restarts).
	ConversationStore string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		Neo4jURI:          getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:         getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", "password"),
		OpenAIAPIBase:     getEnv("OPENAI_API_BASE", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		ModelName:         getEnv("MODEL_NAME", ""),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 25)) * time.Second,
		ConversationStore: getEnv("CONVERSATION_STORE", StoreGraph),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.OpenAIAPIBase == "" {
		return fmt.Errorf("OPENAI_API_BASE is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required")
	}
	if c.ConversationStore != StoreGraph && c.ConversationStore != StoreMemory {
		return fmt.Errorf("CONVERSATION_STORE must be %q or %q", StoreGraph, StoreMemory)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
