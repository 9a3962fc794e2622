// ABOUTME: Centralized configuration for the MedRAG pipeline and serving layer
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the RAG system
type Config struct {
	// Data locations
	DataDir  string
	IndexDir string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval
	TopK int

	// Generation
	MaxNewTokens int
	Temperature  float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DataDir:        getEnv("MEDRAG_DATA_DIR", "data/raw"),
		IndexDir:       getEnv("MEDRAG_INDEX_DIR", "data/processed/index"),
		ChunkSize:      getEnvInt("MEDRAG_CHUNK_SIZE", 512),
		ChunkOverlap:   getEnvInt("MEDRAG_CHUNK_OVERLAP", 50),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("MEDRAG_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("MEDRAG_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		TopK:           getEnvInt("MEDRAG_TOP_K", 5),
		MaxNewTokens:   getEnvInt("MEDRAG_MAX_NEW_TOKENS", 512),
		Temperature:    getEnvFloat("MEDRAG_TEMPERATURE", 0.7),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("MEDRAG_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("MEDRAG_CHUNK_OVERLAP must be non-negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("MEDRAG_CHUNK_OVERLAP (%d) must be less than MEDRAG_CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("MEDRAG_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("MEDRAG_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
