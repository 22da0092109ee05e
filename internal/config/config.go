// ABOUTME: Centralized configuration for the lattice backend
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the lattice system
type Config struct {
	// Storage settings
	DataDir string
	DBPath  string

	// OpenAI settings
	OpenAIKey       string
	ChatModel       string
	TranscribeModel string
	EmbeddingModel  string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	VectorDimension int

	// Title lookup settings
	OEmbedTimeout time.Duration

	// Server settings
	ListenAddr string
	Mode       string // "dev" or "prod", selects gin and zap modes

	// Auth settings
	APIKey        string
	AdminUsername string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("LATTICE_DATA_DIR", defaultDataDir())

	cfg := &Config{
		DataDir:         dataDir,
		DBPath:          getEnv("LATTICE_DB_PATH", filepath.Join(dataDir, "lattice.db")),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("LATTICE_CAPTION_MODEL", "gpt-4o"),
		TranscribeModel: getEnv("LATTICE_TRANSCRIBE_MODEL", "gpt-4o-transcribe"),
		EmbeddingModel:  getEnv("LATTICE_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension: getEnvInt("VECTOR_DIMENSION", 1536),
		OEmbedTimeout:   getEnvDuration("OEMBED_TIMEOUT", 10*time.Second),
		ListenAddr:      getEnv("LATTICE_LISTEN_ADDR", ":8080"),
		Mode:            getEnv("LATTICE_MODE", "dev"),
		APIKey:          os.Getenv("LATTICE_API_KEY"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "password"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// defaultDataDir returns the XDG data directory for lattice storage
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/lattice"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "lattice")
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

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
