package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL  string
	HTTPPort     string
	StaticDir    string
	TurnDelay    time.Duration // Pacing delay between orchestrated turns
	AnthropicKey string
	GroqKey      string
	OpenAIKey    string
	XAIKey       string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load() // Loads .env from the current directory or parent dirs
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	dbURL := getEnv("DATABASE_URL", "") // No default, should fail if not set
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	turnDelayStr := getEnv("TURN_DELAY_MS", "500")
	turnDelayMs, err := strconv.Atoi(turnDelayStr)
	if err != nil || turnDelayMs < 0 {
		log.Printf("Warning: Invalid TURN_DELAY_MS '%s', using default 500ms.", turnDelayStr)
		turnDelayMs = 500
	}

	cfg := &Config{
		HTTPPort:     port,
		DatabaseURL:  dbURL,
		StaticDir:    getEnv("STATIC_DIR", "./static"),
		TurnDelay:    time.Duration(turnDelayMs) * time.Millisecond,
		AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
		GroqKey:      getEnv("GROQ_API_KEY", ""),
		OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
		XAIKey:       getEnv("XAI_API_KEY", ""),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TurnDelay=%s, StaticDir=%s", cfg.HTTPPort, cfg.TurnDelay, cfg.StaticDir)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
