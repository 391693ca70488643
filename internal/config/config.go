package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabaseURL     string
	DatabasePath    string
	MigrationsPath  string
	RedisURL        string
	SessionSecret   string
	SessionDuration time.Duration
	SeedDemoContent bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DB_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./codelingo.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		RedisURL:        getEnv("REDIS_URL", ""),
		SessionSecret:   getEnv("SESSION_SECRET", "dev-only-secret"),
		SessionDuration: 24 * time.Hour,
		SeedDemoContent: getEnv("SEED_DEMO_CONTENT", "true") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
