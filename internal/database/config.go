package database

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds local database configuration
type Config struct {
	Path          string
	BusyTimeoutMS int
}

// NewConfig creates a new database configuration
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, we'll use defaults or environment variables
		fmt.Println("Warning: .env file not found")
	}

	timeout, err := strconv.Atoi(getEnv("DB_BUSY_TIMEOUT_MS", "5000"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("invalid DB_BUSY_TIMEOUT_MS: %q", getEnv("DB_BUSY_TIMEOUT_MS", ""))
	}

	return &Config{
		Path:          getEnv("DB_PATH", "./data/moneymat.db"),
		BusyTimeoutMS: timeout,
	}, nil
}

// DSN returns the SQLite connection string with WAL journaling enabled
func (c *Config) DSN() string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on", c.Path, c.BusyTimeoutMS)
}

// MigrateURL returns the golang-migrate database URL for the same file
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("sqlite3://%s?_busy_timeout=%d", c.Path, c.BusyTimeoutMS)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
