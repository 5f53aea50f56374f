package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env string

	// Local API
	Port           string
	LocalAPIKey    string
	AllowedOrigins []string

	// Local store
	DBPath string

	// Remote API
	APIBaseURL     string
	APIToken       string
	RequestTimeout time.Duration

	// Sync
	SyncInterval        time.Duration
	OnlineCheckInterval time.Duration
	AutoResolve         bool

	// Logging
	LogLevel string
	LogFile  string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env: getEnv("ENV", "development"),

		Port:        getEnv("PORT", "8090"),
		LocalAPIKey: getEnv("LOCAL_API_KEY", ""),

		DBPath: getEnv("DB_PATH", "./data/moneymat.db"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		APIToken:   getEnv("API_TOKEN", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	config.AllowedOrigins = getList("ALLOWED_ORIGINS")
	config.RequestTimeout = getDuration("REQUEST_TIMEOUT", 30*time.Second)
	config.SyncInterval = getDuration("SYNC_INTERVAL", 5*time.Minute)
	config.OnlineCheckInterval = getDuration("ONLINE_CHECK_INTERVAL", 15*time.Second)
	config.AutoResolve = getBool("SYNC_AUTO_RESOLVE", false)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a positive duration, falling back to the default on bad input.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}

// getList splits a comma-separated variable, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
