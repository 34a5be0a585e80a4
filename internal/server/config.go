package server

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the HTTP service configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RedisURL       string // empty = in-memory sessions
	Templates      string // empty = embedded templates
	MaxUploadBytes int64
	SessionTTL     time.Duration
	MaxSessionSize int // files per session
	// AllowedOrigins controls CORS. Empty means all origins are permitted.
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

// LoadConfig reads configuration from environment variables with defaults.
// A .env file in the working directory is loaded first when present.
func LoadConfig() Config {
	_ = godotenv.Load() // .env is optional

	return Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RedisURL:       getEnv("REDIS_URL", ""),
		Templates:      getEnv("TEMPLATES", ""),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 32)) << 20,
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		MaxSessionSize: getEnvInt("MAX_SESSION_FILES", 50),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		ShutdownGrace:  time.Duration(getEnvInt("SHUTDOWN_GRACE_SECONDS", 10)) * time.Second,
	}
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
