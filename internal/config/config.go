// Package config loads environment variables at startup.
// Required cache settings fail fast; everything else has a default.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultPublicBaseURL is used for share links when PUBLIC_BASE_URL is unset.
const DefaultPublicBaseURL = "https://salaryiq.vercel.app"

// DefaultModels is the Gemini fallback order, fastest first.
var DefaultModels = []string{
	"gemini-2.0-flash-exp",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

// Config holds all runtime configuration for the API.
type Config struct {
	Port string

	GeminiAPIKey  string
	GeminiModels  []string
	GeminiTimeout time.Duration

	CacheURL        string
	CacheKey        string
	CacheServiceKey string

	PublicBaseURL string
	RedisURL      string

	CleanupSchedule string

	LogLevel  string
	LogFormat string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cacheURL := os.Getenv("CACHE_URL")
	if cacheURL == "" {
		return nil, fmt.Errorf("CACHE_URL is required")
	}

	cacheKey := os.Getenv("CACHE_KEY")
	if cacheKey == "" {
		return nil, fmt.Errorf("CACHE_KEY is required")
	}

	timeout := 45
	if s := os.Getenv("GEMINI_TIMEOUT_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("GEMINI_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		timeout = v
	}

	models := DefaultModels
	if s := os.Getenv("GEMINI_MODELS"); s != "" {
		models = splitList(s)
		if len(models) == 0 {
			return nil, fmt.Errorf("GEMINI_MODELS must list at least one model, got %q", s)
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModels:    models,
		GeminiTimeout:   time.Duration(timeout) * time.Second,
		CacheURL:        cacheURL,
		CacheKey:        cacheKey,
		CacheServiceKey: getEnv("CACHE_SERVICE_KEY", cacheKey),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", DefaultPublicBaseURL), "/"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", "@every 6h"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}, nil
}

// CacheDSN returns the cache database URL authenticated with key.
// The key replaces any password already present in CACHE_URL.
func (c *Config) CacheDSN(key string) (string, error) {
	u, err := url.Parse(c.CacheURL)
	if err != nil {
		return "", fmt.Errorf("parse CACHE_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("CACHE_URL must be a postgres URL, got %q", c.CacheURL)
	}

	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, key)
	return u.String(), nil
}

// HasServiceKey reports whether a distinct elevated key was configured.
func (c *Config) HasServiceKey() bool {
	return c.CacheServiceKey != c.CacheKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
