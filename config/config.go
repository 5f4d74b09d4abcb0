// Package config loads runtime settings from the environment.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StudioName string
	SiteURL    string
	AdminEmail string

	UnsubscribeSecret string

	NewsletterConcurrency int
	QuoteValidDays        int

	AnthropicAPIKey string
	AnthropicModel  string
	AISummaries     bool
}

// Load reads the .env file, when present, and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	cfg := &Config{
		StudioName: getEnv("STUDIO_NAME", "Dev Studio"),
		SiteURL:    strings.TrimRight(getEnv("SITE_URL", "http://127.0.0.1:8090"), "/"),
		AdminEmail: getEnv("ADMIN_EMAIL", ""),

		UnsubscribeSecret: getEnv("UNSUBSCRIBE_SECRET", ""),

		NewsletterConcurrency: getEnvInt("NEWSLETTER_CONCURRENCY", 5),
		QuoteValidDays:        getEnvInt("QUOTE_VALID_DAYS", 30),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", ""),
		AISummaries:     getEnvBool("AI_SUMMARIES", false),
	}
	if cfg.NewsletterConcurrency < 1 {
		cfg.NewsletterConcurrency = 1
	}
	if cfg.UnsubscribeSecret == "" {
		log.Println("config: UNSUBSCRIBE_SECRET not set, unsubscribe links are disabled")
	}
	return cfg
}

// UnsubscribeKey returns the HMAC key for unsubscribe tokens.
func (c *Config) UnsubscribeKey() []byte {
	return []byte(c.UnsubscribeSecret)
}

// AIEnabled reports whether proposal summaries should be polished by the model.
func (c *Config) AIEnabled() bool {
	return c.AISummaries && c.AnthropicAPIKey != ""
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := cast.ToIntE(strings.TrimSpace(val))
		if err == nil {
			return n
		}
		log.Printf("config: ignoring invalid %s=%q: %v", key, val, err)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := cast.ToBoolE(strings.TrimSpace(val))
		if err == nil {
			return b
		}
		log.Printf("config: ignoring invalid %s=%q: %v", key, val, err)
	}
	return fallback
}
