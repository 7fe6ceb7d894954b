package config

import (
	"os"
	"strconv"
	"time"
)

// Sentinel placeholder values that ship in the example env file. A key
// holding one of these is treated the same as an unset key.
const (
	deepseekKeySentinel = "your_deepseek_api_key_here"
	tavilyKeySentinel   = "your_tavily_api_key_here"
)

// Config holds all process configuration. It is loaded once at startup
// and passed by value to constructors; nothing mutates it afterwards.
type Config struct {
	Port    string
	DataDir string

	// Evaluation pipeline credentials and endpoints.
	DeepSeekAPIKey  string
	TavilyAPIKey    string
	DeepSeekBaseURL string
	TavilyBaseURL   string

	// Auth.
	JWTSecret string
	JWTExpiry time.Duration

	// Rate limiting (fixed window across /api/*).
	RateLimitWindow   time.Duration
	RateLimitRequests int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	// Payments.
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePremiumPrice  string
}

// Load reads configuration from the environment with defaults matching
// the deployed service.
func Load() Config {
	return Config{
		Port:    getEnvOrDefault("PORT", "3001"),
		DataDir: getEnvOrDefault("DATA_DIR", "./data"),

		DeepSeekAPIKey:  normalizeKey(os.Getenv("DEEPSEEK_API_KEY"), deepseekKeySentinel),
		TavilyAPIKey:    normalizeKey(os.Getenv("TAVILY_API_KEY"), tavilyKeySentinel),
		DeepSeekBaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1/chat/completions"),
		TavilyBaseURL:   getEnvOrDefault("TAVILY_BASE_URL", "https://api.tavily.com/search"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
		JWTExpiry: getDurationOrDefault("JWT_EXPIRES_IN", 7*24*time.Hour),

		RateLimitWindow:   getDurationOrDefault("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitRequests: getIntOrDefault("RATE_LIMIT_REQUESTS", 100),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getIntOrDefault("REDIS_DB", 0),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripePremiumPrice:  os.Getenv("STRIPE_PREMIUM_PRICE_ID"),
	}
}

// AIConfigured reports whether the chat-completion credential is usable.
// Without it the evaluator runs entirely in fallback mode.
func (c Config) AIConfigured() bool {
	return c.DeepSeekAPIKey != ""
}

// SearchConfigured reports whether the web-search credential is usable.
func (c Config) SearchConfigured() bool {
	return c.TavilyAPIKey != ""
}

func normalizeKey(value, sentinel string) string {
	if value == sentinel {
		return ""
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
