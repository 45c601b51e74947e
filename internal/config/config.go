package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the process reads from the environment, once,
// at startup.
type Config struct {
	HTTPPort    string
	Environment string

	MongoURL string
	MongoDB  string
	RedisURL string

	AdminAPIKey string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	AIAPIKey  string
	AIBaseURL string

	// CommerceRoutesEnabled gates the auth/cart/orders/addresses/
	// payments/webhooks surface while the storage migration is in
	// flight. Products, AI chat and health stay on regardless.
	CommerceRoutesEnabled bool

	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),

		MongoURL: getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGODB_DB", "teawebsite"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIBaseURL: getEnv("AI_BASE_URL", "https://api.openai.com/v1"),

		CommerceRoutesEnabled: getBool("COMMERCE_ROUTES_ENABLED", false),

		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
