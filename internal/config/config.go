package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Gemini
	GeminiAPIKey      string
	GeminiImageModel  string
	GeminiTextModel   string
	GeminiVideoModel  string
	GeminiMinInterval time.Duration

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Redis (optional)
	RedisURL string

	// Gold price feed
	MetalPriceAPIKey  string
	MetalPriceAPIURL  string
	GoldPriceInterval time.Duration

	// Reference image search (optional)
	UnsplashAccessKey string
	UnsplashAPIURL    string

	// Limits
	GenerationsPerHour int

	// Admin
	AdminJWTSecret string

	// Server
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-3-pro-image-preview"),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiVideoModel:  getEnv("GEMINI_VIDEO_MODEL", "veo-3.1-generate-preview"),
		GeminiMinInterval: getEnvDuration("GEMINI_MIN_INTERVAL", 500*time.Millisecond),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "jewelry-assets"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		MetalPriceAPIKey:  getEnv("METALPRICE_API_KEY", ""),
		MetalPriceAPIURL:  getEnv("METALPRICE_API_URL", "https://api.metalpriceapi.com/v1/latest"),
		GoldPriceInterval: getEnvDuration("GOLD_PRICE_INTERVAL", 5*time.Minute),

		UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
		UnsplashAPIURL:    getEnv("UNSPLASH_API_URL", "https://api.unsplash.com"),

		GenerationsPerHour: getEnvInt("GENERATIONS_PER_HOUR", 10),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.GenerationsPerHour <= 0 {
		return fmt.Errorf("GENERATIONS_PER_HOUR must be positive")
	}
	if c.GoldPriceInterval <= 0 {
		return fmt.Errorf("GOLD_PRICE_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
