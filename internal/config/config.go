package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Gemini Config
	GeminiAPIKey            string        `env:"GEMINI_API_KEY"`
	GeminiModel             string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiBaseURL           string        `env:"GEMINI_BASE_URL"`
	GeminiTimeout           time.Duration `env:"GEMINI_TIMEOUT" envDefault:"30s"`
	GeminiTestTimeout       time.Duration `env:"GEMINI_TEST_TIMEOUT" envDefault:"10s"`
	GeminiMinResponseLength int           `env:"GEMINI_MIN_RESPONSE_LENGTH" envDefault:"50"`

	// Geocoding Config
	GoogleMapsAPIKey string        `env:"GOOGLE_MAPS_API_KEY"`
	GeocodeCacheTTL  time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`

	// Extraction Config
	GeneratorMaxRetries     int           `env:"GENERATOR_MAX_RETRIES" envDefault:"2"`
	GeneratorRetryBaseDelay time.Duration `env:"GENERATOR_RETRY_BASE_DELAY" envDefault:"500ms"`
	DefaultTimeZone         string        `env:"DEFAULT_TIME_ZONE" envDefault:"UTC"`

	// Request cache TTL
	RequestCacheTTL time.Duration `env:"REQUEST_CACHE_TTL" envDefault:"5m"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		HTTPPort:                getEnv("HTTP_PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		WebhookURL:              os.Getenv("WEBHOOK_URL"),
		WebhookSecret:           os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:          getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:       getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:        getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		GeminiAPIKey:            os.Getenv("GEMINI_API_KEY"),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:           os.Getenv("GEMINI_BASE_URL"),
		GeminiTimeout:           getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
		GeminiTestTimeout:       getEnvAsDuration("GEMINI_TEST_TIMEOUT", 10*time.Second),
		GeminiMinResponseLength: getEnvAsInt("GEMINI_MIN_RESPONSE_LENGTH", 50),
		GoogleMapsAPIKey:        os.Getenv("GOOGLE_MAPS_API_KEY"),
		GeocodeCacheTTL:         getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		GeneratorMaxRetries:     getEnvAsInt("GENERATOR_MAX_RETRIES", 2),
		GeneratorRetryBaseDelay: getEnvAsDuration("GENERATOR_RETRY_BASE_DELAY", 500*time.Millisecond),
		DefaultTimeZone:         getEnv("DEFAULT_TIME_ZONE", "UTC"),
		RequestCacheTTL:         getEnvAsDuration("REQUEST_CACHE_TTL", 5*time.Minute),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.GeneratorMaxRetries < 0 {
		return nil, fmt.Errorf("GENERATOR_MAX_RETRIES must not be negative, got %d", cfg.GeneratorMaxRetries)
	}

	if _, err := time.LoadLocation(cfg.DefaultTimeZone); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIME_ZONE %q: %w", cfg.DefaultTimeZone, err)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
