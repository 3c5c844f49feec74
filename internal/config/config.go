package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	ClassifierBackendOpenAI  = "openai"
	ClassifierBackendHTTP    = "http"
	ClassifierBackendKeyword = "keyword"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Auth Config
	JWTSecret          string        `env:"JWT_SECRET_KEY"`
	JWTExpiration      time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"15m"`

	// Classifier Config
	ClassifierBackend string        `env:"CLASSIFIER_BACKEND" envDefault:"openai"`
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"10s"`
	ClassifierURL     string        `env:"CLASSIFIER_URL"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`

	// Signal Config
	MaxImageBytes  int           `env:"MAX_IMAGE_BYTES" envDefault:"5242880"`
	SignalCacheTTL time.Duration `env:"SIGNAL_CACHE_TTL" envDefault:"10m"`

	// Stats Config
	StatsRefreshSchedule string `env:"STATS_REFRESH_SCHEDULE" envDefault:"@every 1m"`

	// API Keys for /metrics
	MetricsAPIKeys []string `env:"METRICS_API_KEYS"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envDefault:"*"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		StorageBackend:       getEnv("STORAGE_BACKEND", StorageBackendPostgres),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		JWTExpiration:        getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		LoginMaxAttempts:     getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginAttemptWindow:   getEnvAsDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		ClassifierBackend:    getEnv("CLASSIFIER_BACKEND", ClassifierBackendOpenAI),
		ClassifierTimeout:    getEnvAsDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
		ClassifierURL:        os.Getenv("CLASSIFIER_URL"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		MaxImageBytes:        getEnvAsInt("MAX_IMAGE_BYTES", 5<<20),
		SignalCacheTTL:       getEnvAsDuration("SIGNAL_CACHE_TTL", 10*time.Minute),
		StatsRefreshSchedule: getEnv("STATS_REFRESH_SCHEDULE", "@every 1m"),
		MetricsAPIKeys:       getEnvAsList("METRICS_API_KEYS", nil),
		CORSOrigins:          getEnvAsList("CORS_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные и взаимозависимые параметры
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}

	switch c.ClassifierBackend {
	case ClassifierBackendOpenAI:
		// без ключа классификатор недоступен, сигналы получат уровень red
	case ClassifierBackendHTTP:
		if c.ClassifierURL == "" {
			return fmt.Errorf("CLASSIFIER_URL is required for the http classifier backend")
		}
	case ClassifierBackendKeyword:
	default:
		return fmt.Errorf("unknown CLASSIFIER_BACKEND %q", c.ClassifierBackend)
	}

	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	return nil
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

// getEnvAsList разбирает список через запятую
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
