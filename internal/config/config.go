package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type StorageConfig struct {
	// Backend selects where persisted state lives: "memory", "redis" or
	// "postgres".
	Backend string

	// CapacityBytes is the ceiling for the whole persisted state keyspace.
	// Least-recently-used workspace entries are evicted once it is exceeded.
	CapacityBytes int64

	// KeyPrefix namespaces persisted entries; one workspace maps to one key
	// under this prefix.
	KeyPrefix string

	DatabaseDSN string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "memory"),
			CapacityBytes: getEnvAsInt64("STORAGE_CAPACITY_BYTES", 5*1024*1024),
			KeyPrefix:     getEnv("STATE_KEY_PREFIX", "canvas_state"),
			DatabaseDSN:   getEnv("DB_CONNECTION_STRING", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}
