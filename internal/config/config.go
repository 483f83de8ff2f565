package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Ai         AIConfig
	Cache      CacheConfig
	Resilience ResilienceConfig
	Autosave   AutosaveConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
	// SessionBackend selects where documents persist: "postgres" or "redis".
	SessionBackend string
}

type AIConfig struct {
	OllamaBaseURL  string
	EmbeddingModel string
	LLMProvider    string
	LLMModel       string
	Temperature    float64
	MaxTokens      int
}

type CacheConfig struct {
	EmbeddingEntries int
	EmbeddingTTL     time.Duration
	ResultEntries    int
	ResultTTL        time.Duration
	SessionEntries   int
	SessionTTL       time.Duration
}

type ResilienceConfig struct {
	MaxRetries        int
	BaseDelay         time.Duration
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
}

type AutosaveConfig struct {
	QuietWindow time.Duration
	MinQuiet    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection:     getEnv("DB_CONNECTION_STRING", ""),
			SessionBackend: getEnv("SESSION_BACKEND", "postgres"),
		},
		Ai: AIConfig{
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "llama3.2"),
			Temperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 1024),
		},
		Cache: CacheConfig{
			EmbeddingEntries: getEnvAsInt("CACHE_EMBEDDING_ENTRIES", 256),
			EmbeddingTTL:     getEnvAsDuration("CACHE_EMBEDDING_TTL", time.Hour),
			ResultEntries:    getEnvAsInt("CACHE_RESULT_ENTRIES", 128),
			ResultTTL:        getEnvAsDuration("CACHE_RESULT_TTL", 30*time.Minute),
			SessionEntries:   getEnvAsInt("CACHE_SESSION_ENTRIES", 64),
			SessionTTL:       getEnvAsDuration("CACHE_SESSION_TTL", 0),
		},
		Resilience: ResilienceConfig{
			MaxRetries:        getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:         getEnvAsDuration("RETRY_BASE_DELAY", time.Second),
			RetrievalTimeout:  getEnvAsDuration("RETRIEVAL_TIMEOUT", 30*time.Second),
			GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", 2*time.Minute),
		},
		Autosave: AutosaveConfig{
			QuietWindow: getEnvAsDuration("AUTOSAVE_QUIET_WINDOW", 3*time.Second),
			MinQuiet:    getEnvAsDuration("AUTOSAVE_MIN_QUIET", 2*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
