package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI      string
	IngestTopic string // Catalog ingestion topic
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string // chat model, e.g. "gpt-3.5-turbo"
	ExtractionModel   string // JSON extraction model, e.g. "gpt-4o-mini"
	LLMBaseURL        string // optional OpenAI-compatible endpoint
	TimeoutSeconds    int
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string
}

type PipelineConfig struct {
	CacheDriver              string // "memory" or "redis"
	StateTTLMinutes          int
	GenerationTimeoutSeconds int
	MajorContextTopK         int
	QueryCacheTTLSeconds     int
	QueryCacheSize           int
}

type StorageConfig struct {
	UploadDir         string
	Bucket            string
	SignedURLTTLHours int
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5002"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5002"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:      getEnv("OPENAI_API_KEY", ""),
			IngestTopic: getEnv("INGEST_TOPIC", "INGEST_CATALOG_DOCUMENT"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			ExtractionModel:   getEnv("LLM_EXTRACTION_MODEL", "gpt-4o-mini"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			TimeoutSeconds:    getEnvAsInt("LLM_TIMEOUT_SECONDS", 30),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Pipeline: PipelineConfig{
			CacheDriver:              getEnv("PIPELINE_CACHE_DRIVER", "memory"),
			StateTTLMinutes:          getEnvAsInt("PIPELINE_STATE_TTL_MINUTES", 24*60),
			GenerationTimeoutSeconds: getEnvAsInt("GENERATION_TIMEOUT_SECONDS", 30),
			MajorContextTopK:         getEnvAsInt("MAJOR_CONTEXT_TOP_K", 10),
			QueryCacheTTLSeconds:     getEnvAsInt("QUERY_CACHE_TTL_SECONDS", 60),
			QueryCacheSize:           getEnvAsInt("QUERY_CACHE_SIZE", 100),
		},
		Storage: StorageConfig{
			UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
			Bucket:            getEnv("STORAGE_BUCKET", "User_Files"),
			SignedURLTTLHours: getEnvAsInt("SIGNED_URL_TTL_HOURS", 24),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
