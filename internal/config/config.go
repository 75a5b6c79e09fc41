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
	Ai       AIConfig
	Rag      RAGConfig
	Docling  DoclingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider string // "ollama", "openai" or "gemini"

	OllamaBaseURL string
	OllamaModel   string

	OpenAIAPIKey  string
	OpenAIAPIBase string
	OpenAIModel   string

	GeminiAPIKey string
	GeminiModel  string

	EmbeddingProvider  string // "ollama" or "gemini"
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingBatchSize int
}

type RAGConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopKResults  int
}

type DoclingConfig struct {
	Host string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "9060"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_MODEL", "llama3.2"),
			OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIAPIBase:      getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
			GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "all-minilm"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
			EmbeddingBatchSize: getEnvAsInt("EMBEDDING_BATCH_SIZE", 32),
		},
		Rag: RAGConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 50),
			TopKResults:  getEnvAsInt("TOP_K_RESULTS", 5),
		},
		Docling: DoclingConfig{
			Host: getEnv("DOCLING_HOST", "http://localhost:8001"),
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
