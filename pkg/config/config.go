package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	LogMode     string
	CORSOrigins string

	// file upload
	UploadDir         string
	MaxFileSize       int64
	AllowedExtensions []string

	// open ai
	OpenAIKey            string
	OpenAIEmbeddingModel string
	OpenAIChatModel      string
	EmbeddingDimensions  int

	// rag config
	ChunkSize    int
	ChunkOverlap int
	MaxSources   int

	// vector index backend: memory, pgvector or qdrant
	VectorBackend    string
	DatabaseURL      string
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
}

func Load() *Config {
	godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	return &Config{
		Port:        port,
		LogMode:     getEnv("LOG_MODE", "dev"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		// upload
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize:       getEnvInt64("MAX_FILE_SIZE", 10485760), // 10MB
		AllowedExtensions: splitList(getEnv("ALLOWED_EXTENSIONS", "pdf,docx,txt,md")),

		// OpenAI
		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		OpenAIChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingDimensions:  getEnvInt("EMBEDDING_DIMENSIONS", 1536),

		// RAG Config
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),
		MaxSources:   getEnvInt("MAX_SOURCES", 5),

		// vector index
		VectorBackend:    getEnv("VECTOR_BACKEND", "memory"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "documents"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
