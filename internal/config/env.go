package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	AIAPIKey       string
	EmbedModel     string
	EmbedDim       int
	GenModel       string
	CollectionName string

	ChunkSize     int
	ChunkOverlap  int
	MaxFileSizeMB int

	TopK              int
	RetrievalStrategy string
	MMRLambda         float64
	MMRFetchK         int

	// VectorBackend selects "pgvector" (persistent) or "memory".
	VectorBackend string

	Port string
}

// LoadConfig loads the environment (and an optional .env file) and returns
// the runtime configuration with defaults applied.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AIAPIKey:       getEnv("GEMINI_API_KEY", ""),
		EmbedModel:     getEnv("EMBED_MODEL", "gemini-embedding-001"),
		EmbedDim:       getEnvInt("EMBED_DIM", 768),
		GenModel:       getEnv("GEN_MODEL", "gemini-2.5-flash"),
		CollectionName: getEnv("COLLECTION_NAME", "documents"),

		ChunkSize:     getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 200),
		MaxFileSizeMB: getEnvInt("MAX_FILE_SIZE_MB", 10),

		TopK:              getEnvInt("TOP_K", 4),
		RetrievalStrategy: getEnv("RETRIEVAL_STRATEGY", "mmr"),
		MMRLambda:         getEnvFloat("MMR_LAMBDA", 0.25),
		MMRFetchK:         getEnvInt("MMR_FETCH_K", 0),

		VectorBackend: getEnv("VECTOR_BACKEND", "pgvector"),

		Port: getEnv("PORT", "8080"),
	}

	if cfg.VectorBackend == "pgvector" && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set (or set VECTOR_BACKEND=memory)")
	}

	return cfg
}

// MaxFileSizeBytes converts the configured limit to bytes.
func (c *Config) MaxFileSizeBytes() int {
	return c.MaxFileSizeMB << 20
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARN: %s=%q not a float, using default %g", key, v, def)
		return def
	}
	return f
}
