package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/medchat/docchat-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`

	// Retrieval pipeline configuration
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Upload storage directory
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbeddingsEndpoint string               `env:"EMBEDDINGS_ENDPOINT" envDefault:"/embeddings"`
	Model              string               `env:"MODEL" envDefault:"all-MiniLM-L6-v2"`
	CacheTTL           time.Duration        `env:"CACHE_TTL" envDefault:"10m"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	ChatCompletionsEndpoint string               `env:"CHAT_COMPLETIONS_ENDPOINT" envDefault:"/chat/completions"`
	Model                   string               `env:"MODEL" envDefault:"llama3-70b-8192"`
	Temperature             float64              `env:"TEMPERATURE" envDefault:"0.3"`
	MaxTokens               int                  `env:"MAX_TOKENS" envDefault:"1000"`
	Retry                   pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// RetrievalConfig tunes the chunking and similarity search pipeline.
type RetrievalConfig struct {
	MaxChunkSize  int     `env:"MAX_CHUNK_SIZE" envDefault:"400"`
	ChunkOverlap  int     `env:"CHUNK_OVERLAP" envDefault:"50"`
	TopK          int     `env:"TOP_K" envDefault:"5"`
	MinSimilarity float64 `env:"MIN_SIMILARITY" envDefault:"0.1"`
	HistoryLimit  int     `env:"HISTORY_LIMIT" envDefault:"5"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE" envDefault:"52428800"`  // 50 MiB
	MaxFileCount  int   `env:"MAX_FILE_COUNT" envDefault:"16"`        // Max 16 files per batch
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"67108864"` // 64 MiB multipart memory bound
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	// Validate retrieval configuration
	if cfg.RetrievalCfg.MaxChunkSize < 50 {
		errors = append(errors, fmt.Sprintf("RETRIEVAL_MAX_CHUNK_SIZE must be at least 50, got %d", cfg.RetrievalCfg.MaxChunkSize))
	}

	if cfg.RetrievalCfg.ChunkOverlap < 0 {
		errors = append(errors, fmt.Sprintf("RETRIEVAL_CHUNK_OVERLAP must not be negative, got %d", cfg.RetrievalCfg.ChunkOverlap))
	}

	if cfg.RetrievalCfg.TopK < 1 {
		errors = append(errors, fmt.Sprintf("RETRIEVAL_TOP_K must be at least 1, got %d", cfg.RetrievalCfg.TopK))
	}

	// Connector URLs are only needed when real connectors are in play
	if !cfg.EnableMocks {
		if cfg.EmbeddingConnectorCfg.Url == "" {
			errors = append(errors, "EMBEDDING_SERVICE_URL is required when mocks are disabled")
		}
		if cfg.LLMConnectorCfg.Url == "" {
			errors = append(errors, "LLM_SERVICE_URL is required when mocks are disabled")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
