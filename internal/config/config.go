package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/rag-playground/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerCfg ServerConfig `envPrefix:"SERVER_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"UPLOAD_"`

	// Session lifecycle configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// External service configurations
	LLMConnectorCfg        LLMConnectorConfig        `envPrefix:"LLM_"`
	EmbeddingCfg           EmbeddingConfig           `envPrefix:"EMBEDDING_"`
	ProcessingConnectorCfg ProcessingConnectorConfig `envPrefix:"PROCESSING_"`

	// Retrieval configuration
	RAGCfg RAGConfig `envPrefix:"RAG_"`

	// Replace the chat completion provider with a canned local stream
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"` // 0 keeps chat streams open
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://*,https://*"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	Dir         string `env:"DIR" envDefault:"uploads"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10 MiB
	MaxFormSize int64  `env:"MAX_FORM_SIZE" envDefault:"12582912"` // 12 MiB
}

type SessionConfig struct {
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"1h"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"sessionId"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	ChatModel          string  `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	DefaultTemperature float64 `env:"DEFAULT_TEMPERATURE" envDefault:"0.7"`
	DefaultMaxTokens   int64   `env:"DEFAULT_MAX_TOKENS" envDefault:"1000"`
}

type EmbeddingConfig struct {
	Model       string        `env:"MODEL" envDefault:"text-embedding-3-small"`
	Dimension   int           `env:"DIMENSION" envDefault:"1536"`
	ItemDelay   time.Duration `env:"ITEM_DELAY" envDefault:"100ms"`
	BatchDelay  time.Duration `env:"BATCH_DELAY" envDefault:"300ms"`
	PacingBatch int           `env:"PACING_BATCH" envDefault:"3"`
}

type ProcessingConnectorConfig struct {
	HTTPClientConfig
	Endpoint string               `env:"ENDPOINT" envDefault:"/process-document"`
	Retry    pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type RAGConfig struct {
	ChunkSize      int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap   int `env:"CHUNK_OVERLAP" envDefault:"200"`
	MaxChunks      int `env:"MAX_CHUNKS" envDefault:"50"`
	MinChunkLength int `env:"MIN_CHUNK_LENGTH" envDefault:"3"`
	TopK           int `env:"TOP_K" envDefault:"3"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

const defaultLLMServiceURL = "https://api.openai.com/v1"

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := ParseEnv()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// ParseEnv builds the configuration from the process environment only.
func ParseEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.LLMConnectorCfg.Url == "" {
		cfg.LLMConnectorCfg.Url = defaultLLMServiceURL
	}
	cfg.ProcessingConnectorCfg.Url = strings.TrimRight(cfg.ProcessingConnectorCfg.Url, "/")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []error

	rag := cfg.RAGCfg
	if rag.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("RAG_CHUNK_SIZE must be positive, got %d", rag.ChunkSize))
	}
	if rag.ChunkOverlap < 0 || rag.ChunkOverlap >= rag.ChunkSize {
		errs = append(errs, fmt.Errorf("RAG_CHUNK_OVERLAP must be between 0 and RAG_CHUNK_SIZE(%d) exclusive, got %d", rag.ChunkSize, rag.ChunkOverlap))
	}
	if rag.MaxChunks < 1 {
		errs = append(errs, fmt.Errorf("RAG_MAX_CHUNKS must be positive, got %d", rag.MaxChunks))
	}
	if rag.TopK < 1 || rag.TopK > 10 {
		errs = append(errs, fmt.Errorf("RAG_TOP_K must be between 1 and 10, got %d", rag.TopK))
	}

	if cfg.EmbeddingCfg.Dimension < 1 {
		errs = append(errs, fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingCfg.Dimension))
	}
	if cfg.EmbeddingCfg.PacingBatch < 1 {
		errs = append(errs, fmt.Errorf("EMBEDDING_PACING_BATCH must be positive, got %d", cfg.EmbeddingCfg.PacingBatch))
	}

	if cfg.FileUploadCfg.Dir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR must not be empty"))
	}
	if cfg.FileUploadCfg.MaxFileSize < 1 || cfg.FileUploadCfg.MaxFormSize < cfg.FileUploadCfg.MaxFileSize {
		errs = append(errs, fmt.Errorf("UPLOAD_MAX_FORM_SIZE(%d) must be at least UPLOAD_MAX_FILE_SIZE(%d)", cfg.FileUploadCfg.MaxFormSize, cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.SessionCfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", cfg.SessionCfg.IdleTimeout))
	}

	return errors.Join(errs...)
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
