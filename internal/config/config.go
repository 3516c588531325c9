package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported LLM and embedding providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Chat model
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OllamaHost      string `yaml:"ollama_host"`

	// Embeddings
	EmbeddingProvider  string `yaml:"embedding_provider"`
	EmbeddingModel     string `yaml:"embedding_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension"`

	// Transcription sidecar
	TranscribeURL string `yaml:"transcribe_url"`

	// Notion document store
	NotionToken string `yaml:"notion_token"`

	// Agent
	MaxToolRounds int `yaml:"max_tool_rounds"`

	// Chunking
	MinChunkSize int `yaml:"min_chunk_size"`
	MaxChunkSize int `yaml:"max_chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// Live ingestion
	BatchSize int `yaml:"batch_size"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from an optional YAML file and the environment.
// Precedence: defaults, then file values, then environment variables. The
// file path comes from MINUTED_CONFIG when set.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("MINUTED_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() Config {
	return Config{
		SurrealDBURL:       "ws://localhost:8000/rpc",
		SurrealDBNamespace: "minuted",
		SurrealDBDatabase:  "meetings",
		SurrealDBUser:      "root",
		SurrealDBPass:      "root",
		SurrealDBAuthLevel: "root",

		LLMProvider: "openai",
		LLMModel:    "gpt-4o",
		OllamaHost:  "http://localhost:11434",

		EmbeddingProvider:  "openai",
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: 1536,

		TranscribeURL: "http://localhost:9090",

		MaxToolRounds: 10,

		MinChunkSize: 1500,
		MaxChunkSize: 3000,
		ChunkOverlap: 200,

		BatchSize: 5,

		LogFile:  "/tmp/minuted.log",
		LogLevel: slog.LevelInfo,
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setStr(&c.SurrealDBURL, "SURREALDB_URL")
	setStr(&c.SurrealDBNamespace, "SURREALDB_NAMESPACE")
	setStr(&c.SurrealDBDatabase, "SURREALDB_DATABASE")
	setStr(&c.SurrealDBUser, "SURREALDB_USER")
	setStr(&c.SurrealDBPass, "SURREALDB_PASS")
	setStr(&c.SurrealDBAuthLevel, "SURREALDB_AUTH_LEVEL")

	setStr(&c.LLMProvider, "MINUTED_LLM_PROVIDER")
	setStr(&c.LLMModel, "MINUTED_LLM_MODEL")
	setStr(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setStr(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setStr(&c.OllamaHost, "OLLAMA_HOST")

	setStr(&c.EmbeddingProvider, "MINUTED_EMBEDDING_PROVIDER")
	setStr(&c.EmbeddingModel, "MINUTED_EMBEDDING_MODEL")
	setInt(&c.EmbeddingDimension, "MINUTED_EMBEDDING_DIMENSION")

	setStr(&c.TranscribeURL, "MINUTED_TRANSCRIBE_URL")
	setStr(&c.NotionToken, "NOTION_TOKEN")

	setInt(&c.MaxToolRounds, "MINUTED_MAX_TOOL_ROUNDS")

	setInt(&c.MinChunkSize, "MINUTED_MIN_CHUNK_SIZE")
	setInt(&c.MaxChunkSize, "MINUTED_MAX_CHUNK_SIZE")
	setInt(&c.ChunkOverlap, "MINUTED_CHUNK_OVERLAP")

	setInt(&c.BatchSize, "MINUTED_BATCH_SIZE")

	setStr(&c.LogFile, "MINUTED_LOG_FILE")
	if val := os.Getenv("MINUTED_LOG_LEVEL"); val != "" {
		c.LogLevel = parseLogLevel(val)
	}
}

func setStr(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
