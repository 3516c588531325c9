package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, "minuted", cfg.SurrealDBNamespace)
	assert.Equal(t, 1536, cfg.EmbeddingDimension)
	assert.Equal(t, 1500, cfg.MinChunkSize)
	assert.Equal(t, 3000, cfg.MaxChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 10, cfg.MaxToolRounds)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SURREALDB_URL", "ws://db:8000/rpc")
	t.Setenv("MINUTED_EMBEDDING_DIMENSION", "768")
	t.Setenv("MINUTED_LOG_LEVEL", "debug")
	t.Setenv("MINUTED_MAX_TOOL_ROUNDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://db:8000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, 768, cfg.EmbeddingDimension)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxToolRounds)
}

func TestLoad_FileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minuted.yaml")
	content := "surrealdb_database: transcripts\nembedding_model: nomic-embed-text\nbatch_size: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("MINUTED_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "transcripts", cfg.SurrealDBDatabase)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, 8, cfg.BatchSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, "root", cfg.SurrealDBUser)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minuted.yaml")
	require.NoError(t, os.WriteFile(path, []byte("surrealdb_database: fromfile\n"), 0644))
	t.Setenv("MINUTED_CONFIG", path)
	t.Setenv("SURREALDB_DATABASE", "fromenv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.SurrealDBDatabase)
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("MINUTED_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}
