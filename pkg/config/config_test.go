package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurebot/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
embedding:
  base_url: http://embeddings:11434
  model: custom-embed
corpus:
  chunk_size: 250
  chunk_overlap: 25
engine:
  backend: file
  top_k: 5
server:
  addr: ":9000"
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://embeddings:11434", cfg.Embedding.BaseURL)
	assert.Equal(t, "custom-embed", cfg.Embedding.Model)
	assert.Equal(t, 250, cfg.Corpus.ChunkSize)
	assert.Equal(t, 25, cfg.Corpus.ChunkOverlap)
	assert.Equal(t, 5, cfg.Engine.TopK)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	// Unset fields pick up defaults
	assert.Equal(t, 768, cfg.Embedding.VectorDim)
	assert.Equal(t, 150, cfg.Corpus.MaxPDFChunks)
	assert.Equal(t, 200, cfg.Corpus.TotalCap)
	assert.InDelta(t, 0.3, cfg.Engine.SimilarityThreshold, 1e-9)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")
	t.Setenv("PORT", "8123")

	path := writeConfig(t, `
embedding:
  base_url: http://ignored:11434
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.Embedding.BaseURL)
	assert.Equal(t, ":8123", cfg.Server.Addr)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "embedding: [not: valid")

	_, err := config.LoadConfig(path)

	assert.Error(t, err)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Validate())
}

func TestValidate_BadBackend(t *testing.T) {
	path := writeConfig(t, `
engine:
  backend: redis
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	errs := cfg.Validate()
	require.NotEmpty(t, errs)
	assert.Equal(t, "engine.backend", errs[0].Field)
}

func TestValidate_OverlapMustBeSmallerThanChunkSize(t *testing.T) {
	path := writeConfig(t, `
corpus:
  chunk_size: 50
  chunk_overlap: 50
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "corpus.chunk_overlap", errs[0].Field)
}

func TestValidate_PgvectorNeedsDatabaseURL(t *testing.T) {
	path := writeConfig(t, `
engine:
  backend: pgvector
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	cfg.Database.URL = ""

	errs := cfg.Validate()
	require.NotEmpty(t, errs)
	assert.Equal(t, "database.url", errs[0].Field)
}
