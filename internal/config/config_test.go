package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// The file must now exist and round-trip to the same values.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
retrieval:
  top_k: 3
  threshold: 0.5
embedding:
  provider: hash
  dimensions: 128
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.5, cfg.Retrieval.Threshold, 1e-6)
	assert.Equal(t, "hash", cfg.Embedding.Provider)
	assert.Equal(t, 128, cfg.Embedding.Dimensions)
	// Untouched sections keep their defaults.
	assert.Equal(t, 300, cfg.Chunking.ChunkSize)
	assert.Equal(t, "knowledge_base", cfg.Storage.Collection)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("KB_DATA", "/srv/kb")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  path: ${KB_DATA}/knowledge.db
documents:
  dir: ${KB_DATA}/documents
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/kb/knowledge.db", cfg.Storage.Path)
	assert.Equal(t, "/srv/kb/documents", cfg.Documents.Dir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }, false},
		{"empty collection", func(c *Config) { c.Storage.Collection = "" }, false},
		{"zero chunk size", func(c *Config) { c.Chunking.ChunkSize = 0 }, false},
		{"overlap >= chunk size", func(c *Config) { c.Chunking.ChunkOverlap = 300 }, false},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }, false},
		{"threshold above cosine range", func(c *Config) { c.Retrieval.Threshold = 2.5 }, false},
		{"negative threshold", func(c *Config) { c.Retrieval.Threshold = -0.1 }, false},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "openai" }, false},
		{"hash provider", func(c *Config) { c.Embedding.Provider = "hash" }, true},
		{"temperature out of range", func(c *Config) { c.Generation.Temperature = 3 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTimeouts(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "1m0s", cfg.EmbeddingTimeout().String())
	assert.Equal(t, "2m0s", cfg.GenerationTimeout().String())

	cfg.Embedding.TimeoutSeconds = 0
	cfg.Generation.TimeoutSeconds = -1
	assert.Equal(t, "1m0s", cfg.EmbeddingTimeout().String(), "non-positive falls back to default")
	assert.Equal(t, "2m0s", cfg.GenerationTimeout().String())
}
