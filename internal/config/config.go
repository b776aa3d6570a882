// Package config loads and validates the ragkb configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level ragkb configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Documents  DocumentsConfig  `yaml:"documents"`
	Eval       EvalConfig       `yaml:"eval"`
	Policy     PolicyConfig     `yaml:"policy,omitempty"`
}

// StorageConfig locates the vector store.
type StorageConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

// ChunkingConfig controls the text splitter.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig controls the query path.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
	// Threshold is the cosine-distance gate: a best match farther than
	// this yields a refusal without calling the generator.
	Threshold float32 `yaml:"threshold"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "ollama" or "hash"
	BaseURL        string `yaml:"base_url,omitempty"`
	Model          string `yaml:"model,omitempty"`
	Dimensions     int    `yaml:"dimensions,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// GenerationConfig tunes the answer generator.
type GenerationConfig struct {
	BaseURL        string  `yaml:"base_url,omitempty"`
	Model          string  `yaml:"model,omitempty"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
}

// DocumentsConfig locates the knowledge-base source files.
type DocumentsConfig struct {
	Dir    string `yaml:"dir"`
	NewDir string `yaml:"new_dir,omitempty"` // incremental updates pick up files here
}

// EvalConfig locates the golden question set and the evaluation log.
type EvalConfig struct {
	GoldenFile   string `yaml:"golden_file,omitempty"`
	LogFile      string `yaml:"log_file,omitempty"`
	MinAnswerLen int    `yaml:"min_answer_len,omitempty"`
}

// PolicyConfig carries optional overrides for the prompt policy. Empty
// fields keep the built-in defaults.
type PolicyConfig struct {
	SecurityInstruction string   `yaml:"security_instruction,omitempty"`
	NoEvidenceAnswer    string   `yaml:"no_evidence_answer,omitempty"`
	RefusalAnswer       string   `yaml:"refusal_answer,omitempty"`
	BlockedAnswer       string   `yaml:"blocked_answer,omitempty"`
	ForbiddenTerms      []string `yaml:"forbidden_terms,omitempty"`
	RefusalMarkers      []string `yaml:"refusal_markers,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "data/knowledge.db",
			Collection: "knowledge_base",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    300,
			ChunkOverlap: 50,
		},
		Retrieval: RetrievalConfig{
			TopK:      5,
			Threshold: 0.35,
		},
		Embedding: EmbeddingConfig{
			Provider:       "ollama",
			BaseURL:        "http://localhost:11434",
			Model:          "nomic-embed-text",
			Dimensions:     768,
			TimeoutSeconds: 60,
		},
		Generation: GenerationConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "mistral",
			Temperature:    0.3,
			TimeoutSeconds: 120,
		},
		Documents: DocumentsConfig{
			Dir:    "data/documents",
			NewDir: "data/new_documents",
		},
		Eval: EvalConfig{
			GoldenFile:   "data/golden_questions.txt",
			LogFile:      "logs/evaluation_log.csv",
			MinAnswerLen: 20,
		},
	}
}

// Load reads the configuration at path. A missing file is not an
// error: the defaults are written there so the next run starts from a
// file the operator can edit. ${ENV_VAR} placeholders and a leading
// "~/" in path-valued fields are expanded after parsing.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("save default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.expandTilde()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if c.Storage.Collection == "" {
		return fmt.Errorf("storage.collection must not be empty")
	}
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive")
	}
	if c.Chunking.ChunkOverlap < 0 {
		return fmt.Errorf("chunking.chunk_overlap must not be negative")
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunking.chunk_overlap must be smaller than chunk_size")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 2 {
		return fmt.Errorf("retrieval.threshold must be within [0, 2], got %g", c.Retrieval.Threshold)
	}
	switch c.Embedding.Provider {
	case "ollama", "hash":
	default:
		return fmt.Errorf("embedding.provider must be \"ollama\" or \"hash\", got %q", c.Embedding.Provider)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0, 2], got %g", c.Generation.Temperature)
	}
	return nil
}

// EmbeddingTimeout returns the embedding HTTP timeout.
func (c *Config) EmbeddingTimeout() time.Duration {
	if c.Embedding.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Embedding.TimeoutSeconds) * time.Second
}

// GenerationTimeout returns the generation HTTP timeout.
func (c *Config) GenerationTimeout() time.Duration {
	if c.Generation.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// expandEnvVars expands ${ENV_VAR} placeholders in string fields that
// commonly carry them.
func (c *Config) expandEnvVars() {
	c.Storage.Path = os.ExpandEnv(c.Storage.Path)
	c.Embedding.BaseURL = os.ExpandEnv(c.Embedding.BaseURL)
	c.Generation.BaseURL = os.ExpandEnv(c.Generation.BaseURL)
	c.Documents.Dir = os.ExpandEnv(c.Documents.Dir)
	c.Documents.NewDir = os.ExpandEnv(c.Documents.NewDir)
	c.Eval.GoldenFile = os.ExpandEnv(c.Eval.GoldenFile)
	c.Eval.LogFile = os.ExpandEnv(c.Eval.LogFile)
}

// expandTilde replaces a leading "~/" with the user's home directory
// in path-valued fields. Called before env-var expansion so that both
// "~/kb" and "${KB_PATH}" work.
func (c *Config) expandTilde() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	expand := func(p string) string {
		if p == "~" {
			return home
		}
		if strings.HasPrefix(p, "~/") {
			return filepath.Join(home, p[2:])
		}
		return p
	}

	c.Storage.Path = expand(c.Storage.Path)
	c.Documents.Dir = expand(c.Documents.Dir)
	c.Documents.NewDir = expand(c.Documents.NewDir)
	c.Eval.GoldenFile = expand(c.Eval.GoldenFile)
	c.Eval.LogFile = expand(c.Eval.LogFile)
}
