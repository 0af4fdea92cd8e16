package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the policy QA service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Answer    AnswerConfig    `yaml:"answer"`
	Compare   CompareConfig   `yaml:"compare"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LLMConfig holds chat-completion configuration.
type LLMConfig struct {
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	APIKeyEnv      string  `yaml:"api_key_env"` // Environment variable for API key
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// IndexConfig holds document loading and chunking configuration.
type IndexConfig struct {
	DocumentDir  string   `yaml:"document_dir"`
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	ChunkSize    int      `yaml:"chunk_size"`    // characters per chunk
	ChunkOverlap int      `yaml:"chunk_overlap"` // characters of overlap
	DBPath       string   `yaml:"db_path"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// AnswerConfig holds answer composition configuration. An empty
// PromptTemplate keeps the built-in template.
type AnswerConfig struct {
	PromptTemplate string `yaml:"prompt_template"`
}

// CompareConfig holds configuration for the variant comparison tool.
type CompareConfig struct {
	BaseURL      string `yaml:"base_url"`
	DelayMillis  int    `yaml:"delay_millis"` // pause between variant calls to avoid rate limits
	JudgeRetries int    `yaml:"judge_retries"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			BaseURL:        "https://api.openai.com/v1",
			APIKeyEnv:      "OPENAI_API_KEY",
			MaxTokens:      1000,
			Temperature:    0.7,
			TimeoutSeconds: 60,
		},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-3-small",
			BaseURL:   "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Index: IndexConfig{
			DocumentDir:  "data",
			Includes:     []string{"**/*.txt", "**/*.md"},
			Excludes:     []string{"**/.*/**"},
			ChunkSize:    1000,
			ChunkOverlap: 200,
			DBPath:       filepath.Join("data", "index.db"),
		},
		Retrieve: RetrieveConfig{
			TopK: 4,
		},
		Compare: CompareConfig{
			BaseURL:      "http://127.0.0.1:5000",
			DelayMillis:  1000,
			JudgeRetries: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for policyqa.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "policyqa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".policyqa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
