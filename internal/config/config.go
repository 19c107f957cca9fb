// Package config loads the pathmatch configuration file. Settings live
// in a TOML file under the pathmatch home directory and can be
// overridden by environment variables for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// EnvVoyageAPIKey overrides embedding.api_key when set.
const EnvVoyageAPIKey = "PATHMATCH_VOYAGE_API_KEY"

// Config is the full application configuration.
type Config struct {
	DataDir   string          `toml:"data_dir"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Match     MatchConfig     `toml:"match"`
	Server    ServerConfig    `toml:"server"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	Backend   string `toml:"backend" validate:"oneof=local voyage"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url" validate:"omitempty,url"`
	APIKey    string `toml:"api_key"`
	BatchSize int    `toml:"batch_size" validate:"gte=1,lte=128"`
}

// MatchConfig holds default thresholds for the matching pipeline.
// CLI flags take precedence over these values.
type MatchConfig struct {
	PathwayThreshold float64 `toml:"pathway_threshold" validate:"gte=-1,lte=1"`
	ProgramThreshold float64 `toml:"program_threshold" validate:"gte=-1,lte=1"`
	TopKPathways     int     `toml:"top_k_pathways" validate:"gte=1"`
	MaxPrograms      int     `toml:"max_programs" validate:"gte=1"`
}

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Backend:   string(domain.BackendLocal),
			BatchSize: 10,
		},
		Match: MatchConfig{
			PathwayThreshold: domain.DefaultPathwayThreshold,
			ProgramThreshold: domain.DefaultProgramThreshold,
			TopKPathways:     domain.DefaultTopKPathways,
			MaxPrograms:      domain.DefaultMaxProgramsPerOccupation,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the default config file location, ~/.pathmatch/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".pathmatch", "config.toml"), nil
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file is not an error; defaults are returned. The Voyage API
// key environment variable, when set, overrides the file value.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if key := os.Getenv(EnvVoyageAPIKey); key != "" {
		cfg.Embedding.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and backend-specific requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	backend := domain.EmbeddingBackend(c.Embedding.Backend)
	if !backend.IsValid() {
		return fmt.Errorf("%w: unknown embedding backend %q", domain.ErrInvalidConfig, c.Embedding.Backend)
	}
	if backend.RequiresAPIKey() && c.Embedding.APIKey == "" {
		return fmt.Errorf("%w: backend %q requires an API key (set %s)",
			domain.ErrInvalidConfig, backend, EnvVoyageAPIKey)
	}
	return nil
}
