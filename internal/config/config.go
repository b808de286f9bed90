// ABOUTME: Runtime configuration for the paper-polish CLI
// ABOUTME: Loads from .env, an optional YAML file, and environment variables

package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the CLI. Precedence: command-line flags
// (handled in cmd) > environment > YAML file > defaults.
type Config struct {
	APIURL    string `yaml:"api_url" env:"PAPER_POLISH_API_URL" env-default:"http://localhost:8080"`
	Provider  string `yaml:"provider" env:"PAPER_POLISH_PROVIDER"`
	Style     string `yaml:"style" env:"PAPER_POLISH_STYLE" env-default:"academic"`
	Language  string `yaml:"language" env:"PAPER_POLISH_LANGUAGE" env-default:"en"`
	ConfigDir string `yaml:"config_dir" env:"PAPER_POLISH_CONFIG_DIR"`
}

var validStyles = map[string]bool{
	"academic": true,
	"formal":   true,
	"concise":  true,
	"detailed": true,
}

// Validate rejects option values the backend would refuse anyway.
func (c *Config) Validate() error {
	if !validStyles[c.Style] {
		return fmt.Errorf("config: unknown style %q", c.Style)
	}
	if c.APIURL == "" {
		return fmt.Errorf("config: api_url must not be empty")
	}
	return nil
}

// Load reads configuration from an optional YAML file and environment
// variables. The file path comes from PAPER_POLISH_CONFIG (fallback
// "./paper-polish.yaml"); a missing fallback file is not an error. A .env
// file in the working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("PAPER_POLISH_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		path = "./paper-polish.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
