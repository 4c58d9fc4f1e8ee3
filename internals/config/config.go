package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/titanous/json5"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	DefaultMaxTokens = 1024
)

type Config struct {
	APIKey    string `json:"-"`
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	// Dir is the directory tool paths are resolved against.
	Dir      string `json:"dir"`
	System   string `json:"system"`
	LogLevel string `json:"log_level"`
	BaseURL  string `json:"base_url"`
}

func Default() Config {
	return Config{
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
		Dir:       ".",
		LogLevel:  "warn",
	}
}

// Load applies, in order: defaults, the JSON5 file at path (if path is
// non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json5.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.Model = envOr("AGENT_MODEL", cfg.Model)
	cfg.Dir = envOr("AGENT_DIR", cfg.Dir)
	cfg.BaseURL = envOr("ANTHROPIC_BASE_URL", cfg.BaseURL)
	if v := os.Getenv("AGENT_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("AGENT_MAX_TOKENS: %w", err)
		}
		cfg.MaxTokens = n
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is not set"))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model is empty"))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens))
	}
	if info, err := os.Stat(c.Dir); err != nil || !info.IsDir() {
		errs = append(errs, fmt.Errorf("dir %q is not a directory", c.Dir))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
