package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "AGENT_MODEL", "AGENT_DIR", "AGENT_MAX_TOKENS", "ANTHROPIC_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "claude-haiku-4-5", cfg.Model)
	require.EqualValues(t, 1024, cfg.MaxTokens)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // comments and trailing commas are fine
  model: "claude-file",
  max_tokens: 2048,
  system: "Be terse.",
}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "claude-file", cfg.Model)
	require.EqualValues(t, 2048, cfg.MaxTokens)
	require.Equal(t, "Be terse.", cfg.System)
	require.Equal(t, "warn", cfg.LogLevel)

	t.Setenv("AGENT_MODEL", "claude-env")
	t.Setenv("AGENT_MAX_TOKENS", "512")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "claude-env", cfg.Model)
	require.EqualValues(t, 512, cfg.MaxTokens)
	require.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.json5"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json5")
	require.NoError(t, os.WriteFile(bad, []byte(`{model: `), 0644))
	_, err = Load(bad)
	require.Error(t, err)

	t.Setenv("AGENT_MAX_TOKENS", "lots")
	_, err = Load("")
	require.ErrorContains(t, err, "AGENT_MAX_TOKENS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dir = t.TempDir()
	err := cfg.Validate()
	require.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	cfg.APIKey = "sk-test"
	require.NoError(t, cfg.Validate())

	cfg.MaxTokens = 0
	cfg.Dir = filepath.Join(cfg.Dir, "nope")
	err = cfg.Validate()
	require.ErrorContains(t, err, "max_tokens")
	require.ErrorContains(t, err, "not a directory")
}
