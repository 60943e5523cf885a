package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Generator.Model, cfg.Generator.Model)
	assert.Equal(t, defaults.Usage.DatabasePath, cfg.Usage.DatabasePath)
	assert.Equal(t, defaults.Logging.Level, cfg.Logging.Level)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tranceforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generator:
  model: local-model
  timeout: 30s
logging:
  debug: true
  level: debug
catalogs:
  arcs_path: /tmp/arcs.yaml
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local-model", cfg.Generator.Model)
	assert.Equal(t, 30*time.Second, cfg.Generator.ParsedTimeout())
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, "/tmp/arcs.yaml", cfg.Catalogs.ArcsPath)

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultConfig().Generator.BaseURL, cfg.Generator.BaseURL)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestParsedTimeoutFallback(t *testing.T) {
	assert.Equal(t, 2*time.Minute, GeneratorConfig{Timeout: ""}.ParsedTimeout())
	assert.Equal(t, 2*time.Minute, GeneratorConfig{Timeout: "soon"}.ParsedTimeout())
	assert.Equal(t, 45*time.Second, GeneratorConfig{Timeout: "45s"}.ParsedTimeout())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRANCEFORGE_API_KEY", "sk-test")
	t.Setenv("TRANCEFORGE_MODEL", "env-model")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Generator.APIKey)
	assert.Equal(t, "env-model", cfg.Generator.Model)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Generator.Model = "saved-model"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved-model", loaded.Generator.Model)
}
