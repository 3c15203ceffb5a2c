package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("A2T_TEST_KEY", "sk-test")
	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := `default_provider: cloud
providers:
  cloud:
    type: openai
    settings:
      api_key: ${A2T_TEST_KEY}
      model: whisper-1
  whisper_cpp:
    settings:
      threads: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "cloud", cfg.DefaultProvider)

	typ, settings := cfg.Resolve("cloud")
	assert.Equal(t, "openai", typ)
	assert.Equal(t, "sk-test", settings.String("api_key", ""))

	typ, settings = cfg.Resolve("whisper_cpp")
	assert.Equal(t, "whisper_cpp", typ)
	assert.Equal(t, 4, settings.Int("threads", 0))

	typ, settings = cfg.Resolve("gemini")
	assert.Equal(t, "gemini", typ)
	assert.Empty(t, settings)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("default_provider: nope\nproviders: {}\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	var nilCfg *FileConfig
	typ, settings := nilCfg.Resolve("openai")
	assert.Equal(t, "openai", typ)
	assert.Empty(t, settings)
}
