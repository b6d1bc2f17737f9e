package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"press_release_drafter/generator"
)

var allEnv = []string{EnvAPIType, EnvAPIBase, EnvAPIVersion, EnvAPIKey, EnvEngineID, EnvProvider, EnvTemplate, EnvVariant}

// clearEnv blanks every variable Load reads; applyEnv treats blank as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "template/pressrelease.docx", cfg.TemplatePath)
	assert.Equal(t, "structured", cfg.Variant)
	assert.Equal(t, "Generated_Press_Release.docx", cfg.Download.Filename)
	assert.Equal(t, 10*time.Minute, cfg.Download.TTL)
	assert.Equal(t, generator.APITypeAzure, cfg.LLM.APIType)
}

func TestLoad_YAMLAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
server_addr: ":9090"
variant: prose
company: Acme
strict_markers: true
markers:
  body: "Munich"
llm:
  api_type: open_ai
  api_key: from-file
  engine: gpt-file
sampling:
  temperature: 0.2
  max_tokens: 500
download:
  ttl: 2m
`)
	t.Setenv(EnvAPIKey, "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "prose", cfg.Variant)
	assert.True(t, cfg.StrictMarkers)
	assert.Equal(t, map[string]string{"body": "Munich"}, cfg.Markers)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-file", cfg.LLM.Engine)
	assert.Equal(t, 2*time.Minute, cfg.Download.TTL)
	assert.Equal(t, "Generated_Press_Release.docx", cfg.Download.Filename, "unset keys keep defaults")

	p, err := cfg.Profile()
	require.NoError(t, err)
	assert.Equal(t, generator.VariantProse, p.Variant)
	assert.Equal(t, "Acme", p.Company)
	assert.InDelta(t, 0.2, p.Temperature, 1e-9)
	assert.Equal(t, int64(500), p.MaxTokens)
	assert.InDelta(t, 0.95, p.TopP, 1e-9)
}

func TestLoad_JSONConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"server_addr": ":7070", "llm": {"provider": "mock"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddr)
	assert.Equal(t, ProviderMock, cfg.LLM.Provider)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "server_addr: [unterminated"))
	require.Error(t, err)
}

func TestValidate_ReportsAllMissingAzureSettings(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.ErrorIs(t, err, ErrMissingSettings)
	for _, name := range []string{EnvAPIBase, EnvAPIVersion, EnvAPIKey, EnvEngineID} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestValidate_OpenAINeedsOnlyKeyAndEngine(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIType, "open_ai")
	t.Setenv(EnvAPIKey, "k")
	t.Setenv(EnvEngineID, "gpt-4o")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s := cfg.LLMSettings()
	assert.Equal(t, "open_ai", s.APIType)
	assert.Equal(t, "k", s.APIKey)
	assert.Equal(t, "gpt-4o", s.Engine)
}

func TestValidate_Mock(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProvider, ProviderMock)
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

func TestValidate_BadValues(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = ProviderMock
	cfg.Variant = "sonnet"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Provider = "carrier-pigeon"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Provider = ProviderMock
	cfg.TemplatePath = ""
	require.ErrorIs(t, cfg.Validate(), ErrMissingSettings)
}

func TestLoadEnvFiles(t *testing.T) {
	path := writeFile(t, ".env", "OPENAI_ENGINE_ID=from-dotenv\nOPENAI_API_KEY=dotenv-key\n")

	t.Setenv(EnvEngineID, "x")
	require.NoError(t, os.Unsetenv(EnvEngineID))
	t.Setenv(EnvAPIKey, "from-env")

	require.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv(EnvEngineID))
	assert.Equal(t, "from-env", os.Getenv(EnvAPIKey), "existing environment wins")
}
