package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"press_release_drafter/config"
	"press_release_drafter/docx"
	"press_release_drafter/generator"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mockEnv(t *testing.T, template string) {
	t.Helper()
	for _, k := range []string{config.EnvAPIType, config.EnvAPIBase, config.EnvAPIVersion, config.EnvAPIKey, config.EnvEngineID, config.EnvVariant} {
		t.Setenv(k, "")
	}
	t.Setenv(config.EnvProvider, config.ProviderMock)
	t.Setenv(config.EnvTemplate, template)
}

func TestInitTemplateThenGenerate(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "tpl", "pressrelease.docx")
	out := filepath.Join(dir, "out", "release.docx")
	mockEnv(t, template)

	_, err := runCmd(t, "", "init-template", "--out", template)
	require.NoError(t, err)

	_, err = runCmd(t, "", "init-template", "--out", template)
	require.Error(t, err, "existing template is not overwritten")

	stdout, err := runCmd(t, "Berlin plant opens", "generate", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Announcement")
	assert.Contains(t, stdout, "wrote "+out)

	doc, err := docx.Open(out)
	require.NoError(t, err)
	text := doc.Text()
	assert.Contains(t, text, "Announcement")
	assert.Contains(t, text, "Berlin plant opens")
	assert.NotContains(t, text, "\nTitle\n")
}

func TestGenerate_MissingSettings(t *testing.T) {
	for _, k := range []string{config.EnvAPIType, config.EnvAPIBase, config.EnvAPIVersion, config.EnvAPIKey, config.EnvEngineID, config.EnvProvider} {
		t.Setenv(k, "")
	}
	_, err := runCmd(t, "", "generate", "--notes", "x")
	require.ErrorIs(t, err, config.ErrMissingSettings)
	assert.Contains(t, err.Error(), config.EnvAPIKey)
}

func TestBuildLLM(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderMock
	llm, err := buildLLM(cfg)
	require.NoError(t, err)
	assert.IsType(t, generator.MockLLM{}, llm)

	cfg.LLM.Provider = "carrier-pigeon"
	_, err = buildLLM(cfg)
	require.Error(t, err)

	cfg = config.Default()
	cfg.LLM.APIType = generator.APITypeOpenAI
	cfg.LLM.APIKey = "k"
	cfg.LLM.Engine = "gpt-4o"
	llm, err = buildLLM(cfg)
	require.NoError(t, err)
	assert.IsType(t, &generator.OpenAILLM{}, llm)
}

func TestReadNotes(t *testing.T) {
	got, err := readNotes(strings.NewReader("stdin"), "flag", "")
	require.NoError(t, err)
	assert.Equal(t, "flag", got)

	got, err = readNotes(strings.NewReader("from stdin"), "", "")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = readNotes(nil, "", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
