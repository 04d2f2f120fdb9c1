package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's environment and home config out of the test
func isolate(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	for _, names := range providerKeyEnv {
		for _, n := range names {
			t.Setenv(n, "")
		}
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "claude", cfg.Model.Provider)
	assert.Equal(t, 120*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 2, cfg.Model.MaxRetries)
	assert.Equal(t, 20, cfg.Pipeline.MinContentLength)
	assert.Equal(t, int64(15<<20), cfg.Pipeline.MaxImageBytes)
	assert.False(t, cfg.Pipeline.RepairJSON)
	assert.Equal(t, "fr", cfg.Pipeline.DefaultLanguage)
	assert.Equal(t, "ooxml", cfg.Generator.Kind)
	assert.Empty(t, cfg.Model.APIKey)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[model]
provider = "openai"
name = "gpt-4o"
timeout = "45s"

[pipeline]
repair_json = true

[generator]
kind = "command"
command = "/usr/bin/clone"
args = ["{template}", "{output}"]
`), 0o600))

	t.Setenv("SLIDEARCHITECT_SERVER__PORT", "7070")
	t.Setenv("SLIDEARCHITECT_PIPELINE__MIN_CONTENT_LENGTH", "50")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 45*time.Second, cfg.Model.Timeout)
	assert.Equal(t, "sk-openai", cfg.Model.APIKey)
	assert.Equal(t, 50, cfg.Pipeline.MinContentLength)
	assert.True(t, cfg.Pipeline.RepairJSON)
	assert.Equal(t, []string{"{template}", "{output}"}, cfg.Generator.Args)
	require.NoError(t, Validate(cfg))
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	isolate(t)
	t.Setenv("SLIDEARCHITECT_MODEL__API_KEY", "sk-explicit")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ambient")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sk-explicit", cfg.Model.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	isolate(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "slidearchitect.toml")

	require.NoError(t, InitConfig(path, SampleOptions{}))
	assert.Error(t, InitConfig(path, SampleOptions{}))

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model.Name)
	assert.Equal(t, "ooxml", cfg.Generator.Kind)
	assert.NoError(t, Validate(cfg))
}

func TestInitConfig_Options(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "slidearchitect.toml")
	require.NoError(t, InitConfig(path, SampleOptions{}))

	require.NoError(t, InitConfig(path, SampleOptions{
		Provider:         "gemini",
		GeneratorCommand: "/opt/pptx-clone",
		Force:            true,
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "defaults to GOOGLE_API_KEY or GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model.Name)
	assert.Equal(t, "g-key", cfg.Model.APIKey)
	assert.Equal(t, "command", cfg.Generator.Kind)
	assert.Equal(t, "/opt/pptx-clone", cfg.Generator.Command)
	assert.Equal(t, []string{"{template}", "{instructions}", "{output}"}, cfg.Generator.Args)
	assert.NoError(t, Validate(cfg))

	err = InitConfig(filepath.Join(t.TempDir(), "other.toml"), SampleOptions{Provider: "mistral"})
	assert.ErrorContains(t, err, `unsupported model provider "mistral"`)
}

func TestValidate(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	base, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, Validate(base))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"provider", func(c *Config) { c.Model.Provider = "mistral" }},
		{"missing key", func(c *Config) { c.Model.APIKey = "" }},
		{"retries", func(c *Config) { c.Model.MaxRetries = -1 }},
		{"min length", func(c *Config) { c.Pipeline.MinContentLength = -1 }},
		{"image bytes", func(c *Config) { c.Pipeline.MaxImageBytes = 0 }},
		{"images", func(c *Config) { c.Pipeline.MaxImages = 0 }},
		{"language", func(c *Config) { c.Pipeline.DefaultLanguage = "de" }},
		{"generator kind", func(c *Config) { c.Generator.Kind = "pdf" }},
		{"generator command", func(c *Config) { c.Generator.Kind = "command" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}

	ollama := *base
	ollama.Model.Provider = "ollama"
	ollama.Model.APIKey = ""
	assert.NoError(t, Validate(&ollama))
}
