package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/aiconnectors"
)

// EnvPrefix prefixes every environment override; "__" separates sections,
// e.g. SLIDEARCHITECT_MODEL__API_KEY
const EnvPrefix = "SLIDEARCHITECT_"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Model     ModelConfig     `koanf:"model"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Generator GeneratorConfig `koanf:"generator"`
}

type ServerConfig struct {
	Port      int    `koanf:"port"`
	BodyLimit string `koanf:"body_limit"` // echo size notation, e.g. 32M
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console or json
}

type ModelConfig struct {
	Provider          string        `koanf:"provider"`
	Name              string        `koanf:"name"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Temperature       float64       `koanf:"temperature"`
	MaxTokens         int           `koanf:"max_tokens"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

type PipelineConfig struct {
	MinContentLength int    `koanf:"min_content_length"`
	MaxImageBytes    int64  `koanf:"max_image_bytes"`
	MaxImages        int    `koanf:"max_images"`
	RepairJSON       bool   `koanf:"repair_json"`
	DefaultLanguage  string `koanf:"default_language"`
}

type GeneratorConfig struct {
	Kind    string   `koanf:"kind"` // ooxml or command
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`
}

var defaults = map[string]interface{}{
	"server.port":       8080,
	"server.body_limit": "32M",

	"log.level":  "info",
	"log.format": "console",

	"model.provider":            "claude",
	"model.temperature":         0.3,
	"model.max_tokens":          8192,
	"model.timeout":             "120s",
	"model.max_retries":         2,
	"model.requests_per_second": 0,

	"pipeline.min_content_length": 20,
	"pipeline.max_image_bytes":    15 << 20,
	"pipeline.max_images":         20,
	"pipeline.repair_json":        false,
	"pipeline.default_language":   "fr",

	"generator.kind": "ooxml",
}

// providerKeyEnv names the conventional API key variable of each provider
var providerKeyEnv = map[string][]string{
	"claude": {"ANTHROPIC_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
	"gemini": {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"cohere": {"COHERE_API_KEY", "CO_API_KEY"},
}

// DefaultPaths are tried in order when no configuration file is given
var DefaultPaths = []string{"./slidearchitect.toml", "$HOME/.slidearchitect.toml"}

// LoadConfig loads defaults, then the TOML file, then environment overrides
func LoadConfig(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		for _, path := range DefaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("error loading config %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if config.Model.APIKey == "" {
		for _, name := range providerKeyEnv[config.Model.Provider] {
			if v := os.Getenv(name); v != "" {
				config.Model.APIKey = v
				break
			}
		}
	}

	return &config, nil
}

// SampleOptions customises the file written by InitConfig
type SampleOptions struct {
	Provider         string // defaults to claude
	Model            string // defaults to the provider's usual model
	GeneratorCommand string // switches generator.kind to command
	Force            bool   // overwrite an existing file
}

// KeyEnv lists the environment variables read for provider's API key
func KeyEnv(provider string) []string {
	return providerKeyEnv[provider]
}

// InitConfig writes a commented sample configuration
func InitConfig(configPath string, opts SampleOptions) error {
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}
	if opts.Provider == "" {
		opts.Provider = "claude"
	}
	switch opts.Provider {
	case "claude", "openai", "gemini", "cohere", "ollama":
	default:
		return fmt.Errorf("unsupported model provider %q", opts.Provider)
	}
	if opts.Model == "" {
		opts.Model = aiconnectors.DefaultModel(aiconnectors.Provider(opts.Provider))
	}

	keyComment := "# api_key = \"\"       # no key needed for a local ollama"
	if names := KeyEnv(opts.Provider); len(names) > 0 {
		keyComment = fmt.Sprintf("# api_key = \"\"       # defaults to %s", strings.Join(names, " or "))
	}
	generator := "kind = \"ooxml\"       # ooxml or command\n# command = \"/usr/local/bin/pptx-clone\"\n# args = [\"{template}\", \"{instructions}\", \"{output}\"]"
	if opts.GeneratorCommand != "" {
		generator = fmt.Sprintf("kind = \"command\"\ncommand = %q\nargs = [\"{template}\", \"{instructions}\", \"{output}\"]", opts.GeneratorCommand)
	}

	sampleConfig := fmt.Sprintf(`# slidearchitect configuration
# Every key can be overridden with SLIDEARCHITECT_<SECTION>__<KEY>.

[server]
port = 8080
body_limit = "32M"

[log]
level = "info"
format = "console"   # console or json

[model]
provider = %q  # claude, openai, gemini, cohere, ollama
name = %q
%s
temperature = 0.3
max_tokens = 8192
timeout = "120s"
max_retries = 2
requests_per_second = 0

[pipeline]
min_content_length = 20
max_image_bytes = 15728640
max_images = 20
repair_json = false
default_language = "fr"

[generator]
%s
`, opts.Provider, opts.Model, keyComment, generator)

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", config.Log.Level)
	}
	switch config.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", config.Log.Format)
	}

	switch config.Model.Provider {
	case "claude", "openai", "gemini", "cohere":
		if config.Model.APIKey == "" {
			return fmt.Errorf("%s api_key is required", config.Model.Provider)
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported model provider %q", config.Model.Provider)
	}
	if config.Model.MaxRetries < 0 {
		return fmt.Errorf("model max_retries must not be negative")
	}
	if config.Model.Timeout < 0 {
		return fmt.Errorf("model timeout must not be negative")
	}

	if config.Pipeline.MinContentLength < 0 {
		return fmt.Errorf("pipeline min_content_length must not be negative")
	}
	if config.Pipeline.MaxImageBytes <= 0 {
		return fmt.Errorf("pipeline max_image_bytes must be positive")
	}
	if config.Pipeline.MaxImages <= 0 {
		return fmt.Errorf("pipeline max_images must be positive")
	}
	switch config.Pipeline.DefaultLanguage {
	case "fr", "en":
	default:
		return fmt.Errorf("unsupported default language %q", config.Pipeline.DefaultLanguage)
	}

	switch config.Generator.Kind {
	case "ooxml":
	case "command":
		if config.Generator.Command == "" {
			return fmt.Errorf("generator command is required for kind \"command\"")
		}
	default:
		return fmt.Errorf("unsupported generator kind %q", config.Generator.Kind)
	}

	return nil
}
