// Package config loads the drafter's settings from an optional YAML file,
// .env files and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"press_release_drafter/generator"
)

// ErrMissingSettings is returned by Validate when required settings are unset.
var ErrMissingSettings = errors.New("missing required settings")

// Environment variables read by Load.
const (
	EnvAPIType    = "OPENAI_API_TYPE"
	EnvAPIBase    = "OPENAI_API_BASE"
	EnvAPIVersion = "OPENAI_API_VERSION"
	EnvAPIKey     = "OPENAI_API_KEY"
	EnvEngineID   = "OPENAI_ENGINE_ID"
	EnvProvider   = "LLM_PROVIDER"
	EnvTemplate   = "PRESS_RELEASE_TEMPLATE"
	EnvVariant    = "PRESS_RELEASE_VARIANT"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Config holds everything needed to run the pipeline.
type Config struct {
	ServerAddr    string            `yaml:"server_addr"`
	TemplatePath  string            `yaml:"template_path"`
	Variant       string            `yaml:"variant"`
	Company       string            `yaml:"company"`
	StrictMarkers bool              `yaml:"strict_markers"`
	Markers       map[string]string `yaml:"markers,omitempty"`
	LLM           LLMConfig         `yaml:"llm"`
	Sampling      Sampling          `yaml:"sampling"`
	Download      Download          `yaml:"download"`
}

// LLMConfig describes the completion endpoint.
type LLMConfig struct {
	Provider   string `yaml:"provider"`
	APIType    string `yaml:"api_type"`
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
	APIKey     string `yaml:"api_key"`
	Engine     string `yaml:"engine"`
}

// Sampling overrides the variant's default sampling settings. Nil keeps the default.
type Sampling struct {
	Temperature      *float64 `yaml:"temperature"`
	TopP             *float64 `yaml:"top_p"`
	MaxTokens        *int64   `yaml:"max_tokens"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty"`
	PresencePenalty  *float64 `yaml:"presence_penalty"`
}

// Download configures the file handed to the browser.
type Download struct {
	Filename string        `yaml:"filename"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerAddr:   ":8080",
		TemplatePath: "template/pressrelease.docx",
		Variant:      string(generator.VariantStructured),
		Company:      "Igus",
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			APIType:  generator.APITypeAzure,
		},
		Download: Download{
			Filename: "Generated_Press_Release.docx",
			TTL:      10 * time.Minute,
		},
	}
}

// LoadEnvFiles loads .env style files without overriding variables that are
// already set. Files that do not exist are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading env file %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML (or JSON) file at path on top of the defaults, then
// applies environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.LLM.APIType, EnvAPIType)
	set(&c.LLM.BaseURL, EnvAPIBase)
	set(&c.LLM.APIVersion, EnvAPIVersion)
	set(&c.LLM.APIKey, EnvAPIKey)
	set(&c.LLM.Engine, EnvEngineID)
	set(&c.LLM.Provider, EnvProvider)
	set(&c.TemplatePath, EnvTemplate)
	set(&c.Variant, EnvVariant)
}

// Validate reports every missing setting at once, by environment variable name.
func (c Config) Validate() error {
	if _, err := generator.ParseVariant(c.Variant); err != nil {
		return err
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("%w: template_path", ErrMissingSettings)
	}

	switch c.LLM.Provider {
	case ProviderMock:
		return nil
	case ProviderOpenAI, "":
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}

	var missing []string
	need := func(v, name string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	need(c.LLM.APIType, EnvAPIType)
	if c.LLM.APIType == generator.APITypeAzure {
		need(c.LLM.BaseURL, EnvAPIBase)
		need(c.LLM.APIVersion, EnvAPIVersion)
	}
	need(c.LLM.APIKey, EnvAPIKey)
	need(c.LLM.Engine, EnvEngineID)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(missing, ", "))
	}
	return nil
}

// Profile returns the generator profile for the configured variant with
// sampling overrides applied.
func (c Config) Profile() (generator.Profile, error) {
	v, err := generator.ParseVariant(c.Variant)
	if err != nil {
		return generator.Profile{}, err
	}
	p := generator.DefaultProfile(v)
	if c.Company != "" {
		p.Company = c.Company
	}
	s := c.Sampling
	if s.Temperature != nil {
		p.Temperature = *s.Temperature
	}
	if s.TopP != nil {
		p.TopP = *s.TopP
	}
	if s.MaxTokens != nil {
		p.MaxTokens = *s.MaxTokens
	}
	if s.FrequencyPenalty != nil {
		p.FrequencyPenalty = *s.FrequencyPenalty
	}
	if s.PresencePenalty != nil {
		p.PresencePenalty = *s.PresencePenalty
	}
	return p, nil
}

// LLMSettings converts the LLM section for the generator.
func (c Config) LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider:   c.LLM.Provider,
		APIType:    c.LLM.APIType,
		BaseURL:    c.LLM.BaseURL,
		APIVersion: c.LLM.APIVersion,
		APIKey:     c.LLM.APIKey,
		Engine:     c.LLM.Engine,
	}
}
