package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"press_release_drafter/config"
	"press_release_drafter/generator"
	"press_release_drafter/pressrelease"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "press-release-drafter",
		Short: "Draft press releases from announcement notes",
		Long: `Turns free-text announcement notes into a press release with a hosted
language model and fills the result into a .docx template.

Connection settings come from OPENAI_API_TYPE, OPENAI_API_BASE,
OPENAI_API_VERSION, OPENAI_API_KEY and OPENAI_ENGINE_ID (environment or .env),
optionally on top of a YAML config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.LoadEnvFiles(".env.local", ".env")
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML or JSON config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")

	cmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newInitTemplateCmd(),
		newMCPCmd(opts),
	)
	return cmd
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// loadConfig reads and validates the configuration; a missing setting is a
// user-facing error naming the variable.
func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	case config.ProviderOpenAI, "":
		return generator.NewOpenAILLMFromConfig(cfg.LLMSettings())
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildPipeline(cfg config.Config, logger *zap.Logger) (*pressrelease.Pipeline, generator.Variant, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, "", err
	}
	profile, err := cfg.Profile()
	if err != nil {
		return nil, "", err
	}
	gen, err := generator.NewGenerator(llm, profile, logger.Named("generator"))
	if err != nil {
		return nil, "", err
	}
	bindings := pressrelease.BindingsFor(profile.Variant, cfg.Markers)
	filler, err := pressrelease.NewFiller(cfg.TemplatePath, bindings, cfg.StrictMarkers, logger.Named("filler"))
	if err != nil {
		return nil, "", err
	}
	pipeline, err := pressrelease.NewPipeline(gen, filler, logger.Named("pipeline"))
	if err != nil {
		return nil, "", err
	}
	return pipeline, profile.Variant, nil
}
