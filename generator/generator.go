// Package generator turns announcement notes into a press release draft by
// calling a chat completion endpoint.
package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrGeneration wraps every failure of Generate: transport errors, API errors
// and unusable replies alike.
var ErrGeneration = errors.New("press release generation failed")

// FailureMessage is the text shown to users when generation fails.
const FailureMessage = "An error occurred while generating the press release."

// Generator builds the prompt for its profile, calls the LLM and parses the reply.
type Generator struct {
	llm     LLMClient
	profile Profile
	logger  *zap.Logger
}

func NewGenerator(llm LLMClient, profile Profile, logger *zap.Logger) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if profile.Variant != VariantProse && profile.Variant != VariantStructured {
		return nil, fmt.Errorf("unknown variant %q", profile.Variant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{llm: llm, profile: profile, logger: logger}, nil
}

// Profile returns the generator's prompt and sampling profile.
func (g *Generator) Profile() Profile {
	return g.profile
}

// Generate makes exactly one completion call. On failure it logs the cause and
// returns an error wrapping ErrGeneration; it never retries.
func (g *Generator) Generate(ctx context.Context, notes string) (Draft, error) {
	prompt := BuildPrompt(g.profile, notes)
	g.logger.Debug("requesting draft",
		zap.String("variant", string(g.profile.Variant)),
		zap.Int("notes_len", len(notes)),
		zap.Int64("max_tokens", prompt.MaxTokens))

	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return g.fail(err)
	}
	draft, err := PostProcess(raw, g.profile.Variant)
	if err != nil {
		return g.fail(err)
	}

	g.logger.Info("draft generated",
		zap.String("variant", string(draft.Variant)),
		zap.String("title", draft.Title))
	return draft, nil
}

func (g *Generator) fail(err error) (Draft, error) {
	g.logger.Error("generating press release", zap.Error(err))
	return Draft{}, fmt.Errorf("%w: %w", ErrGeneration, err)
}
