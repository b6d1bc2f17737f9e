package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// It talks to both api.openai.com style endpoints and Azure OpenAI deployments.
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if cfg.Engine == "" {
		return nil, errors.New("engine is required; set OPENAI_ENGINE_ID")
	}

	// Failures are terminal for a request; the user presses the button again.
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	switch cfg.APIType {
	case APITypeAzure:
		if cfg.BaseURL == "" || cfg.APIVersion == "" {
			return nil, errors.New("azure api type requires OPENAI_API_BASE and OPENAI_API_VERSION")
		}
		opts = append(opts,
			azure.WithEndpoint(cfg.BaseURL, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	case APITypeOpenAI, "openai", "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
	default:
		return nil, fmt.Errorf("api type %q not supported", cfg.APIType)
	}
	return &OpenAILLM{Model: cfg.Engine, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature:      openai.Float(prompt.Temperature),
		TopP:             openai.Float(prompt.TopP),
		FrequencyPenalty: openai.Float(prompt.FrequencyPenalty),
		PresencePenalty:  openai.Float(prompt.PresencePenalty),
	}
	if prompt.MaxTokens > 0 {
		params.MaxTokens = openai.Int(prompt.MaxTokens)
	}
	if prompt.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
