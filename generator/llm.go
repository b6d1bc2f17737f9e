package generator

import "context"

// LLMClient abstracts the completion endpoint so it can be replaced or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// API types accepted in LLMSettings.APIType.
const (
	APITypeOpenAI = "open_ai"
	APITypeAzure  = "azure"
)

// LLMSettings is the connection configuration handed to a concrete client.
type LLMSettings struct {
	Provider   string
	APIType    string
	BaseURL    string
	APIVersion string
	APIKey     string
	// Engine is the model name, or the deployment name on Azure.
	Engine string
}
