package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair and sampling settings sent to the LLM.
type Prompt struct {
	System string
	User   string
	// JSON requests a json_object response format.
	JSON             bool
	Temperature      float64
	TopP             float64
	MaxTokens        int64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// BuildPrompt renders the instruction template for the profile's variant.
// The notes appear both inside the instruction and as the user message.
func BuildPrompt(p Profile, notes string) Prompt {
	company := p.Company
	if company == "" {
		company = "the company"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a detailed press release for %s based on the following announcement notes:\n", company))
	sb.WriteString(notes)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Ensure the press release is comprehensive, highlights key achievements, incorporates %s's goals, and is engaging for the reader.\n", company))

	structured := p.Variant == VariantStructured
	if structured {
		sb.WriteString("\nRespond with a single JSON object and nothing else. Use exactly these keys, each holding plain text:\n")
		sb.WriteString(fmt.Sprintf("- %q: a short, catchy headline.\n", FieldTitle))
		sb.WriteString(fmt.Sprintf("- %q: the opening paragraph with the core announcement.\n", FieldParagraph1))
		sb.WriteString(fmt.Sprintf("- %q: supporting details and achievements.\n", FieldParagraph2))
		sb.WriteString(fmt.Sprintf("- %q: goals, outlook and a closing statement.\n", FieldParagraph3))
	}

	return Prompt{
		System:           sb.String(),
		User:             notes,
		JSON:             structured,
		Temperature:      p.Temperature,
		TopP:             p.TopP,
		MaxTokens:        p.MaxTokens,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
}
