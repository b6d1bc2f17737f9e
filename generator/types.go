package generator

import (
	"fmt"
	"strings"
)

// Variant selects the prompt template and with it the shape of the Draft.
type Variant string

const (
	// VariantProse asks for free-form prose that fills a single body paragraph.
	VariantProse Variant = "prose"
	// VariantStructured asks for a JSON object with a title and three paragraphs.
	VariantStructured Variant = "structured"
)

// ParseVariant validates a variant name from config or flags.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantProse, VariantStructured:
		return v, nil
	case "":
		return VariantStructured, nil
	default:
		return "", fmt.Errorf("unknown variant %q (want %q or %q)", s, VariantProse, VariantStructured)
	}
}

// Draft field keys, used by templates to address generated content.
const (
	FieldTitle      = "title"
	FieldParagraph1 = "paragraph1"
	FieldParagraph2 = "paragraph2"
	FieldParagraph3 = "paragraph3"
	FieldBody       = "body"
)

// Draft is the generated press release before it goes into the template.
type Draft struct {
	Variant    Variant `json:"variant"`
	Title      string  `json:"title"`
	Paragraph1 string  `json:"paragraph1,omitempty"`
	Paragraph2 string  `json:"paragraph2,omitempty"`
	Paragraph3 string  `json:"paragraph3,omitempty"`
	// Body is the raw prose for VariantProse, and the paragraphs joined by
	// blank lines for VariantStructured.
	Body string `json:"body"`
}

// Field returns the value stored under a field key.
func (d Draft) Field(name string) (string, bool) {
	switch name {
	case FieldTitle:
		return d.Title, true
	case FieldParagraph1:
		return d.Paragraph1, true
	case FieldParagraph2:
		return d.Paragraph2, true
	case FieldParagraph3:
		return d.Paragraph3, true
	case FieldBody:
		return d.Body, true
	}
	return "", false
}

// Markdown renders the draft for preview.
func (d Draft) Markdown() string {
	if d.Variant != VariantStructured {
		return d.Body
	}
	var sb strings.Builder
	if d.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(d.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(d.Body)
	return sb.String()
}

// Profile is the prompt and sampling configuration for one variant.
type Profile struct {
	Variant          Variant
	Company          string
	Temperature      float64
	TopP             float64
	MaxTokens        int64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultProfile returns the sampling settings each variant was tuned with.
func DefaultProfile(v Variant) Profile {
	p := Profile{
		Variant: v,
		Company: "Igus",
		TopP:    0.95,
	}
	if v == VariantStructured {
		p.Temperature = 0.6
		p.MaxTokens = 1200
	} else {
		p.Variant = VariantProse
		p.Temperature = 0
		p.MaxTokens = 800
	}
	return p
}
