package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errEmptyReply = errors.New("model returned an empty reply")
	errNoObject   = errors.New("model reply contains no JSON object")
)

// PostProcess turns the raw model reply into a Draft for the given variant.
func PostProcess(raw string, variant Variant) (Draft, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Draft{}, errEmptyReply
	}
	if variant == VariantStructured {
		return parseStructured(text)
	}
	return Draft{
		Variant: VariantProse,
		Title:   extractTitle(text),
		Body:    text,
	}, nil
}

type structuredReply struct {
	Title      *string `json:"title"`
	Paragraph1 *string `json:"paragraph1"`
	Paragraph2 *string `json:"paragraph2"`
	Paragraph3 *string `json:"paragraph3"`
}

func parseStructured(text string) (Draft, error) {
	obj, err := extractObject(text)
	if err != nil {
		return Draft{}, err
	}
	var rep structuredReply
	if err := json.Unmarshal([]byte(obj), &rep); err != nil {
		return Draft{}, fmt.Errorf("decoding model reply: %w", err)
	}

	fields := []struct {
		key string
		val *string
	}{
		{FieldTitle, rep.Title},
		{FieldParagraph1, rep.Paragraph1},
		{FieldParagraph2, rep.Paragraph2},
		{FieldParagraph3, rep.Paragraph3},
	}
	for _, f := range fields {
		if f.val == nil {
			return Draft{}, fmt.Errorf("model reply missing key %q", f.key)
		}
	}

	// Field values are kept exactly as the model wrote them.
	d := Draft{
		Variant:    VariantStructured,
		Title:      *rep.Title,
		Paragraph1: *rep.Paragraph1,
		Paragraph2: *rep.Paragraph2,
		Paragraph3: *rep.Paragraph3,
	}
	d.Body = strings.Join([]string{d.Paragraph1, d.Paragraph2, d.Paragraph3}, "\n\n")
	return d, nil
}

// extractObject strips code fences and any chatter around the JSON object.
func extractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errNoObject
	}
	return text[start : end+1], nil
}

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func extractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
