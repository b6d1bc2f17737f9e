package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM is an offline stand-in for local runs and demos; it never calls a model.
// It echoes the notes back in whichever shape the prompt asks for.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	notes := strings.TrimSpace(prompt.User)
	if notes == "" {
		notes = "No announcement notes were provided."
	}
	if prompt.JSON {
		out, err := json.Marshal(map[string]string{
			FieldTitle:      "Announcement",
			FieldParagraph1: notes,
			FieldParagraph2: "Further details will be shared in the coming weeks.",
			FieldParagraph3: "For more information, please contact the press office.",
		})
		return string(out), err
	}

	var sb strings.Builder
	sb.WriteString("# Announcement\n\n")
	sb.WriteString(notes)
	sb.WriteString("\n\nFor more information, please contact the press office.\n")
	return sb.String(), nil
}
