package pressrelease

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"

	"press_release_drafter/docx"
	"press_release_drafter/generator"
)

// Package serializes doc into a reader positioned at the start.
func Package(doc *docx.Document) (*bytes.Reader, error) {
	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return bytes.NewReader(data), nil
}

// RenderPreview converts the draft's markdown to HTML for the web page.
// Raw HTML in the model output is not passed through.
func RenderPreview(d generator.Draft) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(d.Markdown()), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
