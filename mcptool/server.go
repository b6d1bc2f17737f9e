// Package mcptool exposes the press release pipeline as a Model Context
// Protocol tool, so agents can draft documents without the web UI.
package mcptool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"press_release_drafter/generator"
	"press_release_drafter/pressrelease"
)

// GenerateInput is the input of the generate_press_release tool.
type GenerateInput struct {
	Notes      string `json:"notes"       jsonschema:"free-text announcement notes"`
	OutputPath string `json:"output_path" jsonschema:"where to write the .docx file"`
}

// GenerateOutput is the output of the generate_press_release tool.
type GenerateOutput struct {
	Title          string   `json:"title"                     jsonschema:"generated headline"`
	Paragraph1     string   `json:"paragraph1,omitempty"      jsonschema:"first body paragraph"`
	Paragraph2     string   `json:"paragraph2,omitempty"      jsonschema:"second body paragraph"`
	Paragraph3     string   `json:"paragraph3,omitempty"      jsonschema:"third body paragraph"`
	Body           string   `json:"body"                      jsonschema:"full draft text"`
	OutputPath     string   `json:"output_path"               jsonschema:"path of the written .docx file"`
	MissingMarkers []string `json:"missing_markers,omitempty" jsonschema:"draft fields the template had no place for"`
}

// NewServer creates an MCP server with the generate_press_release tool registered.
func NewServer(version string, pipeline *pressrelease.Pipeline) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "press-release-drafter",
		Version: version,
	}, nil)
	openWorld := true
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_press_release",
		Description: "Draft a press release from announcement notes with the configured language model and write it into the .docx template at output_path.",
		Annotations: &mcp.ToolAnnotations{OpenWorldHint: &openWorld},
	}, handleGenerate(pipeline))
	return server
}

func handleGenerate(pipeline *pressrelease.Pipeline) mcp.ToolHandlerFor[GenerateInput, GenerateOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
		if in.OutputPath == "" {
			return nil, GenerateOutput{}, errors.New("output_path is required")
		}
		res, err := pipeline.Run(ctx, in.Notes)
		if errors.Is(err, generator.ErrGeneration) {
			return nil, GenerateOutput{}, errors.New(generator.FailureMessage)
		}
		if err != nil {
			return nil, GenerateOutput{}, err
		}

		if err := writeDocument(in.OutputPath, res.Document); err != nil {
			return nil, GenerateOutput{}, err
		}

		d := res.Draft
		return nil, GenerateOutput{
			Title:          d.Title,
			Paragraph1:     d.Paragraph1,
			Paragraph2:     d.Paragraph2,
			Paragraph3:     d.Paragraph3,
			Body:           d.Body,
			OutputPath:     in.OutputPath,
			MissingMarkers: res.Report.Missing,
		}, nil
	}
}

// writeDocument writes doc to path, creating parent directories. Close
// errors are returned.
func writeDocument(path string, doc io.WriterTo) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if _, err := doc.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
