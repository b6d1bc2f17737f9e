package pressrelease

import (
	"bytes"
	"context"
	"errors"

	"go.uber.org/zap"

	"press_release_drafter/generator"
)

// Result is everything one run of the pipeline produces.
type Result struct {
	Draft  generator.Draft
	Report FillReport
	// Document is the filled .docx, positioned at the start.
	Document *bytes.Reader
	// DocumentText is the plain text of the filled document, for preview.
	DocumentText string
}

// Pipeline runs notes → draft → filled template → bytes.
type Pipeline struct {
	gen    *generator.Generator
	filler *Filler
	logger *zap.Logger
}

func NewPipeline(gen *generator.Generator, filler *Filler, logger *zap.Logger) (*Pipeline, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if filler == nil {
		return nil, errors.New("filler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{gen: gen, filler: filler, logger: logger}, nil
}

// Run generates a draft for notes and fills the template with it. Errors from
// generation wrap generator.ErrGeneration.
func (p *Pipeline) Run(ctx context.Context, notes string) (*Result, error) {
	draft, err := p.gen.Generate(ctx, notes)
	if err != nil {
		return nil, err
	}

	doc, report, err := p.filler.Fill(draft)
	if err != nil {
		return nil, err
	}

	text := doc.Text()
	buf, err := Package(doc)
	if err != nil {
		return nil, err
	}
	p.logger.Info("press release built",
		zap.Strings("applied", report.Applied),
		zap.Int("bytes", buf.Len()))

	return &Result{
		Draft:        draft,
		Report:       report,
		Document:     buf,
		DocumentText: text,
	}, nil
}
