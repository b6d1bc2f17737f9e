// Package pressrelease fills a docx template with a generated draft and
// packages the result for download.
package pressrelease

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"press_release_drafter/docx"
	"press_release_drafter/generator"
)

// ErrMarkerMissing is returned in strict mode when a binding matched no paragraph.
var ErrMarkerMissing = errors.New("template marker not found")

// TitleSizePt is the font size of the inserted title run.
const TitleSizePt = 14

// Binding ties a draft field to the template paragraph that receives it.
// A paragraph matches when it holds a MERGEFIELD named Field, or when its
// text contains Marker.
type Binding struct {
	Field  string
	Marker string
	Style  docx.RunStyle
}

// ProseBindings places the whole draft body into the "Cologne" paragraph.
func ProseBindings() []Binding {
	return []Binding{{Field: generator.FieldBody, Marker: "Cologne"}}
}

// StructuredBindings places the title and three paragraphs.
func StructuredBindings() []Binding {
	return []Binding{
		{Field: generator.FieldTitle, Marker: "Title", Style: docx.RunStyle{Bold: true, SizePt: TitleSizePt}},
		{Field: generator.FieldParagraph1, Marker: "First"},
		{Field: generator.FieldParagraph2, Marker: "Second"},
		{Field: generator.FieldParagraph3, Marker: "Third"},
	}
}

// BindingsFor returns the default bindings of a variant with marker
// overrides applied. Overrides are keyed by field.
func BindingsFor(v generator.Variant, markers map[string]string) []Binding {
	bindings := StructuredBindings()
	if v == generator.VariantProse {
		bindings = ProseBindings()
	}
	for i, b := range bindings {
		if m, ok := markers[b.Field]; ok {
			bindings[i].Marker = m
		}
	}
	return bindings
}

// FillReport lists which bindings were placed.
type FillReport struct {
	Applied []string `json:"applied"`
	Missing []string `json:"missing"`
}

// Fill scans the top-level paragraphs in order and replaces the first match
// of each binding with the draft's value for that field. Scanning stops once
// every binding is placed; later duplicates are left untouched. Bindings with
// no match are reported as missing.
func Fill(doc *docx.Document, draft generator.Draft, bindings []Binding) FillReport {
	applied := make([]bool, len(bindings))
	remaining := len(bindings)

	for _, p := range doc.Paragraphs() {
		if remaining == 0 {
			break
		}
		text := p.Text()
		for i, b := range bindings {
			if applied[i] || !matches(p, text, b) {
				continue
			}
			value, _ := draft.Field(b.Field)
			p.Clear().AddRun(value, b.Style)
			applied[i] = true
			remaining--
			break
		}
	}

	report := FillReport{Applied: []string{}, Missing: []string{}}
	for i, b := range bindings {
		if applied[i] {
			report.Applied = append(report.Applied, b.Field)
		} else {
			report.Missing = append(report.Missing, b.Field)
		}
	}
	return report
}

func matches(p *docx.Paragraph, text string, b Binding) bool {
	if p.HasMergeField(b.Field) {
		return true
	}
	return b.Marker != "" && strings.Contains(text, b.Marker)
}

// Filler opens a fresh copy of the template for every draft.
type Filler struct {
	templatePath string
	bindings     []Binding
	strict       bool
	logger       *zap.Logger
}

// NewFiller checks that the template exists; it is read again on every Fill.
func NewFiller(templatePath string, bindings []Binding, strict bool, logger *zap.Logger) (*Filler, error) {
	if len(bindings) == 0 {
		return nil, errors.New("at least one binding is required")
	}
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{templatePath: templatePath, bindings: bindings, strict: strict, logger: logger}, nil
}

// Fill opens the template and fills it with draft.
func (f *Filler) Fill(draft generator.Draft) (*docx.Document, FillReport, error) {
	doc, err := docx.Open(f.templatePath)
	if err != nil {
		return nil, FillReport{}, err
	}
	report := Fill(doc, draft, f.bindings)
	if len(report.Missing) > 0 {
		f.logger.Warn("template markers not found",
			zap.String("template", f.templatePath),
			zap.Strings("fields", report.Missing))
		if f.strict {
			return nil, report, fmt.Errorf("%w: %s", ErrMarkerMissing, strings.Join(report.Missing, ", "))
		}
	}
	return doc, report, nil
}
