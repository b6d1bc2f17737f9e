package pressrelease

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"press_release_drafter/docx"
	"press_release_drafter/generator"
)

type cannedLLM struct {
	reply string
	err   error
	calls int
}

func (c *cannedLLM) Complete(context.Context, generator.Prompt) (string, error) {
	c.calls++
	return c.reply, c.err
}

func newPipeline(t *testing.T, llm generator.LLMClient, v generator.Variant) *Pipeline {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pressrelease.docx")
	require.NoError(t, StarterTemplate(v, false).Save(path))

	gen, err := generator.NewGenerator(llm, generator.DefaultProfile(v), zap.NewNop())
	require.NoError(t, err)
	filler, err := NewFiller(path, BindingsFor(v, nil), false, zap.NewNop())
	require.NoError(t, err)
	p, err := NewPipeline(gen, filler, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestPipeline_BerlinPlant(t *testing.T) {
	llm := &cannedLLM{reply: `{"title":"X Opens Berlin Plant","paragraph1":"Company X today opened a plant in Berlin.","paragraph2":"The site will employ 300 people.","paragraph3":"Production starts in 2024."}`}
	p := newPipeline(t, llm, generator.VariantStructured)

	res, err := p.Run(context.Background(), "Company X opens new plant in Berlin, 2024")
	require.NoError(t, err)
	assert.Equal(t, "X Opens Berlin Plant", res.Draft.Title)
	assert.Empty(t, res.Report.Missing)
	assert.Equal(t, res.Document.Size(), int64(res.Document.Len()), "buffer starts at offset 0")

	doc, err := docx.Read(res.Document, res.Document.Size())
	require.NoError(t, err)
	paras := doc.Paragraphs()
	require.GreaterOrEqual(t, len(paras), 5)

	titleRuns := paras[1].Runs()
	require.Len(t, titleRuns, 1)
	assert.Equal(t, "X Opens Berlin Plant", paras[1].Text())
	assert.True(t, titleRuns[0].Bold())
	assert.InDelta(t, 14.0, titleRuns[0].SizePt(), 1e-9)

	assert.Equal(t, "Company X today opened a plant in Berlin.", paras[2].Text())
	assert.Equal(t, "The site will employ 300 people.", paras[3].Text())
	assert.Equal(t, "Production starts in 2024.", paras[4].Text())

	assert.Equal(t, doc.Text(), res.DocumentText)
}

func TestPipeline_Prose(t *testing.T) {
	llm := &cannedLLM{reply: "Igus opens a plant.\nMore to come."}
	p := newPipeline(t, llm, generator.VariantProse)

	res, err := p.Run(context.Background(), "notes")
	require.NoError(t, err)
	assert.Contains(t, res.DocumentText, "Igus opens a plant.\nMore to come.")
	assert.NotContains(t, res.DocumentText, "Cologne")
}

func TestPipeline_GenerationFailure(t *testing.T) {
	llm := &cannedLLM{err: errors.New("boom")}
	p := newPipeline(t, llm, generator.VariantStructured)

	res, err := p.Run(context.Background(), "notes")
	require.ErrorIs(t, err, generator.ErrGeneration)
	assert.Nil(t, res)
	assert.Equal(t, 1, llm.calls)
}

func TestNewPipeline_Validation(t *testing.T) {
	_, err := NewPipeline(nil, nil, nil)
	require.Error(t, err)

	gen, err := generator.NewGenerator(generator.MockLLM{}, generator.DefaultProfile(generator.VariantProse), nil)
	require.NoError(t, err)
	_, err = NewPipeline(gen, nil, nil)
	require.Error(t, err)
}
