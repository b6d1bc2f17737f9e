package pressrelease

import (
	"press_release_drafter/docx"
	"press_release_drafter/generator"
)

// StarterTemplate builds a minimal template for the variant. With
// mergeFields the placeholders are MERGEFIELDs named after the draft fields;
// otherwise they are the sentinel paragraphs the default bindings look for.
func StarterTemplate(v generator.Variant, mergeFields bool) *docx.Document {
	doc := docx.New()
	doc.AddParagraph("PRESS RELEASE")

	for _, b := range BindingsFor(v, nil) {
		if mergeFields {
			doc.AddParagraph("").AddMergeField(b.Field)
			continue
		}
		doc.AddParagraph(starterText[b.Field])
	}

	doc.AddParagraph("About us: replace this paragraph with your boilerplate.")
	doc.AddParagraph("Press contact: press@example.com")
	return doc
}

var starterText = map[string]string{
	generator.FieldBody:       "Cologne, date – the press release body goes here.",
	generator.FieldTitle:      "Title",
	generator.FieldParagraph1: "First paragraph",
	generator.FieldParagraph2: "Second paragraph",
	generator.FieldParagraph3: "Third paragraph",
}
