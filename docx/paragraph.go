package docx

import (
	"strconv"
	"strings"
)

// RunStyle is the run-level formatting applied to inserted text.
type RunStyle struct {
	Bold   bool
	SizePt float64
}

// Paragraph is a w:p element of a Document.
type Paragraph struct {
	n *node
	w string
}

// Run is a w:r element.
type Run struct {
	n *node
	w string
}

// Text returns the visible text of the paragraph. Tabs and breaks are
// reported as "\t" and "\n".
func (p *Paragraph) Text() string {
	var sb strings.Builder
	p.n.walk(func(c *node) bool {
		switch {
		case c.is(p.w, "pPr"), c.is(p.w, "instrText"), c.is(p.w, "delText"):
			return false
		case c.is(p.w, "t"):
			sb.WriteString(textOf(c))
			return false
		case c.is(p.w, "tab"):
			sb.WriteByte('\t')
		case c.is(p.w, "br"), c.is(p.w, "cr"):
			sb.WriteByte('\n')
		}
		return true
	})
	return sb.String()
}

// MergeFields returns the names of the MERGEFIELD fields in the paragraph,
// from both simple (w:fldSimple) and complex (w:instrText) fields.
func (p *Paragraph) MergeFields() []string {
	var names []string
	p.n.walk(func(c *node) bool {
		switch {
		case c.is(p.w, "fldSimple"):
			if instr, ok := c.attrValue(p.w, "instr"); ok {
				if name := mergeFieldName(instr); name != "" {
					names = append(names, name)
				}
			}
		case c.is(p.w, "instrText"):
			if name := mergeFieldName(textOf(c)); name != "" {
				names = append(names, name)
			}
			return false
		}
		return true
	})
	return names
}

func mergeFieldName(instr string) string {
	fields := strings.Fields(instr)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "MERGEFIELD") {
		return ""
	}
	return strings.Trim(fields[1], `"`)
}

// HasMergeField reports whether the paragraph contains a MERGEFIELD named name.
// Field names compare case-insensitively, as Word does.
func (p *Paragraph) HasMergeField(name string) bool {
	for _, f := range p.MergeFields() {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// Clear removes all content from the paragraph but keeps its properties.
func (p *Paragraph) Clear() *Paragraph {
	kept := p.n.children[:0]
	for _, c := range p.n.children {
		if c.is(p.w, "pPr") {
			kept = append(kept, c)
		}
	}
	p.n.children = kept
	return p
}

// AddRun appends a run holding text. Newlines become w:br and tabs w:tab.
// Control characters XML cannot represent, such as form feeds and escape
// sequences' ESC, are dropped.
func (p *Paragraph) AddRun(text string, style RunStyle) *Run {
	r := element(p.w, "r")
	if rPr := style.properties(p.w); rPr != nil {
		r.append(rPr)
	}

	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		t := element(p.w, "t", attr("xml", "space", "preserve"))
		t.append(&node{kind: textNode, data: seg.String()})
		r.append(t)
		seg.Reset()
	}
	for _, ch := range strings.ReplaceAll(text, "\r\n", "\n") {
		switch ch {
		case '\n', '\r':
			flush()
			r.append(element(p.w, "br"))
		case '\t':
			flush()
			r.append(element(p.w, "tab"))
		default:
			if isXMLChar(ch) {
				seg.WriteRune(ch)
			}
		}
	}
	flush()

	p.n.append(r)
	return &Run{n: r, w: p.w}
}

// AddMergeField appends a simple MERGEFIELD named name, displayed as «name».
func (p *Paragraph) AddMergeField(name string) {
	fld := element(p.w, "fldSimple", attr(p.w, "instr", " MERGEFIELD "+name+` \* MERGEFORMAT `))
	r := element(p.w, "r")
	t := element(p.w, "t")
	t.append(&node{kind: textNode, data: "«" + name + "»"})
	fld.append(r.append(t))
	p.n.append(fld)
}

// Runs returns the paragraph's direct runs.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.n.children {
		if c.is(p.w, "r") {
			out = append(out, &Run{n: c, w: p.w})
		}
	}
	return out
}

func (s RunStyle) properties(w string) *node {
	if !s.Bold && s.SizePt <= 0 {
		return nil
	}
	rPr := element(w, "rPr")
	if s.Bold {
		rPr.append(element(w, "b"))
	}
	if s.SizePt > 0 {
		half := strconv.FormatFloat(s.SizePt*2, 'f', -1, 64)
		rPr.append(element(w, "sz", attr(w, "val", half)), element(w, "szCs", attr(w, "val", half)))
	}
	return rPr
}

// Text returns the run's text.
func (r *Run) Text() string {
	return (&Paragraph{n: r.n, w: r.w}).Text()
}

// Bold reports whether the run is explicitly bold.
func (r *Run) Bold() bool {
	rPr := r.n.child(r.w, "rPr")
	if rPr == nil {
		return false
	}
	b := rPr.child(r.w, "b")
	if b == nil {
		return false
	}
	v, ok := b.attrValue(r.w, "val")
	if !ok {
		return true
	}
	switch v {
	case "0", "false", "off":
		return false
	}
	return true
}

// SizePt returns the run's font size in points, or 0 when it inherits one.
func (r *Run) SizePt() float64 {
	rPr := r.n.child(r.w, "rPr")
	if rPr == nil {
		return 0
	}
	sz := rPr.child(r.w, "sz")
	if sz == nil {
		return 0
	}
	v, _ := sz.attrValue(r.w, "val")
	half, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return half / 2
}
