// Package docx edits WordprocessingML packages at the paragraph level.
//
// The main document part is kept as a lossless XML tree, so anything the
// package does not understand (styles, section properties, drawings, custom
// attributes) survives a read/write cycle unchanged. Every other part of the
// zip container is copied through as raw bytes.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

const (
	// MIMEType is the content type of a .docx file.
	MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	wordNS          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	officeDocRel    = "/officeDocument"
	defaultMainPart = "word/document.xml"
)

var (
	// ErrNotDocx is returned when the input is not a readable docx package.
	ErrNotDocx = errors.New("not a docx package")
	// ErrNoBody is returned when the main part has no w:body element.
	ErrNoBody = errors.New("document has no body")
)

type part struct {
	name   string
	header zip.FileHeader
	data   []byte
}

// Document is an opened docx package.
type Document struct {
	parts []*part
	main  *part
	tree  *node
	body  *node
	w     string
}

// Open reads the docx file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a docx package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDocx, err)
	}

	d := &Document{}
	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotDocx, f.Name, err)
		}
		d.parts = append(d.parts, &part{name: f.Name, header: f.FileHeader, data: data})
	}

	mainName := d.mainPartName()
	for _, p := range d.parts {
		if p.name == mainName {
			d.main = p
			break
		}
	}
	if d.main == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, mainName)
	}

	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (d *Document) load() error {
	tree, err := parseXML(d.main.data)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrNotDocx, d.main.name, err)
	}
	root := tree.firstElement()
	if root == nil {
		return fmt.Errorf("%w: empty %s", ErrNotDocx, d.main.name)
	}
	d.tree = tree
	d.w = wordPrefix(root)
	d.body = root.child(d.w, "body")
	if d.body == nil {
		return ErrNoBody
	}
	return nil
}

// wordPrefix returns the prefix bound to the WordprocessingML namespace on
// the root element. Word always uses "w", which is the fallback.
func wordPrefix(root *node) string {
	for _, a := range root.attr {
		if a.Value != wordNS {
			continue
		}
		if a.Name.Space == "xmlns" {
			return a.Name.Local
		}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return ""
		}
	}
	return "w"
}

type relationships struct {
	Items []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// mainPartName resolves the officeDocument relationship from _rels/.rels.
func (d *Document) mainPartName() string {
	for _, p := range d.parts {
		if p.name != "_rels/.rels" {
			continue
		}
		var rels relationships
		if err := xml.Unmarshal(p.data, &rels); err != nil {
			break
		}
		for _, rel := range rels.Items {
			if strings.HasSuffix(rel.Type, officeDocRel) {
				return strings.TrimPrefix(path.Clean("/"+rel.Target), "/")
			}
		}
	}
	return defaultMainPart
}

// Paragraphs returns the body's top-level paragraphs in document order.
// Paragraphs nested in tables or text boxes are not included.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, c := range d.body.children {
		if c.is(d.w, "p") {
			out = append(out, &Paragraph{n: c, w: d.w})
		}
	}
	return out
}

// AddParagraph appends a paragraph holding text to the end of the body,
// ahead of the final section properties.
func (d *Document) AddParagraph(text string) *Paragraph {
	p := &Paragraph{n: element(d.w, "p"), w: d.w}
	if text != "" {
		p.AddRun(text, RunStyle{})
	}
	kids := d.body.children
	idx := len(kids)
	for i := len(kids) - 1; i >= 0; i-- {
		if kids[i].kind != elementNode {
			continue
		}
		if kids[i].is(d.w, "sectPr") {
			idx = i
		}
		break
	}
	d.body.children = append(kids[:idx], append([]*node{p.n}, kids[idx:]...)...)
	return p
}

// Text joins the text of all top-level paragraphs with newlines.
func (d *Document) Text() string {
	paras := d.Paragraphs()
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// Bytes serializes the package.
func (d *Document) Bytes() ([]byte, error) {
	d.main.data = render(d.tree)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		method := p.header.Method
		if method != zip.Store {
			method = zip.Deflate
		}
		fh := &zip.FileHeader{
			Name:     p.name,
			Method:   method,
			Modified: p.header.Modified,
			Comment:  p.header.Comment,
		}
		fw, err := zw.CreateHeader(fh)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Save writes the package to path.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
