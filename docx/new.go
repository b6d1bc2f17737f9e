package docx

import (
	"archive/zip"
	"time"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body><w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr></w:body></w:document>`

// New returns an empty A4 document with no paragraphs.
func New() *Document {
	now := time.Now()
	mk := func(name, data string) *part {
		return &part{
			name:   name,
			header: zip.FileHeader{Name: name, Method: zip.Deflate, Modified: now},
			data:   []byte(data),
		}
	}
	d := &Document{parts: []*part{
		mk("[Content_Types].xml", contentTypesXML),
		mk("_rels/.rels", packageRelsXML),
		mk(defaultMainPart, documentXML),
	}}
	d.main = d.parts[2]
	if err := d.load(); err != nil {
		// documentXML is a constant; failing to parse it is a programming error.
		panic(err)
	}
	return d
}
