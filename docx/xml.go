package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type nodeKind int

const (
	elementNode nodeKind = iota
	textNode
	procInstNode
	commentNode
	directiveNode
)

// node is a lossless XML tree. Names keep the prefix as written in the source
// (Name.Space is "w", not the namespace URI) so that re-serialization emits
// the same qualified names Word wrote.
type node struct {
	kind     nodeKind
	name     xml.Name
	attr     []xml.Attr
	children []*node
	data     string
	target   string
}

func parseXML(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &node{kind: elementNode}
	stack := []*node{root}
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{kind: elementNode, name: t.Name, attr: append([]xml.Attr(nil), t.Attr...)}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 1 || top.name != t.Name {
				return nil, fmt.Errorf("unexpected end element %s", qname(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.children = append(top.children, &node{kind: textNode, data: string(t)})
		case xml.ProcInst:
			top.children = append(top.children, &node{kind: procInstNode, target: t.Target, data: string(t.Inst)})
		case xml.Comment:
			top.children = append(top.children, &node{kind: commentNode, data: string(t)})
		case xml.Directive:
			top.children = append(top.children, &node{kind: directiveNode, data: string(t)})
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed element %s", qname(stack[len(stack)-1].name))
	}
	return root, nil
}

// render writes the children of the synthetic root.
func render(root *node) []byte {
	var b bytes.Buffer
	for _, c := range root.children {
		c.write(&b)
	}
	return b.Bytes()
}

func (n *node) write(b *bytes.Buffer) {
	switch n.kind {
	case textNode:
		escape(b, n.data, false)
	case procInstNode:
		b.WriteString("<?")
		b.WriteString(n.target)
		if n.data != "" {
			b.WriteByte(' ')
			b.WriteString(n.data)
		}
		b.WriteString("?>")
	case commentNode:
		b.WriteString("<!--")
		b.WriteString(n.data)
		b.WriteString("-->")
	case directiveNode:
		b.WriteString("<!")
		b.WriteString(n.data)
		b.WriteByte('>')
	case elementNode:
		b.WriteByte('<')
		b.WriteString(qname(n.name))
		for _, a := range n.attr {
			b.WriteByte(' ')
			b.WriteString(qname(a.Name))
			b.WriteString(`="`)
			escape(b, a.Value, true)
			b.WriteByte('"')
		}
		if len(n.children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.children {
			c.write(b)
		}
		b.WriteString("</")
		b.WriteString(qname(n.name))
		b.WriteByte('>')
	}
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// isXMLChar reports whether r may appear in an XML 1.0 document.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= utf8.MaxRune
}

// escape drops characters XML cannot carry.
func escape(b *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		if !isXMLChar(r) {
			continue
		}
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			if attr {
				b.WriteString("&quot;")
			} else {
				b.WriteRune(r)
			}
		case '\n':
			if attr {
				b.WriteString("&#xA;")
			} else {
				b.WriteRune(r)
			}
		case '\t':
			if attr {
				b.WriteString("&#x9;")
			} else {
				b.WriteRune(r)
			}
		case '\r':
			b.WriteString("&#xD;")
		default:
			b.WriteRune(r)
		}
	}
}

func (n *node) is(prefix, local string) bool {
	return n.kind == elementNode && n.name.Space == prefix && n.name.Local == local
}

func (n *node) child(prefix, local string) *node {
	for _, c := range n.children {
		if c.is(prefix, local) {
			return c
		}
	}
	return nil
}

func (n *node) firstElement() *node {
	for _, c := range n.children {
		if c.kind == elementNode {
			return c
		}
	}
	return nil
}

func (n *node) attrValue(prefix, local string) (string, bool) {
	for _, a := range n.attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) walk(fn func(*node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.walk(fn)
		}
	}
}

func element(prefix, local string, attrs ...xml.Attr) *node {
	return &node{kind: elementNode, name: xml.Name{Space: prefix, Local: local}, attr: attrs}
}

func attr(prefix, local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value}
}

func (n *node) append(children ...*node) *node {
	n.children = append(n.children, children...)
	return n
}

func textOf(n *node) string {
	var sb strings.Builder
	for _, c := range n.children {
		if c.kind == textNode {
			sb.WriteString(c.data)
		}
	}
	return sb.String()
}
