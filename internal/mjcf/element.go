package mjcf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is one ordered element attribute.
type Attr struct {
	Key   string
	Value string
}

// Element is an XML element whose attributes keep insertion order.
// Serialization walks the tree as stored, nothing is sorted.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// NewElement builds an element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// Attr returns the value of key and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets key to value, updating in place when the key exists so
// attribute order never changes. Returns e for chaining.
func (e *Element) SetAttr(key, value string) *Element {
	for i, a := range e.Attrs {
		if a.Key == key {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// AddChild appends child and returns the child.
func (e *Element) AddChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

// Child returns the first direct child with the given tag, or nil.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Parse builds an element tree from XML. Comments, processing
// instructions, directives, and whitespace-only text are dropped;
// what remains is exactly the structure serialization reproduces.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Key: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			cur := stack[len(stack)-1]
			if cur.Text != "" {
				cur.Text += " "
			}
			cur.Text += text
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// Serialize renders the tree with two-space indentation, attributes in
// stored order, self-closing empty elements, and no XML declaration.
// Output ends with a newline.
func Serialize(root *Element) []byte {
	var buf bytes.Buffer
	writeElement(&buf, root, 0)
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(a.Value))
		buf.WriteByte('"')
	}
	if len(e.Children) == 0 && e.Text == "" {
		buf.WriteString("/>\n")
		return
	}

	buf.WriteByte('>')
	if e.Text != "" {
		buf.WriteString(escapeText(e.Text))
	}
	if len(e.Children) > 0 {
		buf.WriteByte('\n')
		for _, c := range e.Children {
			writeElement(buf, c, depth+1)
		}
		buf.WriteString(indent)
	}
	buf.WriteString("</")
	buf.WriteString(e.Tag)
	buf.WriteString(">\n")
}

var (
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
func escapeText(s string) string { return textEscaper.Replace(s) }
