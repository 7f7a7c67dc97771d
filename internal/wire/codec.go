package wire

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Encode serializes a fragment to its XML wire form. Output is
// deterministic: attributes appear in insertion order, children in
// append order, no whitespace between elements.
func Encode(f *Fragment) []byte {
	var buf bytes.Buffer
	encodeTo(&buf, f)
	return buf.Bytes()
}

func encodeTo(buf *bytes.Buffer, f *Fragment) {
	buf.WriteByte('<')
	buf.WriteString(f.Tag)
	for _, a := range f.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		escapeTo(buf, a.Value)
		buf.WriteByte('"')
	}
	if len(f.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range f.Children {
		encodeTo(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(f.Tag)
	buf.WriteByte('>')
}

func escapeTo(buf *bytes.Buffer, s string) {
	// xml.EscapeText escapes quotes too, so it is safe for attribute values.
	_ = xml.EscapeText(buf, []byte(s))
}

// Decode parses one XML element into a fragment tree.
func Decode(data []byte) (*Fragment, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("decode fragment: no element found")
		}
		if err != nil {
			return nil, fmt.Errorf("decode fragment: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		f, err := decodeElement(dec, start)
		if err != nil {
			return nil, fmt.Errorf("decode fragment: %w", err)
		}
		return f, nil
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (*Fragment, error) {
	f := New(start.Name.Local)
	for _, a := range start.Attr {
		f.Set(a.Name.Local, a.Value)
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", f.Tag, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			f.Append(child)
		case xml.EndElement:
			return f, nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("element %q: unexpected character data", f.Tag)
			}
		}
	}
}
