// Package external renders catalog records as XML or JSON documents and
// parses them back into records.
//
// A document is a flat list of column/value pairs under a root name:
//
//	<tbl_clip>
//	  <id>1</id>
//	  <name>First Clip</name>
//	  <start_time>2024-03-01T10:00:00Z</start_time>
//	  <stop_time></stop_time>
//	</tbl_clip>
//
// The JSON form is the same pairs as one object. Null values become empty
// XML elements and JSON nulls.
package external

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mrlokans/clipcatalog/internal/store"
)

// Format selects the document encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown document format")

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXML {
		return "application/xml; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Extension is the file extension used for exported files.
func (f Format) Extension() string {
	return "." + string(f)
}

// Document is an ordered set of column values under a root name.
type Document struct {
	Name   string
	Fields []string
	Values store.Record
}

// MarshalXML writes one child element per field.
func (d Document) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	if d.Name != "" {
		start = xml.StartElement{Name: xml.Name{Local: d.Name}}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, field := range d.Fields {
		if err := enc.EncodeElement(formatText(d.Values[field]), xml.StartElement{Name: xml.Name{Local: field}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// MarshalJSON writes the fields as one object, in field order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range d.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(d.Values[field])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes v, usually a Document or a struct of Documents.
func Marshal(format Format, v any) ([]byte, error) {
	switch format {
	case FormatXML:
		out, err := xml.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode xml: %w", err)
		}
		return append(out, '\n'), nil
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Unmarshal parses a document into a record. XML leaf elements become
// strings and nested elements become nested records; for repeated
// element names the last one wins.
func Unmarshal(format Format, data []byte) (store.Record, error) {
	switch format {
	case FormatXML:
		return unmarshalXML(data)
	case FormatJSON:
		rec := store.Record{}
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return rec, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func unmarshalXML(data []byte) (store.Record, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode xml: no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			value, err := decodeElement(dec, start)
			if err != nil {
				return nil, fmt.Errorf("decode xml: %w", err)
			}
			if rec, ok := value.(store.Record); ok {
				return rec, nil
			}
			return store.Record{}, nil
		}
	}
}

// decodeElement reads until the end of start and returns either its text
// or, if it has child elements, a record of them.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	var text strings.Builder
	var children store.Record

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			value, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = store.Record{}
			}
			children[t.Name.Local] = value
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if children != nil {
				return children, nil
			}
			return text.String(), nil
		}
	}
}

func formatText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case time.Time:
		return value.Format(time.RFC3339Nano)
	case *time.Time:
		if value == nil {
			return ""
		}
		return value.Format(time.RFC3339Nano)
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
