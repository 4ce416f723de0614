package document

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// Document wraps a raw template payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("document: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("document: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Name returns the base name of the origin.
func (d Document) Name() string {
	return BaseName(d.source)
}

// Value decodes the payload as JSON, falling back to YAML.
func (d Document) Value() (jsonvalue.Value, error) {
	v, err := jsonvalue.DecodeAuto(d.raw)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("document: %s: %w", d.Location(), err)
	}
	return v, nil
}
