// Package docio reads and writes questionnaire documents as JSON or YAML.
// Decoding auto-detects the format; encoding is explicit. The package also
// derives the two export views: a blank definition with every response
// attribute stripped, and a response list suitable for submission.
package docio

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vellumkit/vellum/internal/field"
)

// Format selects the wire encoding for Encode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// looksLikeJSON reports whether the document should try the JSON decoder
// first. Anything not opening with a brace or bracket goes straight to YAML.
func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// unmarshal decodes data into dst, trying JSON first for brace-leading input
// and falling back to YAML in every case.
func unmarshal(data []byte, dst interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("document is empty")
	}
	if looksLikeJSON(data) {
		if err := json.Unmarshal(bytes.TrimSpace(data), dst); err == nil {
			return nil
		}
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("document is neither valid JSON nor valid YAML: %w", err)
	}
	return nil
}

// Parse decodes a document into generic maps and slices, the shape the
// schema detector and the external-format adapter work on.
func Parse(data []byte) (interface{}, error) {
	var doc interface{}
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeNative decodes a document in the native shape: either a bare field
// list, or an object with a fields list plus optional schemaType and
// free-form metadata keys. Anything else is a structural error.
func DecodeNative(data []byte) (*field.Document, error) {
	generic, err := Parse(data)
	if err != nil {
		return nil, err
	}

	switch v := generic.(type) {
	case []interface{}:
		var fields []*field.Field
		if err := unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("field list: %w", err)
		}
		return &field.Document{Fields: fields}, nil

	case map[string]interface{}:
		if _, ok := v["fields"]; !ok {
			return nil, fmt.Errorf("document object has no fields list")
		}
		var doc field.Document
		if err := unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("document object: %w", err)
		}
		// Every top-level key beyond the two structural ones is metadata.
		meta := make(map[string]interface{})
		for k, val := range v {
			if k == "fields" || k == "schemaType" || k == "metadata" {
				continue
			}
			meta[k] = val
		}
		if nested, ok := v["metadata"].(map[string]interface{}); ok {
			for k, val := range nested {
				meta[k] = val
			}
		}
		if len(meta) > 0 {
			doc.Metadata = meta
		}
		return &doc, nil
	}

	return nil, fmt.Errorf("document must be a field list or an object with a fields list, got %T", generic)
}

// Encode serializes a document as {schemaType, ...metadata, fields} in the
// requested format.
func Encode(doc *field.Document, format Format) ([]byte, error) {
	out := make(map[string]interface{}, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		out[k] = v
	}
	if doc.SchemaType != "" {
		out["schemaType"] = doc.SchemaType
	}
	fields := doc.Fields
	if fields == nil {
		fields = []*field.Field{}
	}
	out["fields"] = fields

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(out)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
