package field

// Document is a full questionnaire: an ordered field list plus the schema
// tag and free-form metadata adopted from imports.
type Document struct {
	SchemaType string                 `json:"schemaType,omitempty" yaml:"schemaType,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Fields     []*Field               `json:"fields" yaml:"fields"`
}

// CloneDocument deep-copies a document.
func CloneDocument(d *Document) *Document {
	if d == nil {
		return nil
	}
	out := &Document{SchemaType: d.SchemaType}
	if d.Metadata != nil {
		out.Metadata = cloneMap(d.Metadata)
	}
	out.Fields = make([]*Field, len(d.Fields))
	for i, f := range d.Fields {
		out.Fields[i] = Clone(f)
	}
	return out
}
