package store

import (
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ids"
)

// ReplaceAll swaps the whole document: fields are deep-cloned and normalized
// (ids assigned where missing, section child lists always non-nil), and the
// incoming schema tag and metadata are adopted.
func (s *Store) ReplaceAll(doc *field.Document) {
	if doc == nil {
		return
	}

	s.fields = make(map[string]*field.Field)
	s.order = nil
	s.ids = make(map[string]struct{})
	s.schemaType = doc.SchemaType
	s.metadata = nil
	if doc.Metadata != nil {
		s.metadata = field.CloneValue(doc.Metadata).(map[string]interface{})
	}

	for _, raw := range doc.Fields {
		f := field.Clone(raw)
		s.normalize(f)
		s.fields[f.ID] = f
		s.order = append(s.order, f.ID)
	}
	s.notify()
}

// normalize assigns a missing or colliding id and recursively normalizes
// section children.
func (s *Store) normalize(f *field.Field) {
	f.ID = s.claimID(f)
	if f.Type != field.TypeSection {
		return
	}
	if f.Fields == nil {
		f.Fields = []*field.Field{}
	}
	for _, child := range f.Fields {
		child.ID = s.claimID(child)
	}
}

func (s *Store) claimID(f *field.Field) string {
	id := f.ID
	if id == "" {
		base := ids.Slug(f.Label())
		if base == "" {
			base = string(f.Type)
		}
		id = ids.Generate(base, s.ids)
	} else if _, taken := s.ids[id]; taken {
		id = ids.Generate(id, s.ids)
	}
	s.ids[id] = struct{}{}
	return id
}
