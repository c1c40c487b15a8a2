package store

import (
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ids"
)

// AddOptions controls field creation.
type AddOptions struct {
	// SectionID places the field inside a section; empty means top-level.
	SectionID string

	// Index is the insertion position within the scope; nil appends.
	Index *int

	// Init patches the cloned template before insertion. Setting an
	// explicit ID here (e.g. at import time) bypasses generation; the
	// caller is responsible for its uniqueness.
	Init func(*field.Field)
}

// AddField creates a field of the given type from its template and inserts
// it. Silent no-op when the type is unknown, the target section does not
// exist, or a section would be nested inside another section.
func (s *Store) AddField(t field.Type, opts AddOptions) {
	f, ok := field.Default(t)
	if !ok {
		return
	}
	if opts.SectionID != "" {
		if t == field.TypeSection {
			return
		}
		sec, exists := s.fields[opts.SectionID]
		if !exists || sec.Type != field.TypeSection || sec.Fields == nil {
			return
		}
	}
	if opts.Init != nil {
		opts.Init(f)
	}
	if f.ID == "" {
		f.ID = ids.Generate(string(t), s.allIDs())
	}

	s.insert(f, opts.SectionID, opts.Index)
	s.ids[f.ID] = struct{}{}
	s.notify()
}

func (s *Store) insert(f *field.Field, sectionID string, index *int) {
	if sectionID == "" {
		s.fields[f.ID] = f
		s.order = insertAt(s.order, f.ID, index)
		return
	}
	sec := s.fields[sectionID]
	pos := clampIndex(index, len(sec.Fields))
	sec.Fields = append(sec.Fields, nil)
	copy(sec.Fields[pos+1:], sec.Fields[pos:])
	sec.Fields[pos] = f
}

func insertAt(list []string, id string, index *int) []string {
	pos := clampIndex(index, len(list))
	list = append(list, "")
	copy(list[pos+1:], list[pos:])
	list[pos] = id
	return list
}

func clampIndex(index *int, length int) int {
	if index == nil || *index < 0 || *index > length {
		return length
	}
	return *index
}

// UpdateOptions controls field updates.
type UpdateOptions struct {
	// SectionID scopes the lookup; empty means top-level.
	SectionID string

	// OnIDChange fires after a successful rename so selection state,
	// condition editors, and other observers can follow the field.
	OnIDChange func(newID, oldID string)
}

// UpdateField applies mutate to a copy of the current entity and swaps the
// result in. No-op when the field is absent or the result is identical.
// Renames (mutate changes ID) are transactional: a collision with a sibling
// id drops the whole mutation.
func (s *Store) UpdateField(id string, mutate func(field.Field) field.Field, opts UpdateOptions) {
	cur, idx, ok := s.locate(id, opts.SectionID)
	if !ok || mutate == nil {
		return
	}

	next := mutate(*field.Clone(cur))
	if field.Equal(cur, &next) {
		return
	}

	if next.ID != id {
		if next.ID == "" {
			return
		}
		siblings := s.scopeIDs(opts.SectionID)
		if _, taken := siblings[next.ID]; taken {
			return
		}
	}

	oldID := cur.ID
	if opts.SectionID == "" {
		delete(s.fields, oldID)
		s.fields[next.ID] = &next
		s.order[idx] = next.ID
	} else {
		s.fields[opts.SectionID].Fields[idx] = &next
	}
	if next.ID != oldID {
		delete(s.ids, oldID)
		s.ids[next.ID] = struct{}{}
		if opts.OnIDChange != nil {
			opts.OnIDChange(next.ID, oldID)
		}
	}
	s.notify()
}

// DeleteField removes the field from its scope. Deleting a section removes
// its children with it. No-op if absent.
func (s *Store) DeleteField(id string, sectionID string) {
	f, idx, ok := s.locate(id, sectionID)
	if !ok {
		return
	}

	if sectionID == "" {
		if f.Type == field.TypeSection {
			for _, child := range f.Fields {
				delete(s.ids, child.ID)
			}
		}
		delete(s.fields, id)
		s.order = append(s.order[:idx], s.order[idx+1:]...)
	} else {
		sec := s.fields[sectionID]
		sec.Fields = append(sec.Fields[:idx], sec.Fields[idx+1:]...)
	}
	delete(s.ids, id)
	s.notify()
}

// MoveField reorders a field within its scope. No-op on invalid input.
func (s *Store) MoveField(id string, index int, sectionID string) {
	_, cur, ok := s.locate(id, sectionID)
	if !ok || index < 0 {
		return
	}

	if sectionID == "" {
		if index >= len(s.order) || index == cur {
			return
		}
		s.order = append(s.order[:cur], s.order[cur+1:]...)
		s.order = insertAt(s.order, id, &index)
	} else {
		sec := s.fields[sectionID]
		if index >= len(sec.Fields) || index == cur {
			return
		}
		f := sec.Fields[cur]
		sec.Fields = append(sec.Fields[:cur], sec.Fields[cur+1:]...)
		pos := index
		sec.Fields = append(sec.Fields, nil)
		copy(sec.Fields[pos+1:], sec.Fields[pos:])
		sec.Fields[pos] = f
	}
	s.notify()
}
