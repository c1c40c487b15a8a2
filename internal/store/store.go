// Package store owns the questionnaire document: a normalized root-level
// entity map plus ordering list, with section children embedded inside their
// section field. It provides the full mutation surface (field CRUD, option
// and matrix sub-entity CRUD, selection, wholesale replace), collision-safe
// id management, rename notification, and subscription.
//
// Every mutation is a synchronous, atomic state change followed by one
// subscriber notification with a deep snapshot; observers never see partial
// state. Invalid mutations (unknown type, missing target, id collision on
// rename) are silent no-ops so a live editing session can never crash or
// corrupt the document on stale input.
package store

import (
	"github.com/vellumkit/vellum/internal/field"
)

// Store holds one questionnaire document.
type Store struct {
	schemaType string
	metadata   map[string]interface{}

	fields map[string]*field.Field // root entities by id
	order  []string                // root ordering

	// ids is the flattened id set over the root and every section child,
	// maintained incrementally for generation and collision checks.
	ids map[string]struct{}

	subs    map[int]func(*field.Document)
	nextSub int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		fields: make(map[string]*field.Field),
		ids:    make(map[string]struct{}),
		subs:   make(map[int]func(*field.Document)),
	}
}

// Subscribe registers an observer invoked after every state-changing
// mutation with a deep snapshot of the new document. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(*field.Document)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// Snapshot returns a deep copy of the current document. Mutating the
// snapshot never affects the store.
func (s *Store) Snapshot() *field.Document {
	doc := &field.Document{SchemaType: s.schemaType}
	if s.metadata != nil {
		doc.Metadata = field.CloneValue(s.metadata).(map[string]interface{})
	}
	doc.Fields = make([]*field.Field, 0, len(s.order))
	for _, id := range s.order {
		doc.Fields = append(doc.Fields, field.Clone(s.fields[id]))
	}
	return doc
}

// SchemaType returns the document's schema tag.
func (s *Store) SchemaType() string {
	return s.schemaType
}

// Len returns the number of root-level fields.
func (s *Store) Len() int {
	return len(s.order)
}

// Field returns a deep copy of the field with the given id, searching the
// root and every section.
func (s *Store) Field(id string) (*field.Field, bool) {
	if f, _, ok := s.locate(id, ""); ok {
		return field.Clone(f), true
	}
	for _, rootID := range s.order {
		sec := s.fields[rootID]
		if sec.Type != field.TypeSection {
			continue
		}
		if f, _, ok := s.locate(id, rootID); ok {
			return field.Clone(f), true
		}
	}
	return nil, false
}

// locate finds the live entity for id within the given scope ("" = root).
// The returned index is the position within the scope's ordering.
func (s *Store) locate(id, sectionID string) (*field.Field, int, bool) {
	if sectionID == "" {
		f, ok := s.fields[id]
		if !ok {
			return nil, 0, false
		}
		for i, oid := range s.order {
			if oid == id {
				return f, i, true
			}
		}
		return nil, 0, false
	}
	sec, ok := s.fields[sectionID]
	if !ok || sec.Type != field.TypeSection || sec.Fields == nil {
		return nil, 0, false
	}
	for i, child := range sec.Fields {
		if child.ID == id {
			return child, i, true
		}
	}
	return nil, 0, false
}

// scopeIDs returns the sibling id set for a scope.
func (s *Store) scopeIDs(sectionID string) map[string]struct{} {
	set := make(map[string]struct{})
	if sectionID == "" {
		for _, id := range s.order {
			set[id] = struct{}{}
		}
		return set
	}
	if sec, ok := s.fields[sectionID]; ok && sec.Type == field.TypeSection {
		for _, child := range sec.Fields {
			set[child.ID] = struct{}{}
		}
	}
	return set
}

// allIDs returns the flattened id set (root plus all section children).
func (s *Store) allIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}
