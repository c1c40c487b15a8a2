package store

import (
	"reflect"

	"github.com/vellumkit/vellum/internal/field"
)

// SelectSingle sets a single-choice field's selection. No-op when the field
// or option is absent, or the option is already selected.
func (s *Store) SelectSingle(fieldID, optionID, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok || f.Type.IsMulti() || f.Type.IsMatrix() {
		return
	}
	if _, exists := f.Option(optionID); !exists {
		return
	}
	if cur, _ := f.Selected.(string); cur == optionID {
		return
	}
	f.Selected = optionID
	s.notify()
}

// ToggleMulti flips an option's membership in a multi-choice field's
// selection list.
func (s *Store) ToggleMulti(fieldID, optionID, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok || !f.Type.IsMulti() {
		return
	}
	if _, exists := f.Option(optionID); !exists {
		return
	}

	current := field.AsStringSlice(f.Selected)
	for _, id := range current {
		if id == optionID {
			f.Selected = removeString(current, optionID)
			s.notify()
			return
		}
	}
	f.Selected = append(append([]string{}, current...), optionID)
	s.notify()
}

// SelectMatrixCell sets the column for one row of a single-matrix field.
// Idempotent when the cell already holds that column.
func (s *Store) SelectMatrixCell(fieldID, rowID, columnID, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok || f.Type != field.TypeMatrix {
		return
	}
	if !hasOption(f.Rows, rowID) || !hasOption(f.Columns, columnID) {
		return
	}

	m, _ := f.Selected.(map[string]interface{})
	if m == nil {
		m = make(map[string]interface{})
	}
	if cur, _ := m[rowID].(string); cur == columnID {
		return
	}
	m[rowID] = columnID
	f.Selected = m
	s.notify()
}

// ToggleMatrixCell flips a column's membership in one row of a multi-matrix
// field.
func (s *Store) ToggleMatrixCell(fieldID, rowID, columnID, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok || f.Type != field.TypeMultiMatrix {
		return
	}
	if !hasOption(f.Rows, rowID) || !hasOption(f.Columns, columnID) {
		return
	}

	m, _ := f.Selected.(map[string]interface{})
	if m == nil {
		m = make(map[string]interface{})
	}
	current := field.AsStringSlice(m[rowID])
	for _, id := range current {
		if id == columnID {
			kept := removeString(current, columnID)
			if len(kept) == 0 {
				delete(m, rowID)
			} else {
				m[rowID] = kept
			}
			f.Selected = m
			s.notify()
			return
		}
	}
	m[rowID] = append(append([]string{}, current...), columnID)
	f.Selected = m
	s.notify()
}

// SetAnswer writes a text-like field's answer. No-op when unchanged.
// Answers can hold slice or map shapes, so the comparison is deep rather
// than ==, which would panic on uncomparable types.
func (s *Store) SetAnswer(fieldID string, answer interface{}, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok || reflect.DeepEqual(f.Answer, answer) {
		return
	}
	f.Answer = answer
	s.notify()
}

func hasOption(opts []field.Option, id string) bool {
	for _, opt := range opts {
		if opt.ID == id {
			return true
		}
	}
	return false
}
