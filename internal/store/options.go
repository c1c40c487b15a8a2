package store

import (
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ids"
)

// subList identifies which embedded list an operation targets.
type subList int

const (
	listOptions subList = iota
	listRows
	listColumns
)

func (l subList) kind() string {
	switch l {
	case listRows:
		return "row"
	case listColumns:
		return "col"
	default:
		return "option"
	}
}

func (l subList) get(f *field.Field) []field.Option {
	switch l {
	case listRows:
		return f.Rows
	case listColumns:
		return f.Columns
	default:
		return f.Options
	}
}

func (l subList) set(f *field.Field, opts []field.Option) {
	switch l {
	case listRows:
		f.Rows = opts
	case listColumns:
		f.Columns = opts
	default:
		f.Options = opts
	}
}

// AddOption appends a new option to a choice field, with a generated
// collision-free id. No-op if the field is absent.
func (s *Store) AddOption(fieldID, value, sectionID string) {
	s.addSub(listOptions, fieldID, value, sectionID)
}

// AddRow appends a matrix row.
func (s *Store) AddRow(fieldID, value, sectionID string) {
	s.addSub(listRows, fieldID, value, sectionID)
}

// AddColumn appends a matrix column.
func (s *Store) AddColumn(fieldID, value, sectionID string) {
	s.addSub(listColumns, fieldID, value, sectionID)
}

func (s *Store) addSub(list subList, fieldID, value, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok {
		return
	}
	existing := s.allIDs()
	for _, opt := range list.get(f) {
		existing[opt.ID] = struct{}{}
	}
	id := ids.GenerateSub(fieldID, list.kind(), existing)
	list.set(f, append(list.get(f), field.Option{ID: id, Value: value}))
	s.notify()
}

// UpdateOption sets the display value of an option. No-op when the field or
// option is absent, or the value is unchanged.
func (s *Store) UpdateOption(fieldID, optionID, value, sectionID string) {
	s.updateSub(listOptions, fieldID, optionID, value, sectionID)
}

// UpdateRow sets a matrix row's display value.
func (s *Store) UpdateRow(fieldID, rowID, value, sectionID string) {
	s.updateSub(listRows, fieldID, rowID, value, sectionID)
}

// UpdateColumn sets a matrix column's display value.
func (s *Store) UpdateColumn(fieldID, columnID, value, sectionID string) {
	s.updateSub(listColumns, fieldID, columnID, value, sectionID)
}

func (s *Store) updateSub(list subList, fieldID, optionID, value, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok {
		return
	}
	opts := list.get(f)
	for i := range opts {
		if opts[i].ID == optionID {
			if opts[i].Value == value {
				return
			}
			opts[i].Value = value
			s.notify()
			return
		}
	}
}

// DeleteOption removes an option and prunes any selection reference to it.
func (s *Store) DeleteOption(fieldID, optionID, sectionID string) {
	s.deleteSub(listOptions, fieldID, optionID, sectionID)
}

// DeleteRow removes a matrix row and its row entry in the selection map.
func (s *Store) DeleteRow(fieldID, rowID, sectionID string) {
	s.deleteSub(listRows, fieldID, rowID, sectionID)
}

// DeleteColumn removes a matrix column and prunes every row association
// pointing at it.
func (s *Store) DeleteColumn(fieldID, columnID, sectionID string) {
	s.deleteSub(listColumns, fieldID, columnID, sectionID)
}

func (s *Store) deleteSub(list subList, fieldID, optionID, sectionID string) {
	f, _, ok := s.locate(fieldID, sectionID)
	if !ok {
		return
	}
	opts := list.get(f)
	found := false
	next := make([]field.Option, 0, len(opts))
	for _, opt := range opts {
		if opt.ID == optionID {
			found = true
			continue
		}
		next = append(next, opt)
	}
	if !found {
		return
	}
	list.set(f, next)

	switch list {
	case listOptions:
		pruneSelection(f, optionID)
	case listRows:
		if m, ok := f.Selected.(map[string]interface{}); ok {
			delete(m, optionID)
		}
	case listColumns:
		pruneColumn(f, optionID)
	}
	s.notify()
}

// pruneSelection removes a deleted option id from scalar and list-shaped
// selections.
func pruneSelection(f *field.Field, optionID string) {
	switch sel := f.Selected.(type) {
	case string:
		if sel == optionID {
			f.Selected = nil
		}
	case []string:
		f.Selected = removeString(sel, optionID)
	case []interface{}:
		f.Selected = removeString(field.AsStringSlice(sel), optionID)
	}
}

// pruneColumn removes a deleted column id from each row association of a
// matrix selection, dropping rows left without a column.
func pruneColumn(f *field.Field, columnID string) {
	m, ok := f.Selected.(map[string]interface{})
	if !ok {
		return
	}
	for rowID, v := range m {
		switch cell := v.(type) {
		case string:
			if cell == columnID {
				delete(m, rowID)
			}
		case []string:
			kept := removeString(cell, columnID)
			if len(kept) == 0 {
				delete(m, rowID)
			} else {
				m[rowID] = kept
			}
		case []interface{}:
			kept := removeString(field.AsStringSlice(cell), columnID)
			if len(kept) == 0 {
				delete(m, rowID)
			} else {
				m[rowID] = kept
			}
		}
	}
}

func removeString(list []string, target string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
