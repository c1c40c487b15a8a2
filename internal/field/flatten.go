package field

import "reflect"

// Flatten returns every field in document order, with section children
// inlined after their section. Conditions resolve target ids against this
// flat view, so it includes nested children exactly once.
func Flatten(fields []*Field) []*Field {
	var out []*Field
	for _, f := range fields {
		out = append(out, f)
		if f.Type == TypeSection {
			out = append(out, f.Fields...)
		}
	}
	return out
}

// Index builds an id→field map over the flattened document.
func Index(fields []*Field) map[string]*Field {
	flat := Flatten(fields)
	idx := make(map[string]*Field, len(flat))
	for _, f := range flat {
		idx[f.ID] = f
	}
	return idx
}

// Equal reports whether two fields carry identical state. Used by the store
// to short-circuit mutations that would not change anything.
func Equal(a, b *Field) bool {
	return reflect.DeepEqual(a, b)
}
