package field

// CurrentValue extracts the value a field currently holds, in the shape the
// visibility evaluator and expression engine compare against:
//
//   - text-like fields yield their answer
//   - single-choice fields yield the selected option id (or nil)
//   - multi-choice fields yield the selected id list, falling back to the
//     options' own selected flags when the field-level list is absent
//   - matrix fields yield the full row→column(s) map
//   - structural and unrecognized types yield nil
func CurrentValue(f *Field) interface{} {
	if f == nil {
		return nil
	}
	switch {
	case f.Type == TypeText || f.Type == TypeLongText || f.Type == TypeExpression:
		return f.Answer
	case f.Type.IsMatrix():
		return f.Selected
	case f.Type.IsMulti():
		if list := AsStringSlice(f.Selected); list != nil {
			return list
		}
		var derived []string
		for _, opt := range f.Options {
			if opt.Selected {
				derived = append(derived, opt.ID)
			}
		}
		if derived != nil {
			return derived
		}
		return nil
	case f.Type.IsChoice() || f.Type == TypeBoolean:
		return f.Selected
	}
	return nil
}

// AsStringSlice coerces the decoded shapes a selection list can arrive in
// ([]string natively, []interface{} from JSON/YAML) into []string. Returns
// nil when v is not a list.
func AsStringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
