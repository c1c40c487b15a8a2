package field

// Clone returns a deep copy of f. No slice, map, or nested field is shared
// with the original, so templates and snapshots can be mutated freely.
func Clone(f *Field) *Field {
	if f == nil {
		return nil
	}
	out := *f
	out.Options = cloneOptions(f.Options)
	out.Rows = cloneOptions(f.Rows)
	out.Columns = cloneOptions(f.Columns)
	out.Selected = CloneValue(f.Selected)
	out.Answer = CloneValue(f.Answer)
	if f.EnableWhen != nil {
		rule := *f.EnableWhen
		rule.Conditions = make([]Condition, len(f.EnableWhen.Conditions))
		copy(rule.Conditions, f.EnableWhen.Conditions)
		out.EnableWhen = &rule
	}
	if f.Fields != nil {
		out.Fields = make([]*Field, len(f.Fields))
		for i, child := range f.Fields {
			out.Fields[i] = Clone(child)
		}
	}
	if f.Payload != nil {
		out.Payload = cloneMap(f.Payload)
	}
	return &out
}

func cloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// CloneValue deep-copies the JSON-shaped values that Selected and Answer can
// hold: scalars, string slices, interface slices, and string-keyed maps.
func CloneValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, item := range vv {
			out[i] = CloneValue(item)
		}
		return out
	case map[string]interface{}:
		return cloneMap(vv)
	default:
		return v
	}
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}
