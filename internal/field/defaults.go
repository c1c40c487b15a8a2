package field

// defaults maps each field type to its creation template. Templates are
// cloned on use so fields never share option slices or selection state.
var defaults = map[Type]Field{
	TypeText:     {Type: TypeText, Question: "Text question"},
	TypeLongText: {Type: TypeLongText, Question: "Long text question"},
	TypeRadio: {
		Type:     TypeRadio,
		Question: "Radio question",
		Options: []Option{
			{ID: "option-1", Value: "Option 1"},
			{ID: "option-2", Value: "Option 2"},
		},
	},
	TypeCheckbox: {
		Type:     TypeCheckbox,
		Question: "Checkbox question",
		Options: []Option{
			{ID: "option-1", Value: "Option 1"},
			{ID: "option-2", Value: "Option 2"},
		},
		Selected: []string{},
	},
	TypeDropdown: {
		Type:     TypeDropdown,
		Question: "Dropdown question",
		Options: []Option{
			{ID: "option-1", Value: "Option 1"},
			{ID: "option-2", Value: "Option 2"},
		},
	},
	TypeMultiSelect: {
		Type:     TypeMultiSelect,
		Question: "Multi-select question",
		Options: []Option{
			{ID: "option-1", Value: "Option 1"},
			{ID: "option-2", Value: "Option 2"},
		},
		Selected: []string{},
	},
	TypeBoolean: {
		Type:     TypeBoolean,
		Question: "Yes/no question",
		Options: []Option{
			{ID: "yes", Value: "Yes"},
			{ID: "no", Value: "No"},
		},
	},
	TypeRating: {
		Type:     TypeRating,
		Question: "Rating question",
		Options: []Option{
			{ID: "rating-1", Value: "1"},
			{ID: "rating-2", Value: "2"},
			{ID: "rating-3", Value: "3"},
			{ID: "rating-4", Value: "4"},
			{ID: "rating-5", Value: "5"},
		},
	},
	TypeRanking: {
		Type:     TypeRanking,
		Question: "Ranking question",
		Options: []Option{
			{ID: "item-1", Value: "1"},
			{ID: "item-2", Value: "2"},
		},
		Selected: []string{},
	},
	TypeSlider: {
		Type:     TypeSlider,
		Question: "Slider question",
		Options: []Option{
			{ID: "step-0", Value: "0"},
			{ID: "step-50", Value: "50"},
			{ID: "step-100", Value: "100"},
		},
	},
	TypeMatrix: {
		Type:     TypeMatrix,
		Question: "Matrix question",
		Rows: []Option{
			{ID: "row-1", Value: "Row 1"},
			{ID: "row-2", Value: "Row 2"},
		},
		Columns: []Option{
			{ID: "col-1", Value: "Column 1"},
			{ID: "col-2", Value: "Column 2"},
		},
		Selected: map[string]interface{}{},
	},
	TypeMultiMatrix: {
		Type:     TypeMultiMatrix,
		Question: "Multi matrix question",
		Rows: []Option{
			{ID: "row-1", Value: "Row 1"},
			{ID: "row-2", Value: "Row 2"},
		},
		Columns: []Option{
			{ID: "col-1", Value: "Column 1"},
			{ID: "col-2", Value: "Column 2"},
		},
		Selected: map[string]interface{}{},
	},
	TypeSection: {
		Type:   TypeSection,
		Title:  "Section",
		Fields: []*Field{},
	},
	TypeExpression: {
		Type:          TypeExpression,
		Question:      "Computed value",
		DisplayFormat: "number",
	},
	TypeUnsupported: {Type: TypeUnsupported},
}

// Default returns a deep-cloned creation template for the given type. ok is
// false for unknown types.
func Default(t Type) (*Field, bool) {
	tmpl, ok := defaults[t]
	if !ok {
		return nil, false
	}
	return Clone(&tmpl), true
}
