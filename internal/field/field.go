// Package field defines the questionnaire field entity model: the tagged
// field shape, its sub-entities (options, rows, columns), visibility rules,
// per-type default templates, and value extraction helpers shared by the
// store, the visibility evaluator, and the expression engine.
package field

// Type tags the shape of a field. The set of meaningful attributes on a
// Field depends on its Type; everything else stays at its zero value and is
// omitted from serialized output.
type Type string

const (
	TypeText        Type = "text"
	TypeLongText    Type = "long-text"
	TypeRadio       Type = "radio"
	TypeCheckbox    Type = "checkbox"
	TypeDropdown    Type = "dropdown"
	TypeMultiSelect Type = "multi-select-dropdown"
	TypeBoolean     Type = "boolean"
	TypeRating      Type = "rating"
	TypeRanking     Type = "ranking"
	TypeSlider      Type = "slider"
	TypeMatrix      Type = "matrix"
	TypeMultiMatrix Type = "multi-matrix"
	TypeSection     Type = "section"
	TypeExpression  Type = "expression"
	TypeUnsupported Type = "unsupported"
)

// Option is an embedded sub-entity of a field: a selectable choice, a matrix
// row, or a matrix column. Options are ordered and addressed by id only
// through their owning field.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`

	// Selected is a per-option flag some renderers set on multi-choice
	// fields instead of (or in addition to) the field-level Selected list.
	Selected bool `json:"selected,omitempty" yaml:"selected,omitempty"`

	// Answer holds free-text entered against an option (e.g. an inline
	// comment box); stripped by the definition view.
	Answer string `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// Field is one addressable unit of a questionnaire: a question, a section
// container, or a computed value. The legal attribute set depends on Type.
type Field struct {
	ID       string `json:"id" yaml:"id"`
	Type     Type   `json:"fieldType" yaml:"fieldType"`
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`

	// EnableWhen is the optional visibility rule; nil means always visible.
	EnableWhen *Rule `json:"enableWhen,omitempty" yaml:"enableWhen,omitempty"`

	// Choice attributes.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Matrix attributes.
	Rows    []Option `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns []Option `json:"columns,omitempty" yaml:"columns,omitempty"`

	// Selected holds the current selection. Shape follows cardinality:
	// single-choice fields hold a string (or nil), multi-choice fields hold
	// a []string, matrix fields hold a map[string]interface{} from row id
	// to column id (single) or column id list (multi).
	Selected interface{} `json:"selected,omitempty" yaml:"selected,omitempty"`

	// Answer holds the current free-text or computed value.
	Answer interface{} `json:"answer,omitempty" yaml:"answer,omitempty"`

	// Expression attributes (Type == TypeExpression).
	Expression    string `json:"expression,omitempty" yaml:"expression,omitempty"`
	DisplayFormat string `json:"displayFormat,omitempty" yaml:"displayFormat,omitempty"`
	DecimalPlaces int    `json:"decimalPlaces,omitempty" yaml:"decimalPlaces,omitempty"`

	// Section children (Type == TypeSection). Children are embedded and
	// ordered; they are not indexed at the document root. Sections never
	// nest inside other sections.
	Fields []*Field `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Payload carries the entire original element for TypeUnsupported
	// placeholders produced by the schema adapter.
	Payload map[string]interface{} `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// IsChoice reports whether the field carries a discrete option list.
func (t Type) IsChoice() bool {
	switch t {
	case TypeRadio, TypeCheckbox, TypeDropdown, TypeMultiSelect,
		TypeRating, TypeRanking, TypeSlider:
		return true
	}
	return false
}

// IsMulti reports whether the field's Selected holds a list.
func (t Type) IsMulti() bool {
	switch t {
	case TypeCheckbox, TypeMultiSelect, TypeRanking:
		return true
	}
	return false
}

// IsMatrix reports whether the field's Selected is a row→column map.
func (t Type) IsMatrix() bool {
	return t == TypeMatrix || t == TypeMultiMatrix
}

// IsStructural reports whether the field collects no answer of its own.
func (t Type) IsStructural() bool {
	return t == TypeSection || t == TypeUnsupported
}

// IsScale reports whether the field's options carry declared numeric values
// that ordering comparisons should resolve against.
func (t Type) IsScale() bool {
	return t == TypeRating || t == TypeRanking || t == TypeSlider
}

// Known reports whether t is one of the recognized field types.
func (t Type) Known() bool {
	_, ok := defaults[t]
	return ok
}

// Label returns the display text of the field: sections use Title, everything
// else uses Question.
func (f *Field) Label() string {
	if f.Type == TypeSection {
		return f.Title
	}
	return f.Question
}

// Option returns the option, row, or column with the given id, searching the
// three embedded lists in that order.
func (f *Field) Option(id string) (Option, bool) {
	for _, list := range [][]Option{f.Options, f.Rows, f.Columns} {
		for _, opt := range list {
			if opt.ID == id {
				return opt, true
			}
		}
	}
	return Option{}, false
}
