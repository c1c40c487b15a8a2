// Package adapter converts externally-sourced survey schemas (SurveyJS-style
// documents) into the native field model, emitting a conversion report that
// records exactly what was lost.
//
// Conversion is best-effort: a single malformed or unmapped element never
// aborts an import. Unmapped elements degrade to unsupported placeholders
// carrying the full original payload; only elements too broken to represent
// at all are counted as dropped.
package adapter

// Impact grades how much a conversion warning matters.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Warning category tags.
const (
	WarnPageStructureLost  = "page_structure_lost"
	WarnUnsupportedElement = "unsupported_element"
	WarnLostInputType      = "lost_input_type"
	WarnLostPlaceholder    = "lost_placeholder"
	WarnLostValidation     = "lost_validation"
	WarnLostOtherOption    = "lost_other_option"
	WarnLostBooleanLabels  = "lost_boolean_labels"
	WarnLostChoiceOrder    = "lost_choice_order"
	WarnLostReadOnly       = "lost_read_only"
	WarnLostConditional    = "lost_conditional_logic"
)

// Warning records one lossy aspect of the conversion.
type Warning struct {
	Type     string      `json:"type" yaml:"type"`
	Property string      `json:"property" yaml:"property"`
	Value    interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Message  string      `json:"message" yaml:"message"`
	Impact   Impact      `json:"impact" yaml:"impact"`
}

// DroppedField identifies an element that could not be represented at all.
type DroppedField struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Report is the mandatory audit trail of a schema conversion.
type Report struct {
	TotalElements   int            `json:"totalElements" yaml:"totalElements"`
	ConvertedFields int            `json:"convertedFields" yaml:"convertedFields"`
	DroppedFields   []DroppedField `json:"droppedFields" yaml:"droppedFields"`
	Warnings        []Warning      `json:"warnings" yaml:"warnings"`
}

func (r *Report) warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// HasHighImpact reports whether any warning is high impact.
func (r *Report) HasHighImpact() bool {
	for _, w := range r.Warnings {
		if w.Impact == ImpactHigh {
			return true
		}
	}
	return false
}
