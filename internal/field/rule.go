package field

// Logic combines the conditions of a rule.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Operator is a visibility comparison operator.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "notEquals"
	OpContains  Operator = "contains"
	OpIncludes  Operator = "includes"
	OpEmpty     Operator = "empty"
	OpNotEmpty  Operator = "notEmpty"
	OpGreater   Operator = "greaterThan"
	OpGreaterEq Operator = "greaterThanOrEqual"
	OpLess      Operator = "lessThan"
	OpLessEq    Operator = "lessThanOrEqual"
)

// IsOrdering reports whether op compares magnitudes and therefore forces the
// numeric comparison path.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpGreater, OpGreaterEq, OpLess, OpLessEq:
		return true
	}
	return false
}

// Accessor transforms a condition's extracted value before comparison.
type Accessor string

const (
	AccessorLength Accessor = "length"
	AccessorCount  Accessor = "count"
)

// Condition is a single visibility test against another field's current
// value, resolved by TargetID at evaluation time.
type Condition struct {
	TargetID string      `json:"targetId" yaml:"targetId"`
	Operator Operator    `json:"operator" yaml:"operator"`
	Value    interface{} `json:"value,omitempty" yaml:"value,omitempty"`

	// PropertyAccessor optionally maps the extracted value to a number
	// (length/count) before the operator runs.
	PropertyAccessor Accessor `json:"propertyAccessor,omitempty" yaml:"propertyAccessor,omitempty"`
}

// Rule is a field's enableWhen clause: a logic mode over a flat condition
// list. An empty condition list means always visible.
type Rule struct {
	Logic      Logic       `json:"logic" yaml:"logic"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}
