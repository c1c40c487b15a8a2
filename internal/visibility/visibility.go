// Package visibility decides whether a field is currently shown, given its
// enableWhen rule and a flattened view of every field in the document.
//
// Evaluation is pure: nothing here mutates the document. Resolution order
// within a condition is fixed and load-bearing: the property accessor is
// applied first, then empty/notEmpty short-circuit, then the numeric-vs-text
// path is picked, then the operator dispatches.
package visibility

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vellumkit/vellum/internal/field"
)

// Epsilon absorbs float noise in numeric equality comparisons, e.g. a
// computed 2.0000000001 compared against a literal 2. Shared with the
// expression write-back guard.
const Epsilon = 1e-9

// IsVisible reports whether f should currently be shown. A field with no
// rule, or a rule with no conditions, is always visible.
func IsVisible(f *field.Field, all map[string]*field.Field) bool {
	if f == nil || f.EnableWhen == nil || len(f.EnableWhen.Conditions) == 0 {
		return true
	}
	rule := f.EnableWhen
	for _, cond := range rule.Conditions {
		ok := evalCondition(cond, all)
		if rule.Logic == field.LogicOr {
			if ok {
				return true
			}
		} else if !ok {
			// AND (the default when logic is unset or unrecognized).
			return false
		}
	}
	return rule.Logic != field.LogicOr
}

func evalCondition(cond field.Condition, all map[string]*field.Field) bool {
	target := all[cond.TargetID]
	value := field.CurrentValue(target)

	if cond.PropertyAccessor != "" {
		n, ok := applyAccessor(value, cond.PropertyAccessor)
		if !ok {
			return false
		}
		value = n
	}

	// empty/notEmpty apply uniformly, accessor or not.
	switch cond.Operator {
	case field.OpEmpty:
		return isEmpty(value)
	case field.OpNotEmpty:
		return !isEmpty(value)
	}

	if isNumericTarget(target) || cond.Operator.IsOrdering() {
		if done, result := evalNumeric(cond, target, value); done {
			return result
		}
	}

	return evalText(cond, value)
}

// isNumericTarget reports whether the condition's target is a computed field
// with a numeric display format. Such targets force numeric comparison even
// for equals/notEquals.
func isNumericTarget(f *field.Field) bool {
	if f == nil || f.Type != field.TypeExpression {
		return false
	}
	switch f.DisplayFormat {
	case "number", "currency", "percentage", "":
		return true
	}
	return false
}

// evalNumeric handles the numeric comparison path. done is false only when
// the operator has no numeric meaning (contains/includes), in which case the
// text path takes over.
func evalNumeric(cond field.Condition, target *field.Field, value interface{}) (done, result bool) {
	switch cond.Operator {
	case field.OpEquals, field.OpNotEquals,
		field.OpGreater, field.OpGreaterEq, field.OpLess, field.OpLessEq:
	default:
		return false, false
	}

	// Scale fields select an option id; ordering compares against the
	// option's declared numeric value, not the id.
	if target != nil && target.Type.IsScale() && cond.Operator.IsOrdering() {
		if id, ok := value.(string); ok {
			if opt, found := target.Option(id); found {
				value = opt.Value
			}
		}
	}

	left, okL := toNumber(value)
	right, okR := toNumber(cond.Value)
	if !okL || !okR {
		return true, false
	}

	switch cond.Operator {
	case field.OpEquals:
		return true, math.Abs(left-right) <= Epsilon
	case field.OpNotEquals:
		return true, math.Abs(left-right) > Epsilon
	case field.OpGreater:
		return true, left > right
	case field.OpGreaterEq:
		return true, left >= right
	case field.OpLess:
		return true, left < right
	default:
		return true, left <= right
	}
}

func evalText(cond field.Condition, value interface{}) bool {
	switch cond.Operator {
	case field.OpEquals:
		if isArray(value) {
			return false
		}
		return coerceString(value) == coerceString(cond.Value)
	case field.OpNotEquals:
		if isArray(value) {
			return true
		}
		return coerceString(value) != coerceString(cond.Value)
	case field.OpContains:
		return containsWord(coerceString(value), coerceString(cond.Value))
	case field.OpIncludes:
		list := field.AsStringSlice(value)
		if list == nil {
			return false
		}
		want := coerceString(cond.Value)
		for _, item := range list {
			if item == want {
				return true
			}
		}
		return false
	}
	return false
}

// applyAccessor maps a value to a number: arrays and strings to their length,
// string-keyed maps to their key count, anything else to 0. Unknown accessors
// fail the whole condition.
func applyAccessor(v interface{}, acc field.Accessor) (float64, bool) {
	if acc != field.AccessorLength && acc != field.AccessorCount {
		return 0, false
	}
	switch vv := v.(type) {
	case []string:
		return float64(len(vv)), true
	case []interface{}:
		return float64(len(vv)), true
	case string:
		return float64(len(vv)), true
	case map[string]interface{}:
		return float64(len(vv)), true
	}
	return 0, true
}

func isEmpty(v interface{}) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case []string:
		return len(vv) == 0
	case []interface{}:
		return len(vv) == 0
	case map[string]interface{}:
		return len(vv) == 0
	case string:
		return strings.TrimSpace(vv) == ""
	}
	return strings.TrimSpace(coerceString(v)) == ""
}

func isArray(v interface{}) bool {
	switch v.(type) {
	case []string, []interface{}:
		return true
	}
	return false
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func coerceString(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
