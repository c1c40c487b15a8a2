package expr

import (
	"math"
	"strconv"
)

// Format renders an evaluation result for display, keyed by the field's
// displayFormat and decimalPlaces. Non-finite numbers always render as the
// empty string so NaN/Inf literals never leak into a serialized document.
func Format(v interface{}, displayFormat string, decimalPlaces int) string {
	if n, ok := v.(float64); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
		return ""
	}

	switch displayFormat {
	case "boolean":
		return strconv.FormatBool(truthy(v))
	case "currency":
		n, ok := toFloat(v)
		if !ok {
			return display(v)
		}
		places := decimalPlaces
		if places <= 0 {
			places = 2
		}
		return "$" + strconv.FormatFloat(n, 'f', places, 64)
	case "percentage":
		n, ok := toFloat(v)
		if !ok {
			return display(v)
		}
		return strconv.FormatFloat(n, 'f', clampPlaces(decimalPlaces), 64) + "%"
	case "number":
		n, ok := toFloat(v)
		if !ok {
			return display(v)
		}
		if decimalPlaces > 0 {
			return strconv.FormatFloat(n, 'f', decimalPlaces, 64)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	// "string" and anything unrecognized.
	return display(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch vv := v.(type) {
	case float64:
		return vv, true
	case string:
		n, err := strconv.ParseFloat(vv, 64)
		return n, err == nil
	}
	return 0, false
}

func clampPlaces(places int) int {
	if places < 0 {
		return 0
	}
	return places
}
