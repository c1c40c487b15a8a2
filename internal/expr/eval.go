package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// epsilon matches the visibility evaluator's numeric equality tolerance.
const epsilon = 1e-9

// Result is the outcome of evaluating a formula. A missing field reference
// is not an error: it suppresses output, leaving both Value and Err empty.
type Result struct {
	Value interface{} // float64, string, or bool; "" when suppressed
	Err   string
}

// IsError reports whether evaluation failed.
func (r Result) IsError() bool {
	return r.Err != ""
}

// Evaluate parses and evaluates a formula against the current field values.
// Values may be numbers, numeric strings, plain strings, or booleans.
// Malformed formulas yield an error message, never a panic.
func Evaluate(expression string, values map[string]interface{}) Result {
	node, err := Parse(expression)
	if err != nil {
		return Result{Value: "", Err: err.Error()}
	}
	return EvaluateNode(node, values)
}

// EvaluateNode evaluates an already-parsed formula.
func EvaluateNode(node Node, values map[string]interface{}) Result {
	// A reference to an unanswered field suppresses the whole result.
	for _, id := range Refs(node) {
		v, ok := values[id]
		if !ok || v == nil {
			return Result{Value: ""}
		}
	}

	value, err := eval(node, values)
	if err != nil {
		return Result{Value: "", Err: err.Error()}
	}
	return Result{Value: value}
}

func eval(node Node, values map[string]interface{}) (interface{}, error) {
	switch n := node.(type) {
	case NumberLit:
		return n.Value, nil
	case StringLit:
		return n.Value, nil
	case FieldRef:
		return coerceFieldValue(values[n.ID]), nil
	case UnaryOp:
		return evalUnary(n, values)
	case BinaryOp:
		return evalBinary(n, values)
	case IfExpr:
		cond, err := eval(n.Cond, values)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return eval(n.Then, values)
		}
		return eval(n.Else, values)
	}
	return nil, fmt.Errorf("unknown expression node %T", node)
}

func evalUnary(n UnaryOp, values map[string]interface{}) (interface{}, error) {
	operand, err := eval(n.Operand, values)
	if err != nil {
		return nil, err
	}
	if n.Op == TokenNot {
		return !truthy(operand), nil
	}
	num, ok := asNumber(operand)
	if !ok {
		return nil, fmt.Errorf("cannot negate %q", display(operand))
	}
	return -num, nil
}

func evalBinary(n BinaryOp, values map[string]interface{}) (interface{}, error) {
	// Short-circuit logical operators before evaluating the right side.
	if n.Op == TokenAnd || n.Op == TokenOr {
		left, err := eval(n.Left, values)
		if err != nil {
			return nil, err
		}
		if n.Op == TokenAnd && !truthy(left) {
			return false, nil
		}
		if n.Op == TokenOr && truthy(left) {
			return true, nil
		}
		right, err := eval(n.Right, values)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil
	}

	left, err := eval(n.Left, values)
	if err != nil {
		return nil, err
	}
	right, err := eval(n.Right, values)
	if err != nil {
		return nil, err
	}

	lnum, lok := asNumber(left)
	rnum, rok := asNumber(right)
	numeric := lok && rok

	switch n.Op {
	case TokenPlus:
		// + is addition for two numbers and concatenation as soon as a
		// string operand is present.
		if numeric {
			return lnum + rnum, nil
		}
		return display(left) + display(right), nil
	case TokenMinus, TokenStar, TokenSlash, TokenPercent:
		if !numeric {
			return nil, fmt.Errorf("arithmetic on non-numeric value %q", display(nonNumericOf(left, right)))
		}
		switch n.Op {
		case TokenMinus:
			return lnum - rnum, nil
		case TokenStar:
			return lnum * rnum, nil
		case TokenSlash:
			return lnum / rnum, nil
		default:
			return math.Mod(lnum, rnum), nil
		}
	case TokenEq:
		if numeric {
			return math.Abs(lnum-rnum) <= epsilon, nil
		}
		return display(left) == display(right), nil
	case TokenNeq:
		if numeric {
			return math.Abs(lnum-rnum) > epsilon, nil
		}
		return display(left) != display(right), nil
	case TokenLt, TokenGt, TokenLte, TokenGte:
		if !numeric {
			return nil, fmt.Errorf("cannot order non-numeric value %q", display(nonNumericOf(left, right)))
		}
		switch n.Op {
		case TokenLt:
			return lnum < rnum, nil
		case TokenGt:
			return lnum > rnum, nil
		case TokenLte:
			return lnum <= rnum, nil
		default:
			return lnum >= rnum, nil
		}
	}
	return nil, fmt.Errorf("unknown operator")
}

// coerceFieldValue maps a raw field value into the evaluator's value model:
// numbers stay numeric, numeric strings become numbers, everything else is
// a string.
func coerceFieldValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case float64:
		return vv
	case int:
		return float64(vv)
	case int64:
		return float64(vv)
	case bool:
		return vv
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(vv), 64); err == nil && strings.TrimSpace(vv) != "" {
			return n
		}
		return vv
	}
	return display(v)
}

func asNumber(v interface{}) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}

func truthy(v interface{}) bool {
	switch vv := v.(type) {
	case bool:
		return vv
	case float64:
		return vv != 0 && !math.IsNaN(vv)
	case string:
		return vv != ""
	}
	return v != nil
}

// display renders a value for concatenation and equality: numbers drop
// trailing zeros, booleans print true/false.
func display(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) {
			return ""
		}
		return strconv.FormatFloat(vv, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func nonNumericOf(left, right interface{}) interface{} {
	if _, ok := asNumber(left); !ok {
		return left
	}
	return right
}
