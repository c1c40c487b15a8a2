package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vellumkit/vellum/internal/field"
)

// rawCondition is one clause of a visibleIf/enableIf expression before
// target and literal resolution.
type rawCondition struct {
	FieldName string
	Operator  field.Operator
	Literal   string
}

var clausePattern = regexp.MustCompile(`^\{([^}]+)\}\s*(notempty|empty|contains|<>|!=|=)\s*(.*)$`)

// parseRule parses a boolean expression of the form
//
//	{field} OP literal [and|or {field} OP literal ...]
//
// with a single logic mode throughout. Mixing and/or, unsupported operators
// (<>, !=), and unrecognized clause shapes are rejected with an error
// describing the offending part.
func parseRule(input string) (field.Logic, []rawCondition, error) {
	clauses, logic, err := splitClauses(input)
	if err != nil {
		return "", nil, err
	}

	conds := make([]rawCondition, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		clause = strings.TrimPrefix(clause, "(")
		clause = strings.TrimSuffix(clause, ")")
		clause = strings.TrimSpace(clause)

		m := clausePattern.FindStringSubmatch(clause)
		if m == nil {
			return "", nil, fmt.Errorf("unrecognized condition %q", clause)
		}
		name := strings.TrimSpace(m[1])
		op := strings.ToLower(m[2])
		literal := unquote(strings.TrimSpace(m[3]))

		switch op {
		case "<>", "!=":
			return "", nil, fmt.Errorf("negated comparison %q is not supported", clause)
		case "=":
			conds = append(conds, rawCondition{FieldName: name, Operator: field.OpEquals, Literal: literal})
		case "contains":
			conds = append(conds, rawCondition{FieldName: name, Operator: field.OpContains, Literal: literal})
		case "empty":
			conds = append(conds, rawCondition{FieldName: name, Operator: field.OpEmpty})
		case "notempty":
			conds = append(conds, rawCondition{FieldName: name, Operator: field.OpNotEmpty})
		}
	}
	return logic, conds, nil
}

// splitClauses splits on top-level and/or connectives (outside quotes) and
// returns the shared logic mode. Mixed connectives are rejected.
func splitClauses(input string) ([]string, field.Logic, error) {
	var clauses []string
	logic := field.LogicAnd
	sawAnd, sawOr := false, false

	start := 0
	inQuote := byte(0)
	lower := strings.ToLower(input)
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if inQuote != 0 {
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		if ch == '\'' || ch == '"' {
			inQuote = ch
			continue
		}
		if word, width := connectiveAt(lower, i); word != "" {
			clauses = append(clauses, input[start:i])
			start = i + width
			i += width - 1
			if word == "and" {
				sawAnd = true
			} else {
				sawOr = true
			}
		}
	}
	clauses = append(clauses, input[start:])

	if sawAnd && sawOr {
		return nil, "", fmt.Errorf("mixed and/or in %q is not supported", input)
	}
	if sawOr {
		logic = field.LogicOr
	}
	return clauses, logic, nil
}

// connectiveAt reports whether a whitespace-delimited "and"/"or" starts at
// position i of the lowercased input.
func connectiveAt(lower string, i int) (string, int) {
	for _, word := range []string{" and ", " or "} {
		if strings.HasPrefix(lower[i:], word) {
			return strings.TrimSpace(word), len(word)
		}
	}
	return "", 0
}

func unquote(s string) string {
	if len(s) >= 2 {
		if s[0] == '\'' && s[len(s)-1] == '\'' || s[0] == '"' && s[len(s)-1] == '"' {
			return s[1 : len(s)-1]
		}
	}
	return s
}
