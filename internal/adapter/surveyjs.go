package adapter

import (
	"fmt"
	"strconv"

	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ids"
)

// typeMap maps SurveyJS element types onto native field types. Anything
// absent becomes an unsupported placeholder.
var typeMap = map[string]field.Type{
	"text":       field.TypeText,
	"comment":    field.TypeLongText,
	"radiogroup": field.TypeRadio,
	"checkbox":   field.TypeCheckbox,
	"dropdown":   field.TypeDropdown,
	"tagbox":     field.TypeMultiSelect,
	"boolean":    field.TypeBoolean,
	"rating":     field.TypeRating,
	"ranking":    field.TypeRanking,
	"matrix":     field.TypeMatrix,
	"expression": field.TypeExpression,
	"panel":      field.TypeSection,
}

// pendingRule is a parsed visibility rule waiting for the post-pass that
// resolves field names and option literals against the full field list.
type pendingRule struct {
	target   *field.Field
	property string // "visibleIf" or "enableIf"
	source   string
	logic    field.Logic
	conds    []rawCondition
}

type converter struct {
	report  *Report
	claimed map[string]struct{}

	// nameToID maps converted element names to their claimed field ids;
	// choiceIDs maps an element name to its choice-literal → option-id
	// translations.
	nameToID  map[string]string
	choiceIDs map[string]map[string]string
	pending   []pendingRule
}

// Adapt converts a parsed SurveyJS-style document into a native document
// plus its conversion report. The error return covers only structurally
// hopeless input (not a map); per-element failures degrade, never abort.
func Adapt(doc interface{}) (*field.Document, *Report, error) {
	root, ok := doc.(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("external schema must be an object, got %T", doc)
	}

	c := &converter{
		report:    &Report{DroppedFields: []DroppedField{}, Warnings: []Warning{}},
		claimed:   make(map[string]struct{}),
		nameToID:  make(map[string]string),
		choiceIDs: make(map[string]map[string]string),
	}

	elements := c.collectElements(root)
	var fields []*field.Field
	for _, el := range elements {
		if f := c.convertElement(el, false); f != nil {
			fields = append(fields, f)
		}
	}
	c.resolveRules()

	out := &field.Document{
		SchemaType: string(KindSurveyJS),
		Fields:     fields,
	}
	if title, ok := root["title"].(string); ok && title != "" {
		out.Metadata = map[string]interface{}{"title": title}
	}
	return out, c.report, nil
}

// collectElements flattens a multi-page document into one element list,
// warning once that page structure was lost.
func (c *converter) collectElements(root map[string]interface{}) []interface{} {
	if pages, ok := root["pages"].([]interface{}); ok {
		var out []interface{}
		for _, p := range pages {
			page, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if els, ok := page["elements"].([]interface{}); ok {
				out = append(out, els...)
			}
		}
		if len(pages) > 1 {
			c.report.warn(Warning{
				Type:     WarnPageStructureLost,
				Property: "pages",
				Value:    len(pages),
				Message:  fmt.Sprintf("document had %d pages; fields were flattened into a single list", len(pages)),
				Impact:   ImpactHigh,
			})
		}
		return out
	}
	if els, ok := root["elements"].([]interface{}); ok {
		return els
	}
	return nil
}

// convertElement converts one element. Returns nil only for elements too
// malformed to represent, which are recorded as dropped.
func (c *converter) convertElement(raw interface{}, insideSection bool) *field.Field {
	c.report.TotalElements++

	el, ok := raw.(map[string]interface{})
	if !ok {
		c.report.DroppedFields = append(c.report.DroppedFields, DroppedField{
			Name: fmt.Sprint(raw),
			Type: fmt.Sprintf("%T", raw),
		})
		return nil
	}

	name, _ := el["name"].(string)
	elType, _ := el["type"].(string)
	title, _ := el["title"].(string)

	nativeType, mapped := typeMap[elType]
	// A panel inside a panel cannot become a nested section.
	if mapped && nativeType == field.TypeSection && insideSection {
		mapped = false
	}
	if !mapped {
		c.report.ConvertedFields++
		c.report.warn(Warning{
			Type:     WarnUnsupportedElement,
			Property: "type",
			Value:    elType,
			Message:  fmt.Sprintf("element %q of type %q has no native equivalent and was kept as a placeholder", name, elType),
			Impact:   ImpactHigh,
		})
		return c.placeholder(name, el)
	}

	f := &field.Field{
		ID:   c.claimID(name, nativeType),
		Type: nativeType,
	}
	if name != "" {
		c.nameToID[name] = f.ID
	}
	if nativeType == field.TypeSection {
		f.Title = title
		f.Fields = []*field.Field{}
	} else {
		f.Question = title
		if title == "" {
			f.Question = name
		}
	}
	if req, ok := el["isRequired"].(bool); ok {
		f.Required = req
	}
	if ro, ok := el["readOnly"].(bool); ok && ro {
		c.report.warn(Warning{
			Type:     WarnLostReadOnly,
			Property: "readOnly",
			Value:    true,
			Message:  fmt.Sprintf("field %q was read-only; the flag has no native equivalent", name),
			Impact:   ImpactMedium,
		})
	}

	c.convertTypeSpecific(f, name, elType, el, insideSection)
	c.collectRule(f, name, el)

	c.report.ConvertedFields++
	return f
}

func (c *converter) convertTypeSpecific(f *field.Field, name, elType string, el map[string]interface{}, insideSection bool) {
	switch f.Type {
	case field.TypeSection:
		if els, ok := el["elements"].([]interface{}); ok {
			for _, childRaw := range els {
				if child := c.convertElement(childRaw, true); child != nil {
					f.Fields = append(f.Fields, child)
				}
			}
		}

	case field.TypeText:
		if inputType, ok := el["inputType"].(string); ok && inputType != "" && inputType != "text" {
			c.report.warn(Warning{
				Type:     WarnLostInputType,
				Property: "inputType",
				Value:    inputType,
				Message:  fmt.Sprintf("field %q input sub-type %q degraded to plain text", name, inputType),
				Impact:   ImpactMedium,
			})
		}
		c.warnPlaceholder(name, el)
		c.warnValidation(name, el)

	case field.TypeLongText:
		c.warnPlaceholder(name, el)
		c.warnValidation(name, el)

	case field.TypeRadio, field.TypeCheckbox, field.TypeDropdown,
		field.TypeMultiSelect, field.TypeRanking:
		f.Options = c.convertChoices(name, el)
		if f.Type.IsMulti() {
			f.Selected = []string{}
		}
		if order, ok := el["choicesOrder"].(string); ok && order != "" && order != "none" {
			c.report.warn(Warning{
				Type:     WarnLostChoiceOrder,
				Property: "choicesOrder",
				Value:    order,
				Message:  fmt.Sprintf("field %q choice ordering %q is not preserved", name, order),
				Impact:   ImpactLow,
			})
		}
		if hasOther(el) {
			c.report.warn(Warning{
				Type:     WarnLostOtherOption,
				Property: "showOtherItem",
				Value:    true,
				Message:  fmt.Sprintf("field %q had an \"other\" option with free text; it was dropped", name),
				Impact:   ImpactMedium,
			})
		}

	case field.TypeBoolean:
		f.Options = []field.Option{{ID: "yes", Value: "Yes"}, {ID: "no", Value: "No"}}
		c.rememberChoice(name, "true", "yes")
		c.rememberChoice(name, "false", "no")
		labelTrue, hasTrue := el["labelTrue"].(string)
		labelFalse, hasFalse := el["labelFalse"].(string)
		if hasTrue || hasFalse {
			c.report.warn(Warning{
				Type:     WarnLostBooleanLabels,
				Property: "labelTrue/labelFalse",
				Value:    fmt.Sprintf("%s/%s", labelTrue, labelFalse),
				Message:  fmt.Sprintf("field %q custom yes/no labels were replaced with defaults", name),
				Impact:   ImpactLow,
			})
		}

	case field.TypeRating:
		f.Options = c.ratingOptions(name, el)

	case field.TypeMatrix:
		f.Rows = c.convertEntries(name, el["rows"], "row")
		f.Columns = c.convertEntries(name, el["columns"], "col")
		f.Selected = map[string]interface{}{}

	case field.TypeExpression:
		if exprText, ok := el["expression"].(string); ok {
			f.Expression = exprText
		}
		f.DisplayFormat = displayFormat(el)
		if digits, ok := asInt(el["maximumFractionDigits"]); ok {
			f.DecimalPlaces = digits
		}
	}
}

// placeholder wraps an unmapped element as an unsupported field carrying
// the original payload.
func (c *converter) placeholder(name string, el map[string]interface{}) *field.Field {
	title, _ := el["title"].(string)
	f := &field.Field{
		ID:       c.claimID(name, field.TypeUnsupported),
		Type:     field.TypeUnsupported,
		Question: title,
		Payload:  el,
	}
	if name != "" {
		c.nameToID[name] = f.ID
	}
	return f
}

func (c *converter) claimID(name string, t field.Type) string {
	base := ids.Slug(name)
	if base == "" {
		base = string(t)
	}
	id := ids.Generate(base, c.claimed)
	c.claimed[id] = struct{}{}
	return id
}

// convertChoices turns a SurveyJS choices list (plain strings or
// {value, text} objects) into options, remembering each original literal so
// conditions can be resolved to option ids later.
func (c *converter) convertChoices(name string, el map[string]interface{}) []field.Option {
	raw, _ := el["choices"].([]interface{})
	return c.buildOptions(name, raw, "option")
}

func (c *converter) convertEntries(name string, raw interface{}, kind string) []field.Option {
	list, _ := raw.([]interface{})
	return c.buildOptions(name, list, kind)
}

func (c *converter) buildOptions(name string, raw []interface{}, kind string) []field.Option {
	taken := make(map[string]struct{})
	out := make([]field.Option, 0, len(raw))
	for _, choice := range raw {
		var value, text string
		switch cv := choice.(type) {
		case string:
			value, text = cv, cv
		case map[string]interface{}:
			value = stringify(cv["value"])
			if t, ok := cv["text"].(string); ok && t != "" {
				text = t
			} else {
				text = value
			}
		default:
			value = stringify(choice)
			text = value
		}
		base := ids.Slug(value)
		if base == "" {
			base = kind
		}
		id := ids.Generate(base, taken)
		taken[id] = struct{}{}
		out = append(out, field.Option{ID: id, Value: text})
		c.rememberChoice(name, value, id)
		if text != value {
			c.rememberChoice(name, text, id)
		}
	}
	return out
}

func (c *converter) ratingOptions(name string, el map[string]interface{}) []field.Option {
	min, okMin := asInt(el["rateMin"])
	max, okMax := asInt(el["rateMax"])
	if !okMin {
		min = 1
	}
	if !okMax {
		max = 5
	}
	if max < min || max-min > 100 {
		min, max = 1, 5
	}
	out := make([]field.Option, 0, max-min+1)
	for n := min; n <= max; n++ {
		id := fmt.Sprintf("rating-%d", n)
		out = append(out, field.Option{ID: id, Value: strconv.Itoa(n)})
		c.rememberChoice(name, strconv.Itoa(n), id)
	}
	return out
}

func (c *converter) rememberChoice(name, literal, optionID string) {
	if name == "" || literal == "" {
		return
	}
	m := c.choiceIDs[name]
	if m == nil {
		m = make(map[string]string)
		c.choiceIDs[name] = m
	}
	m[literal] = optionID
}

// collectRule parses visibleIf (or enableIf) and queues the result for the
// post-pass. Unconvertible rules are dropped with a warning.
func (c *converter) collectRule(f *field.Field, name string, el map[string]interface{}) {
	for _, property := range []string{"visibleIf", "enableIf"} {
		source, ok := el[property].(string)
		if !ok || source == "" {
			continue
		}
		logic, conds, err := parseRule(source)
		if err != nil {
			c.report.warn(Warning{
				Type:     WarnLostConditional,
				Property: property,
				Value:    source,
				Message:  fmt.Sprintf("field %q condition could not be converted: %v", name, err),
				Impact:   ImpactHigh,
			})
			continue
		}
		c.pending = append(c.pending, pendingRule{
			target:   f,
			property: property,
			source:   source,
			logic:    logic,
			conds:    conds,
		})
		return // visibleIf wins when both are present
	}
}

// resolveRules runs once the full field list is known: condition field names
// become field ids, and comparison literals against choice fields become
// option ids.
func (c *converter) resolveRules() {
	for _, pr := range c.pending {
		conditions := make([]field.Condition, 0, len(pr.conds))
		ok := true
		for _, rc := range pr.conds {
			targetID, known := c.nameToID[rc.FieldName]
			if !known {
				c.report.warn(Warning{
					Type:     WarnLostConditional,
					Property: pr.property,
					Value:    pr.source,
					Message:  fmt.Sprintf("condition references %q, which is not a converted field (calculated values are not supported)", rc.FieldName),
					Impact:   ImpactHigh,
				})
				ok = false
				break
			}
			cond := field.Condition{
				TargetID: targetID,
				Operator: rc.Operator,
			}
			if rc.Operator == field.OpEquals || rc.Operator == field.OpContains {
				cond.Value = rc.Literal
				if optID, found := c.choiceIDs[rc.FieldName][rc.Literal]; found && rc.Operator == field.OpEquals {
					cond.Value = optID
				}
			}
			conditions = append(conditions, cond)
		}
		if !ok || len(conditions) == 0 {
			continue
		}
		pr.target.EnableWhen = &field.Rule{Logic: pr.logic, Conditions: conditions}
	}
}

func warnValue(el map[string]interface{}, key string) (interface{}, bool) {
	v, ok := el[key]
	return v, ok && v != nil
}

func (c *converter) warnPlaceholder(name string, el map[string]interface{}) {
	for _, key := range []string{"placeHolder", "placeholder"} {
		if v, ok := warnValue(el, key); ok {
			c.report.warn(Warning{
				Type:     WarnLostPlaceholder,
				Property: key,
				Value:    v,
				Message:  fmt.Sprintf("field %q placeholder text was dropped", name),
				Impact:   ImpactLow,
			})
			return
		}
	}
}

func (c *converter) warnValidation(name string, el map[string]interface{}) {
	for _, key := range []string{"maxLength", "min", "max", "validators"} {
		if v, ok := warnValue(el, key); ok {
			c.report.warn(Warning{
				Type:     WarnLostValidation,
				Property: key,
				Value:    v,
				Message:  fmt.Sprintf("field %q %s validation was dropped", name, key),
				Impact:   ImpactMedium,
			})
		}
	}
}

func hasOther(el map[string]interface{}) bool {
	for _, key := range []string{"showOtherItem", "hasOther"} {
		if v, ok := el[key].(bool); ok && v {
			return true
		}
	}
	return false
}

func displayFormat(el map[string]interface{}) string {
	style, _ := el["displayStyle"].(string)
	switch style {
	case "currency":
		return "currency"
	case "percent":
		return "percentage"
	case "decimal", "number":
		return "number"
	}
	return "number"
}

func asInt(v interface{}) (int, bool) {
	switch vv := v.(type) {
	case float64:
		return int(vv), true
	case int:
		return vv, true
	}
	return 0, false
}

func stringify(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case int:
		return strconv.Itoa(vv)
	case bool:
		return strconv.FormatBool(vv)
	}
	return fmt.Sprint(v)
}
