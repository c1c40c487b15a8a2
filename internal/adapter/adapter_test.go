package adapter

import (
	"encoding/json"
	"testing"

	"github.com/vellumkit/vellum/internal/field"
)

func parseDoc(t *testing.T, raw string) interface{} {
	t.Helper()
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("test document invalid: %v", err)
	}
	return doc
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"elements", `{"elements": []}`, KindSurveyJS},
		{"pages", `{"pages": []}`, KindSurveyJS},
		{"fields object", `{"fields": []}`, KindNative},
		{"bare array", `[]`, KindNative},
		{"unknown object", `{"title": "x"}`, KindUnknown},
		{"scalar", `42`, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(parseDoc(t, tt.raw)); got != tt.want {
				t.Fatalf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdaptBasicElements(t *testing.T) {
	doc := parseDoc(t, `{
		"title": "Intake",
		"elements": [
			{"type": "text", "name": "patient_name", "title": "Your name", "isRequired": true},
			{"type": "radiogroup", "name": "color", "title": "Favorite color",
			 "choices": ["Red", {"value": "G", "text": "Green"}]},
			{"type": "boolean", "name": "consent"}
		]
	}`)

	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalElements != 3 || report.ConvertedFields != 3 {
		t.Fatalf("report counts = %d/%d", report.ConvertedFields, report.TotalElements)
	}
	if len(report.DroppedFields) != 0 {
		t.Fatalf("unexpected drops: %+v", report.DroppedFields)
	}
	if out.Metadata["title"] != "Intake" {
		t.Fatalf("metadata = %+v", out.Metadata)
	}

	name := out.Fields[0]
	if name.Type != field.TypeText || name.ID != "patient-name" || !name.Required {
		t.Fatalf("text field = %+v", name)
	}

	color := out.Fields[1]
	if len(color.Options) != 2 {
		t.Fatalf("options = %+v", color.Options)
	}
	if color.Options[0].ID != "red" || color.Options[0].Value != "Red" {
		t.Fatalf("option 0 = %+v", color.Options[0])
	}
	if color.Options[1].ID != "g" || color.Options[1].Value != "Green" {
		t.Fatalf("option 1 = %+v", color.Options[1])
	}

	consent := out.Fields[2]
	if consent.Type != field.TypeBoolean || consent.Question != "consent" {
		t.Fatalf("boolean field = %+v", consent)
	}
}

func TestAdaptUnmappedElementBecomesUnsupported(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "signaturepad", "name": "sig", "title": "Sign here", "penColor": "blue"}
		]
	}`)

	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	// An unmapped element converts (to a placeholder); nothing is dropped.
	if len(report.DroppedFields) != 0 {
		t.Fatalf("droppedFields = %+v", report.DroppedFields)
	}
	if report.ConvertedFields != report.TotalElements {
		t.Fatalf("converted %d of %d", report.ConvertedFields, report.TotalElements)
	}

	f := out.Fields[0]
	if f.Type != field.TypeUnsupported {
		t.Fatalf("type = %q", f.Type)
	}
	if f.Payload["penColor"] != "blue" {
		t.Fatal("placeholder must carry the original payload")
	}

	found := false
	for _, w := range report.Warnings {
		if w.Type == WarnUnsupportedElement && w.Impact == ImpactHigh {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing high-impact unsupported warning: %+v", report.Warnings)
	}
}

func TestAdaptMultiPageWarnsOnce(t *testing.T) {
	doc := parseDoc(t, `{
		"pages": [
			{"elements": [{"type": "text", "name": "a"}]},
			{"elements": [{"type": "text", "name": "b"}]}
		]
	}`)

	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Fields) != 2 {
		t.Fatalf("fields = %d", len(out.Fields))
	}

	count := 0
	for _, w := range report.Warnings {
		if w.Type == WarnPageStructureLost {
			count++
			if w.Impact != ImpactHigh {
				t.Fatalf("page warning impact = %q", w.Impact)
			}
		}
	}
	if count != 1 {
		t.Fatalf("page_structure_lost warnings = %d, want 1", count)
	}

	// A single page flattens silently.
	_, report, _ = Adapt(parseDoc(t, `{"pages": [{"elements": [{"type": "text", "name": "a"}]}]}`))
	for _, w := range report.Warnings {
		if w.Type == WarnPageStructureLost {
			t.Fatal("single page must not warn")
		}
	}
}

func TestAdaptVisibleIfResolvesOptionIDs(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "radiogroup", "name": "color", "choices": ["Red", "Blue"]},
			{"type": "text", "name": "why_red", "visibleIf": "{color} = 'Red'"}
		]
	}`)

	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range report.Warnings {
		if w.Type == WarnLostConditional {
			t.Fatalf("condition should convert cleanly: %+v", w)
		}
	}

	rule := out.Fields[1].EnableWhen
	if rule == nil || len(rule.Conditions) != 1 {
		t.Fatalf("rule = %+v", rule)
	}
	cond := rule.Conditions[0]
	if cond.TargetID != "color" || cond.Operator != field.OpEquals || cond.Value != "red" {
		t.Fatalf("condition = %+v", cond)
	}
}

func TestAdaptConditionVariants(t *testing.T) {
	tests := []struct {
		name      string
		visibleIf string
		wantRule  bool
		wantLogic field.Logic
		wantConds int
	}{
		{"and pair", "{a} notempty and {b} = 'x'", true, field.LogicAnd, 2},
		{"or pair", "{a} empty or {b} contains 'x'", true, field.LogicOr, 2},
		{"mixed rejected", "{a} empty and {b} = 'x' or {a} notempty", false, "", 0},
		{"negation rejected", "{a} <> 'x'", false, "", 0},
		{"unknown shape rejected", "age({a}) > 3", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, `{
				"elements": [
					{"type": "text", "name": "a"},
					{"type": "text", "name": "b"},
					{"type": "text", "name": "dep", "visibleIf": `+jsonString(tt.visibleIf)+`}
				]
			}`)
			out, report, err := Adapt(doc)
			if err != nil {
				t.Fatal(err)
			}
			rule := out.Fields[2].EnableWhen
			if tt.wantRule {
				if rule == nil || len(rule.Conditions) != tt.wantConds || rule.Logic != tt.wantLogic {
					t.Fatalf("rule = %+v", rule)
				}
				return
			}
			if rule != nil {
				t.Fatalf("rule should be dropped, got %+v", rule)
			}
			found := false
			for _, w := range report.Warnings {
				if w.Type == WarnLostConditional {
					found = true
				}
			}
			if !found {
				t.Fatal("dropped condition must warn")
			}
		})
	}
}

func TestAdaptConditionUnknownTarget(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "text", "name": "dep", "visibleIf": "{calcScore} = '5'"}
		]
	}`)
	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	if out.Fields[0].EnableWhen != nil {
		t.Fatal("rule targeting an unknown field must be dropped")
	}
	found := false
	for _, w := range report.Warnings {
		if w.Type == WarnLostConditional && w.Impact == ImpactHigh {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing warning: %+v", report.Warnings)
	}
}

func TestAdaptPanelBecomesSection(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "panel", "name": "demographics", "title": "About you", "elements": [
				{"type": "text", "name": "age_text"},
				{"type": "panel", "name": "inner", "elements": []}
			]}
		]
	}`)

	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	sec := out.Fields[0]
	if sec.Type != field.TypeSection || sec.Title != "About you" {
		t.Fatalf("section = %+v", sec)
	}
	if len(sec.Fields) != 2 {
		t.Fatalf("children = %d", len(sec.Fields))
	}
	// Nested panels cannot nest as sections.
	if sec.Fields[1].Type != field.TypeUnsupported {
		t.Fatalf("inner panel type = %q", sec.Fields[1].Type)
	}
	if report.TotalElements != 3 {
		t.Fatalf("total = %d, want 3", report.TotalElements)
	}
}

func TestAdaptLossWarnings(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "text", "name": "email", "inputType": "email", "placeHolder": "you@example.com", "maxLength": 80},
			{"type": "checkbox", "name": "extras", "choices": ["A"], "showOtherItem": true, "choicesOrder": "random"},
			{"type": "boolean", "name": "ok", "labelTrue": "Sure", "labelFalse": "Nope"},
			{"type": "dropdown", "name": "ro", "choices": ["X"], "readOnly": true}
		]
	}`)

	_, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		WarnLostInputType,
		WarnLostPlaceholder,
		WarnLostValidation,
		WarnLostOtherOption,
		WarnLostChoiceOrder,
		WarnLostBooleanLabels,
		WarnLostReadOnly,
	}
	got := map[string]bool{}
	for _, w := range report.Warnings {
		got[w.Type] = true
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("missing warning %q (have %v)", w, got)
		}
	}
}

func TestAdaptRatingRange(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "rating", "name": "stars", "rateMin": 1, "rateMax": 3},
			{"type": "text", "name": "dep", "visibleIf": "{stars} = '3'"}
		]
	}`)
	out, _, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	stars := out.Fields[0]
	if len(stars.Options) != 3 || stars.Options[2].ID != "rating-3" {
		t.Fatalf("rating options = %+v", stars.Options)
	}
	cond := out.Fields[1].EnableWhen.Conditions[0]
	if cond.Value != "rating-3" {
		t.Fatalf("literal should resolve to option id, got %#v", cond.Value)
	}
}

func TestAdaptMatrix(t *testing.T) {
	doc := parseDoc(t, `{
		"elements": [
			{"type": "matrix", "name": "grid",
			 "rows": ["Morning", "Evening"],
			 "columns": [{"value": 1, "text": "Never"}, {"value": 2, "text": "Often"}]}
		]
	}`)
	out, _, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	grid := out.Fields[0]
	if grid.Type != field.TypeMatrix || len(grid.Rows) != 2 || len(grid.Columns) != 2 {
		t.Fatalf("matrix = %+v", grid)
	}
	if grid.Columns[0].ID != "1" || grid.Columns[0].Value != "Never" {
		t.Fatalf("column = %+v", grid.Columns[0])
	}
}

func TestAdaptMalformedElementDropped(t *testing.T) {
	doc := parseDoc(t, `{"elements": [{"type": "text", "name": "ok"}, "garbage"]}`)
	out, report, err := Adapt(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Fields) != 1 {
		t.Fatalf("fields = %d", len(out.Fields))
	}
	if len(report.DroppedFields) != 1 {
		t.Fatalf("dropped = %+v", report.DroppedFields)
	}
	if report.TotalElements != 2 || report.ConvertedFields != 1 {
		t.Fatalf("counts = %d/%d", report.ConvertedFields, report.TotalElements)
	}
}

func TestAdaptRejectsNonObject(t *testing.T) {
	if _, _, err := Adapt("not a schema"); err == nil {
		t.Fatal("expected error for non-object input")
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
