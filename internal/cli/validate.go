package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellumkit/vellum/internal/expr"
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a document for structural problems",
	Long: `Validate a native document without modifying it.

Checks for unknown field types, duplicate ids within a scope, visibility
rules that reference missing fields, unparseable expression formulas,
formulas that reference missing fields, and selections that name options,
rows, or columns the field no longer declares.

Exits non-zero when any error-level issue is found; warnings alone pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

// issue is one validation finding.
type issue struct {
	Severity string `json:"severity"` // "error" or "warning"
	FieldID  string `json:"fieldId,omitempty"`
	Message  string `json:"message"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	doc, _, err := loadDocument(data)
	if err != nil {
		return handleError(ErrImportInvalid, err, "")
	}

	issues := validateDocument(doc)

	errors := 0
	for _, is := range issues {
		if is.Severity == "error" {
			errors++
		}
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"valid":  errors == 0,
			"issues": issues,
		}, &Meta{Count: len(issues)})
		return nil
	}

	for _, is := range issues {
		line := is.Message
		if is.FieldID != "" {
			line = fmt.Sprintf("%s: %s", ui.FieldID(is.FieldID), is.Message)
		}
		if is.Severity == "error" {
			fmt.Println(ui.Error(line))
		} else {
			fmt.Println(ui.Warning(line))
		}
	}

	if errors > 0 {
		return fmt.Errorf("validation failed %s %s",
			ui.Count(errors, "error", "errors"),
			ui.Count(len(issues)-errors, "warning", "warnings"))
	}
	fmt.Println(ui.Successf("document is valid %s", ui.Hint(fmt.Sprintf("(%d fields)", len(field.Flatten(doc.Fields))))))
	return nil
}

// validateDocument inspects a document as written, before any id
// normalization, so collisions and missing references surface instead of
// being silently repaired.
func validateDocument(doc *field.Document) []issue {
	var issues []issue
	flat := field.Flatten(doc.Fields)

	known := make(map[string]struct{}, len(flat))
	scopes := map[string]map[string]struct{}{"": {}}
	for _, f := range doc.Fields {
		checkDuplicate(f, "", scopes, &issues)
		if f.Type == field.TypeSection {
			scopes[f.ID] = map[string]struct{}{}
			for _, child := range f.Fields {
				checkDuplicate(child, f.ID, scopes, &issues)
				known[child.ID] = struct{}{}
			}
		}
		known[f.ID] = struct{}{}
	}

	for _, f := range flat {
		if !f.Type.Known() {
			issues = append(issues, issue{
				Severity: "error",
				FieldID:  f.ID,
				Message:  fmt.Sprintf("unknown field type %q", f.Type),
			})
		}
		if f.Type == field.TypeSection && f.ID != "" {
			for _, child := range f.Fields {
				if child.Type == field.TypeSection {
					issues = append(issues, issue{
						Severity: "error",
						FieldID:  child.ID,
						Message:  "sections cannot nest inside other sections",
					})
				}
			}
		}

		issues = append(issues, ruleIssues(f, known)...)
		issues = append(issues, expressionIssues(f, known)...)
		issues = append(issues, selectionIssues(f)...)
	}

	return issues
}

func checkDuplicate(f *field.Field, scope string, scopes map[string]map[string]struct{}, issues *[]issue) {
	ids := scopes[scope]
	if _, dup := ids[f.ID]; dup && f.ID != "" {
		*issues = append(*issues, issue{
			Severity: "error",
			FieldID:  f.ID,
			Message:  "duplicate id within scope",
		})
		return
	}
	ids[f.ID] = struct{}{}
}

func ruleIssues(f *field.Field, known map[string]struct{}) []issue {
	if f.EnableWhen == nil {
		return nil
	}
	var issues []issue
	for _, cond := range f.EnableWhen.Conditions {
		if _, ok := known[cond.TargetID]; !ok {
			issues = append(issues, issue{
				Severity: "warning",
				FieldID:  f.ID,
				Message:  fmt.Sprintf("visibility rule references missing field %q (condition evaluates against an empty value)", cond.TargetID),
			})
		}
		if !knownOperator(cond.Operator) {
			issues = append(issues, issue{
				Severity: "error",
				FieldID:  f.ID,
				Message:  fmt.Sprintf("unknown visibility operator %q", cond.Operator),
			})
		}
	}
	return issues
}

func knownOperator(op field.Operator) bool {
	switch op {
	case field.OpEquals, field.OpNotEquals, field.OpContains, field.OpIncludes,
		field.OpEmpty, field.OpNotEmpty,
		field.OpGreater, field.OpGreaterEq, field.OpLess, field.OpLessEq:
		return true
	}
	return false
}

// selectionIssues flags selected values that no longer name a declared
// option, row, or column. Stale references are tolerated at load time, so
// these are warnings.
func selectionIssues(f *field.Field) []issue {
	var issues []issue
	warn := func(format string, id string) {
		issues = append(issues, issue{
			Severity: "warning",
			FieldID:  f.ID,
			Message:  fmt.Sprintf(format, id),
		})
	}

	switch {
	case f.Type.IsMatrix():
		cells, _ := f.Selected.(map[string]interface{})
		for rowID, cell := range cells {
			if !hasSubID(f.Rows, rowID) {
				warn("selection references unknown row %q", rowID)
			}
			cols := field.AsStringSlice(cell)
			if s, ok := cell.(string); ok {
				cols = []string{s}
			}
			for _, colID := range cols {
				if !hasSubID(f.Columns, colID) {
					warn("selection references unknown column %q", colID)
				}
			}
		}
	case f.Type.IsMulti():
		for _, id := range field.AsStringSlice(f.Selected) {
			if !hasSubID(f.Options, id) {
				warn("selection references unknown option %q", id)
			}
		}
	case f.Type.IsChoice() || f.Type == field.TypeBoolean:
		if id, _ := f.Selected.(string); id != "" && !hasSubID(f.Options, id) {
			warn("selection references unknown option %q", id)
		}
	}
	return issues
}

func hasSubID(opts []field.Option, id string) bool {
	for _, opt := range opts {
		if opt.ID == id {
			return true
		}
	}
	return false
}

func expressionIssues(f *field.Field, known map[string]struct{}) []issue {
	if f.Type != field.TypeExpression || f.Expression == "" {
		return nil
	}

	node, err := expr.Parse(f.Expression)
	if err != nil {
		return []issue{{
			Severity: "error",
			FieldID:  f.ID,
			Message:  fmt.Sprintf("formula does not parse: %v", err),
		}}
	}

	var issues []issue
	for _, ref := range expr.Refs(node) {
		if _, ok := known[ref]; !ok {
			issues = append(issues, issue{
				Severity: "warning",
				FieldID:  f.ID,
				Message:  fmt.Sprintf("formula references missing field %q (result stays empty)", ref),
			})
		}
	}
	return issues
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
