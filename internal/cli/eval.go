package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellumkit/vellum/internal/docio"
	"github.com/vellumkit/vellum/internal/expr"
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ui"
	"github.com/vellumkit/vellum/internal/visibility"
)

var evalAnswers string

var evalCmd = &cobra.Command{
	Use:   "eval <file> [formula]",
	Short: "Evaluate formulas against a document's answers",
	Long: `Evaluate a formula against the answered values of a document.

With a formula argument, parses and evaluates it using the document's current
answers and prints the result. Without one, lists every computed field in the
document alongside its recomputed value and current visibility.

--answers merges a {id: value} map (JSON or YAML) into the document first,
so a blank template can be evaluated against trial answers.

Field references use curly braces: {price} * {quantity}. A reference to an
unanswered field suppresses the result rather than failing.

Examples:
  vlm eval order.json '{price} * {quantity} * 1.08'
  vlm eval order.json "if {age} >= 18 then 'adult' else 'minor'"
  vlm eval template.json --answers trial.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	doc, _, err := loadDocument(data)
	if err != nil {
		return handleError(ErrImportInvalid, err, "")
	}

	if evalAnswers != "" {
		answers, err := readAnswerMap(evalAnswers)
		if err != nil {
			return handleError(ErrInvalidInput, err, "The answers file must be a {id: value} map")
		}
		mergeAnswers(doc, answers)
	}
	doc = normalizeDocument(doc)

	flat := field.Flatten(doc.Fields)
	if len(args) == 2 {
		return evalFormula(args[1], collectAnswers(flat))
	}
	return listComputed(doc, flat)
}

// readAnswerMap loads a {id: value} answer map from a JSON or YAML file.
func readAnswerMap(path string) (map[string]interface{}, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	parsed, err := docio.Parse(data)
	if err != nil {
		return nil, err
	}
	answers, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("answers file must be a map of field id to value")
	}
	return answers, nil
}

// mergeAnswers writes trial values into the document. Choice and matrix
// fields take the value as a selection; everything else takes it as the
// typed answer.
func mergeAnswers(doc *field.Document, answers map[string]interface{}) {
	for _, f := range field.Flatten(doc.Fields) {
		v, ok := answers[f.ID]
		if !ok {
			continue
		}
		if f.Type.IsChoice() || f.Type.IsMatrix() || f.Type == field.TypeBoolean {
			f.Selected = v
		} else {
			f.Answer = v
		}
	}
}

func evalFormula(formula string, values map[string]interface{}) error {
	result := expr.Evaluate(formula, values)
	if result.IsError() {
		return handleErrorMsg(ErrExprInvalid, result.Err, "Check the formula syntax; field references use {id}")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"expression": formula,
			"value":      result.Value,
		}, nil)
		return nil
	}
	fmt.Println(expr.Format(result.Value, "", 0))
	return nil
}

func listComputed(doc *field.Document, flat []*field.Field) error {
	type computed struct {
		ID         string      `json:"id"`
		Expression string      `json:"expression"`
		Value      interface{} `json:"value"`
		Display    string      `json:"display"`
		Visible    bool        `json:"visible"`
		Error      string      `json:"error,omitempty"`
	}

	index := field.Index(doc.Fields)
	values := collectAnswers(flat)

	var results []computed
	for _, f := range flat {
		if f.Type != field.TypeExpression {
			continue
		}
		result := expr.Evaluate(f.Expression, values)
		results = append(results, computed{
			ID:         f.ID,
			Expression: f.Expression,
			Value:      result.Value,
			Display:    expr.Format(result.Value, f.DisplayFormat, f.DecimalPlaces),
			Visible:    visibility.IsVisible(f, index),
			Error:      result.Err,
		})
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"computed": results}, &Meta{Count: len(results)})
		return nil
	}

	if len(results) == 0 {
		fmt.Println(ui.Info("no computed fields in document"))
		return nil
	}

	display := ui.NewDisplayContext()
	table := ui.NewResultsTable(display, ui.DocumentLayout)
	for _, r := range results {
		meta := r.Display
		if r.Error != "" {
			meta = ui.Errorf("%s", r.Error)
		}
		if !r.Visible {
			meta = ui.Muted.Render("hidden")
		}
		table.AddRow(ui.ResultRow{Cells: []string{r.ID, r.Expression, meta}})
	}
	fmt.Println(table.Render())
	return nil
}

// collectAnswers gathers the current value of every answered field, keyed by
// id, for formula substitution. Unanswered fields stay out of the map.
func collectAnswers(flat []*field.Field) map[string]interface{} {
	values := make(map[string]interface{}, len(flat))
	for _, f := range flat {
		v := field.CurrentValue(f)
		switch vv := v.(type) {
		case nil:
			continue
		case string:
			if vv == "" {
				continue
			}
		}
		values[f.ID] = v
	}
	return values
}

func init() {
	evalCmd.Flags().StringVar(&evalAnswers, "answers", "", "Merge a {id: value} answers file (JSON or YAML) before evaluating")
	rootCmd.AddCommand(evalCmd)
}
