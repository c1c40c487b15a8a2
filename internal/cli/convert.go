package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellumkit/vellum/internal/adapter"
	"github.com/vellumkit/vellum/internal/docio"
	"github.com/vellumkit/vellum/internal/ui"
)

var (
	convertFormat     string
	convertOutput     string
	convertReportOnly bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert an external schema into a native document",
	Long: `Convert a SurveyJS-style schema into a native field list.

Reads JSON or YAML from a file (or stdin with "-"), converts every element it
can, and prints a conversion report: unmapped elements become placeholder
fields, multi-page documents are flattened, and simple visibleIf/enableIf
conditions become native visibility rules.

Native documents pass through unchanged apart from id normalization, so
convert also works as a format converter between JSON and YAML.

Examples:
  vlm convert survey.json
  vlm convert survey.json --format yaml -o form.yaml
  cat survey.json | vlm convert - --report-only`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	doc, report, err := loadDocument(data)
	if err != nil {
		return handleError(ErrImportInvalid, err, "Check that the input is valid JSON or YAML")
	}
	doc = normalizeDocument(doc)

	format, err := resolveFormat(convertFormat)
	if err != nil {
		return handleError(ErrFormatInvalid, err, "")
	}

	if isJSONOutput() {
		payload := map[string]interface{}{
			"document": doc,
		}
		if report != nil {
			payload["report"] = report
		}
		outputSuccessWithWarnings(payload, reportWarnings(report), &Meta{Count: len(doc.Fields)})
		return nil
	}

	if report != nil {
		printReport(report)
	}
	if convertReportOnly {
		return nil
	}

	encoded, err := docio.Encode(doc, format)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if err := writeOutput(convertOutput, encoded); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	if convertOutput != "" && convertOutput != "-" {
		fmt.Println(ui.Successf("wrote %s %s", ui.FieldID(convertOutput),
			ui.Hint(fmt.Sprintf("(%d fields)", len(doc.Fields)))))
	}
	return nil
}

// printReport renders a conversion report for terminal display.
func printReport(report *adapter.Report) {
	fmt.Println(ui.Header(fmt.Sprintf("Converted %d of %d elements %s",
		report.ConvertedFields, report.TotalElements,
		ui.DroppedWarningCounts(len(report.DroppedFields), len(report.Warnings)))))

	for _, dropped := range report.DroppedFields {
		fmt.Println(ui.Errorf("dropped %s (%s)", dropped.Name, dropped.Type))
	}

	if len(report.Warnings) == 0 {
		return
	}

	display := ui.NewDisplayContext()
	table := ui.NewResultsTable(display, ui.WarningLayout)
	for _, w := range report.Warnings {
		table.AddRow(ui.ResultRow{Cells: []string{
			impactBadge(w.Impact),
			w.Message,
			w.Type,
		}})
	}
	fmt.Println(table.Render())
}

func impactBadge(impact adapter.Impact) string {
	switch impact {
	case adapter.ImpactHigh:
		return ui.Bold.Render("high")
	case adapter.ImpactMedium:
		return "medium"
	}
	return ui.Muted.Render("low")
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Output format: json or yaml")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default stdout)")
	convertCmd.Flags().BoolVar(&convertReportOnly, "report-only", false, "Print only the conversion report")
	rootCmd.AddCommand(convertCmd)
}
