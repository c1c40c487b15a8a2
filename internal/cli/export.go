package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vellumkit/vellum/internal/docio"
	"github.com/vellumkit/vellum/internal/ui"
)

var (
	exportFormat string
	exportOutput string
	exportView   string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a document as JSON or YAML",
	Long: `Export a native document in one of three views.

Views:
  full        the complete document (default)
  definition  a blank template: every answer and selection stripped
  responses   per-field submission entries, skipping sections and
              unanswered fields

Expression fields are recomputed before export, so formula answers are
always current.

Examples:
  vlm export form.json --view definition -o template.json
  vlm export form.yaml --view responses --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	doc, err := docio.DecodeNative(data)
	if err != nil {
		return handleError(ErrImportInvalid, err, "Use 'vlm convert' for external schema formats")
	}
	doc = normalizeDocument(doc)

	format, err := resolveFormat(exportFormat)
	if err != nil {
		return handleError(ErrFormatInvalid, err, "")
	}

	viewDoc := doc
	switch exportView {
	case "", "full":
	case "definition":
		viewDoc = docio.DefinitionView(doc)
	case "responses":
		responses := docio.ResponseView(doc)
		if isJSONOutput() {
			outputSuccess(responses, &Meta{Count: len(responses)})
			return nil
		}
		encoded, err := encodeResponses(responses, format)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if err := writeOutput(exportOutput, encoded); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		return nil
	default:
		return handleErrorMsg(ErrViewInvalid,
			fmt.Sprintf("unknown view %q", exportView),
			"Valid views: full, definition, responses")
	}

	if isJSONOutput() {
		outputSuccess(viewDoc, &Meta{Count: len(viewDoc.Fields)})
		return nil
	}

	encoded, err := docio.Encode(viewDoc, format)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if err := writeOutput(exportOutput, encoded); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	if exportOutput != "" && exportOutput != "-" {
		fmt.Println(ui.Successf("wrote %s", ui.FieldID(exportOutput)))
	}
	return nil
}

func encodeResponses(responses []docio.Response, format docio.Format) ([]byte, error) {
	if format == docio.FormatYAML {
		return yaml.Marshal(responses)
	}
	data, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportView, "view", "full", "View: full, definition, or responses")
	rootCmd.AddCommand(exportCmd)
}
