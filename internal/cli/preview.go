package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vellumkit/vellum/internal/expr"
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/ui"
	"github.com/vellumkit/vellum/internal/visibility"
)

var (
	previewRaw bool
	previewAll bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a document as a form preview",
	Long: `Render a document as markdown the way a respondent would see it.

Fields hidden by their visibility rules are skipped unless --all is given.
Selected options are marked, computed fields show their formatted values,
and matrix questions render as tables.

Examples:
  vlm preview intake.json
  vlm preview intake.json --raw > preview.md`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	doc, _, err := loadDocument(data)
	if err != nil {
		return handleError(ErrImportInvalid, err, "")
	}
	doc = normalizeDocument(doc)

	markdown := renderDocument(doc, previewAll)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"markdown": markdown}, nil)
		return nil
	}
	if previewRaw {
		fmt.Print(markdown)
		return nil
	}

	display := ui.NewDisplayContext()
	rendered, err := ui.RenderMarkdown(markdown, display.AvailableWidth(0))
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	fmt.Print(rendered)
	return nil
}

// renderDocument builds a markdown form view of the document. Visibility is
// evaluated against the flat field index, so rules inside sections can target
// fields anywhere in the document.
func renderDocument(doc *field.Document, includeHidden bool) string {
	var b strings.Builder

	if title, ok := doc.Metadata["title"].(string); ok && title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	index := field.Index(doc.Fields)
	num := 0
	for _, f := range doc.Fields {
		if !includeHidden && !visibility.IsVisible(f, index) {
			continue
		}
		if f.Type == field.TypeSection {
			if f.Title != "" {
				fmt.Fprintf(&b, "## %s\n\n", f.Title)
			}
			for _, child := range f.Fields {
				if !includeHidden && !visibility.IsVisible(child, index) {
					continue
				}
				num++
				renderField(&b, child, num)
			}
			continue
		}
		if f.Type == field.TypeUnsupported {
			continue
		}
		num++
		renderField(&b, f, num)
	}

	return b.String()
}

func renderField(b *strings.Builder, f *field.Field, num int) {
	label := f.Label()
	if f.Required {
		label += " \\*"
	}
	fmt.Fprintf(b, "**%d. %s**\n\n", num, label)

	switch {
	case f.Type == field.TypeExpression:
		value := expr.Format(f.Answer, f.DisplayFormat, f.DecimalPlaces)
		if value == "" {
			value = "_(not yet computed)_"
		}
		fmt.Fprintf(b, "%s\n\n", value)
	case f.Type.IsMatrix():
		renderMatrix(b, f)
	case f.Type.IsChoice() || f.Type == field.TypeBoolean:
		renderChoices(b, f)
	default:
		renderText(b, f)
	}
}

func renderText(b *strings.Builder, f *field.Field) {
	if s, ok := f.Answer.(string); ok && s != "" {
		fmt.Fprintf(b, "> %s\n\n", s)
		return
	}
	b.WriteString("> \\_\\_\\_\\_\\_\n\n")
}

func renderChoices(b *strings.Builder, f *field.Field) {
	selected := selectedSet(f)
	for _, opt := range f.Options {
		mark := " "
		if opt.Selected || selected[opt.ID] {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s\n", mark, opt.Value)
	}
	b.WriteString("\n")
}

func renderMatrix(b *strings.Builder, f *field.Field) {
	b.WriteString("|  |")
	for _, col := range f.Columns {
		fmt.Fprintf(b, " %s |", col.Value)
	}
	b.WriteString("\n|---|")
	for range f.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	cells, _ := f.Selected.(map[string]interface{})
	for _, row := range f.Rows {
		fmt.Fprintf(b, "| %s |", row.Value)
		for _, col := range f.Columns {
			if matrixCellSelected(cells[row.ID], col.ID) {
				b.WriteString(" x |")
			} else {
				b.WriteString("   |")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func matrixCellSelected(cell interface{}, columnID string) bool {
	switch v := cell.(type) {
	case string:
		return v == columnID
	case []string:
		for _, id := range v {
			if id == columnID {
				return true
			}
		}
	case []interface{}:
		for _, id := range v {
			if s, ok := id.(string); ok && s == columnID {
				return true
			}
		}
	}
	return false
}

func selectedSet(f *field.Field) map[string]bool {
	set := make(map[string]bool)
	if f.Type.IsMulti() {
		for _, id := range field.AsStringSlice(f.Selected) {
			set[id] = true
		}
		return set
	}
	if id, ok := f.Selected.(string); ok && id != "" {
		set[id] = true
	}
	return set
}

func init() {
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "Print plain markdown without terminal styling")
	previewCmd.Flags().BoolVar(&previewAll, "all", false, "Include fields hidden by visibility rules")
	rootCmd.AddCommand(previewCmd)
}
