package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellumkit/vellum/internal/docio"
	"github.com/vellumkit/vellum/internal/ui"
	"github.com/vellumkit/vellum/internal/workspace"
)

var wsCmd = &cobra.Command{
	Use:   "ws",
	Short: "Manage documents in the local workspace",
	Long: `Keep named document drafts in a local workspace database.

The workspace lives under the configured workspace directory (default
~/.vellum) and stores documents by name, so drafts survive between runs
without scattering files around.`,
}

var (
	wsLoadFormat string
	wsLoadOutput string
)

var wsSaveCmd = &cobra.Command{
	Use:   "save <name> <file>",
	Short: "Save a document under a name",
	Args:  cobra.ExactArgs(2),
	RunE:  runWsSave,
}

var wsLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Print a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runWsLoad,
}

var wsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runWsList,
}

var wsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runWsDelete,
}

var wsRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a stored document",
	Args:  cobra.ExactArgs(2),
	RunE:  runWsRename,
}

func runWsSave(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	data, err := readInput(path)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	doc, _, err := loadDocument(data)
	if err != nil {
		return handleError(ErrImportInvalid, err, "")
	}
	doc = normalizeDocument(doc)

	ws, err := openWorkspace()
	if err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}
	defer ws.Close()

	if err := ws.Save(name, doc); err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"name":       name,
			"fieldCount": len(doc.Fields),
		}, nil)
		return nil
	}
	fmt.Println(ui.Successf("saved %s %s", ui.FieldID(name),
		ui.Hint(fmt.Sprintf("(%s)", ui.Count(len(doc.Fields), "field", "fields")))))
	return nil
}

func runWsLoad(cmd *cobra.Command, args []string) error {
	name := args[0]

	ws, err := openWorkspace()
	if err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}
	defer ws.Close()

	doc, err := ws.Load(name)
	if err != nil {
		if errors.Is(err, workspace.ErrDocumentNotFound) {
			return handleErrorMsg(ErrDocumentNotFound,
				fmt.Sprintf("no document named %q in workspace", name),
				"Run 'vlm ws list' to see stored documents")
		}
		return handleError(ErrWorkspaceError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(doc, &Meta{Count: len(doc.Fields)})
		return nil
	}

	format, err := resolveFormat(wsLoadFormat)
	if err != nil {
		return handleError(ErrFormatInvalid, err, "")
	}
	encoded, err := docio.Encode(doc, format)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if err := writeOutput(wsLoadOutput, encoded); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	return nil
}

func runWsList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}
	defer ws.Close()

	entries, err := ws.List()
	if err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"documents": entries}, &Meta{Count: len(entries)})
		return nil
	}

	if len(entries) == 0 {
		fmt.Println(ui.Info("workspace is empty"))
		fmt.Println(ui.Hint("Save a document with 'vlm ws save <name> <file>'"))
		return nil
	}

	display := ui.NewDisplayContext()
	table := ui.NewResultsTable(display, ui.DocumentLayout)
	for _, e := range entries {
		schema := e.SchemaType
		if schema == "" {
			schema = "document"
		}
		table.AddRow(ui.ResultRow{Cells: []string{
			e.Name,
			fmt.Sprintf("%s, %s", schema, ui.Count(e.FieldCount, "field", "fields")),
			e.UpdatedAt.Format("2006-01-02 15:04"),
		}})
	}
	fmt.Println(table.Render())
	return nil
}

func runWsDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ws, err := openWorkspace()
	if err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}
	defer ws.Close()

	if err := ws.Delete(name); err != nil {
		if errors.Is(err, workspace.ErrDocumentNotFound) {
			return handleErrorMsg(ErrDocumentNotFound,
				fmt.Sprintf("no document named %q in workspace", name), "")
		}
		return handleError(ErrWorkspaceError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"name": name, "deleted": true}, nil)
		return nil
	}
	fmt.Println(ui.Successf("deleted %s", ui.FieldID(name)))
	return nil
}

func runWsRename(cmd *cobra.Command, args []string) error {
	name, newName := args[0], args[1]

	ws, err := openWorkspace()
	if err != nil {
		return handleError(ErrWorkspaceError, err, "")
	}
	defer ws.Close()

	if err := ws.Rename(name, newName); err != nil {
		if errors.Is(err, workspace.ErrDocumentNotFound) {
			return handleErrorMsg(ErrDocumentNotFound,
				fmt.Sprintf("no document named %q in workspace", name), "")
		}
		return handleError(ErrDocumentExists, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"name": newName, "previous": name}, nil)
		return nil
	}
	fmt.Println(ui.Successf("renamed %s to %s", ui.FieldID(name), ui.FieldID(newName)))
	return nil
}

func init() {
	wsLoadCmd.Flags().StringVarP(&wsLoadFormat, "format", "f", "", "Output format: json or yaml")
	wsLoadCmd.Flags().StringVarP(&wsLoadOutput, "output", "o", "", "Write to file instead of stdout")

	wsCmd.AddCommand(wsSaveCmd)
	wsCmd.AddCommand(wsLoadCmd)
	wsCmd.AddCommand(wsListCmd)
	wsCmd.AddCommand(wsDeleteCmd)
	wsCmd.AddCommand(wsRenameCmd)
	rootCmd.AddCommand(wsCmd)
}
