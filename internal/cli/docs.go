package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	builtindocs "github.com/vellumkit/vellum/docs"
	"github.com/vellumkit/vellum/internal/ui"
)

var docsStdoutIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

type docsTopic struct {
	Section string `json:"section"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Path    string `json:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse documentation bundled into the vlm binary",
	Long: `Browse long-form documentation bundled into the vlm binary.

Without arguments, lists every topic. With a topic id, renders that topic
as styled markdown (plain markdown when stdout is not a terminal).
For command-level usage, use 'vlm help <command>'.

Examples:
  vlm docs
  vlm docs expressions
  vlm docs cli`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	topics, err := listBundledDocsTopics()
	if err != nil {
		return handleError(ErrInternal, err, "Rebuild vlm so bundled docs are available")
	}

	if len(args) == 0 {
		return listDocsTopics(topics)
	}

	id := strings.TrimSuffix(strings.ToLower(args[0]), ".md")
	for _, topic := range topics {
		if topic.ID == id {
			return showDocsTopic(topic)
		}
	}
	return handleErrorMsg(ErrFileNotFound,
		fmt.Sprintf("no docs topic %q", args[0]),
		"Run 'vlm docs' to list available topics")
}

func listDocsTopics(topics []docsTopic) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
		return nil
	}

	section := ""
	table := ui.NewTable(2)
	flush := func() {
		if out := table.String(); out != "" {
			fmt.Print(out)
		}
		table = ui.NewTable(2)
	}
	for _, topic := range topics {
		if topic.Section != section {
			flush()
			section = topic.Section
			fmt.Println(ui.Header(section))
		}
		table.AddRow("  "+topic.ID, topic.Title)
	}
	flush()
	fmt.Println()
	fmt.Println(ui.Hint("Show a topic with 'vlm docs <topic>'"))
	return nil
}

func showDocsTopic(topic docsTopic) error {
	content, err := fs.ReadFile(builtindocs.FS, topic.Path)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"topic":   topic,
			"content": string(content),
		}, nil)
		return nil
	}

	if !docsStdoutIsTerminal() {
		fmt.Print(string(content))
		return nil
	}

	display := ui.NewDisplayContext()
	rendered, err := ui.RenderMarkdown(string(content), display.AvailableWidth(0))
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	fmt.Print(rendered)
	return nil
}

func listBundledDocsTopics() ([]docsTopic, error) {
	var topics []docsTopic
	err := fs.WalkDir(builtindocs.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}

		content, err := fs.ReadFile(builtindocs.FS, p)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(path.Base(p), ".md")
		topics = append(topics, docsTopic{
			Section: path.Dir(p),
			ID:      id,
			Title:   docsTitle(string(content), id),
			Path:    p,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Section != topics[j].Section {
			return topics[i].Section < topics[j].Section
		}
		return topics[i].ID < topics[j].ID
	})
	return topics, nil
}

// docsTitle extracts the first H1 heading, falling back to the topic id.
func docsTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
