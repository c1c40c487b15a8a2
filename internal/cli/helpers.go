package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/vellumkit/vellum/internal/adapter"
	"github.com/vellumkit/vellum/internal/atomicfile"
	"github.com/vellumkit/vellum/internal/docio"
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/store"
	"github.com/vellumkit/vellum/internal/workspace"
)

// readInput reads a document from a file path, or from stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// loadDocument decodes any supported document: native field lists load
// directly, SurveyJS-style schemas go through the adapter. The report is nil
// for native input.
func loadDocument(data []byte) (*field.Document, *adapter.Report, error) {
	parsed, err := docio.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	switch adapter.Detect(parsed) {
	case adapter.KindSurveyJS:
		return adapter.Adapt(parsed)
	case adapter.KindNative:
		doc, err := docio.DecodeNative(data)
		return doc, nil, err
	}
	return nil, nil, fmt.Errorf("unrecognized document shape: expected a field list, a fields object, or a SurveyJS-style schema")
}

// normalizeDocument runs a document through the store, claiming missing ids,
// resolving collisions, and recomputing expression fields.
func normalizeDocument(doc *field.Document) *field.Document {
	s := store.New()
	s.ReplaceAll(doc)
	store.NewRecalculator(s)
	return s.Snapshot()
}

// resolveFormat picks the output format: explicit flag first, then config.
func resolveFormat(flag string) (docio.Format, error) {
	if flag != "" {
		return docio.ParseFormat(flag)
	}
	return docio.ParseFormat(getConfig().Format())
}

// writeOutput writes encoded output to a file (atomically) or to stdout when
// path is empty or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// openWorkspace opens the configured workspace database.
// Caller is responsible for calling Close().
func openWorkspace() (*workspace.Workspace, error) {
	dir, err := getConfig().WorkspaceDir()
	if err != nil {
		return nil, err
	}
	return workspace.Open(dir)
}

// reportWarnings converts a conversion report's warnings to envelope warnings.
func reportWarnings(report *adapter.Report) []Warning {
	if report == nil {
		return nil
	}
	warnings := make([]Warning, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		warnings = append(warnings, Warning{
			Code:     WarnConversion,
			Message:  w.Message,
			Property: w.Property,
			Impact:   string(w.Impact),
		})
	}
	return warnings
}
