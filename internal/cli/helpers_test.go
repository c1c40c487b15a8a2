package cli

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

func TestLoadDocumentNative(t *testing.T) {
	doc, report, err := loadDocument([]byte(`[{"id": "name", "fieldType": "text", "question": "Name?"}]`))
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	if report != nil {
		t.Fatalf("expected no conversion report for native input, got %+v", report)
	}
	if len(doc.Fields) != 1 || doc.Fields[0].ID != "name" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoadDocumentSurveyJS(t *testing.T) {
	input := `{
		"pages": [
			{"elements": [{"type": "text", "name": "email", "title": "Email?"}]}
		]
	}`

	doc, report, err := loadDocument([]byte(input))
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	if report == nil {
		t.Fatal("expected a conversion report for external schema input")
	}
	if report.ConvertedFields != 1 {
		t.Fatalf("ConvertedFields = %d, want 1", report.ConvertedFields)
	}
	if len(doc.Fields) != 1 || doc.Fields[0].ID != "email" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoadDocumentRejectsGarbage(t *testing.T) {
	if _, _, err := loadDocument([]byte(`:::: not a document`)); err == nil {
		t.Fatal("expected error for malformed input")
	}
	if _, _, err := loadDocument([]byte(`42`)); err == nil {
		t.Fatal("expected error for a bare scalar")
	}
}

func TestNormalizeDocumentRecomputesExpressions(t *testing.T) {
	doc, _, err := loadDocument([]byte(`[
		{"id": "a", "fieldType": "text", "question": "A?", "answer": "2"},
		{"id": "b", "fieldType": "text", "question": "B?", "answer": "3"},
		{"id": "sum", "fieldType": "expression", "expression": "{a} + {b}"}
	]`))
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}

	doc = normalizeDocument(doc)

	idx := make(map[string]interface{})
	for _, f := range doc.Fields {
		idx[f.ID] = f.Answer
	}
	if idx["sum"] != "5" {
		t.Fatalf("sum answer = %v, want %q", idx["sum"], "5")
	}
}
