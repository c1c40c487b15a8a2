package workspace

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vellumkit/vellum/internal/field"
)

func testDocument() *field.Document {
	return &field.Document{
		SchemaType: "inhouse",
		Metadata:   map[string]interface{}{"title": "Intake"},
		Fields: []*field.Field{
			{ID: "name", Type: field.TypeText, Question: "Name", Answer: "Ada"},
			{
				ID: "about", Type: field.TypeSection, Title: "About",
				Fields: []*field.Field{{ID: "age", Type: field.TypeText}},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	w, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	doc := testDocument()
	if err := w.Save("intake", doc); err != nil {
		t.Fatal(err)
	}

	got, err := w.Load("intake")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("round trip changed document:\n got %+v\nwant %+v", got, doc)
	}
}

func TestSaveOverwrites(t *testing.T) {
	w, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Save("draft", testDocument()); err != nil {
		t.Fatal(err)
	}
	updated := testDocument()
	updated.Fields[0].Answer = "Grace"
	if err := w.Save("draft", updated); err != nil {
		t.Fatal(err)
	}

	got, err := w.Load("draft")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields[0].Answer != "Grace" {
		t.Fatalf("answer = %v", got.Fields[0].Answer)
	}

	entries, err := w.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLoadMissing(t *testing.T) {
	w, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if _, err := w.Load("nope"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	w, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Save("draft", testDocument()); err != nil {
		t.Fatal(err)
	}
	if err := w.Delete("draft"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Load("draft"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := w.Delete("draft"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestRename(t *testing.T) {
	w, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Save("a", testDocument()); err != nil {
		t.Fatal(err)
	}
	if err := w.Save("b", testDocument()); err != nil {
		t.Fatal(err)
	}

	if err := w.Rename("a", "b"); err == nil {
		t.Fatal("rename onto an existing name must fail")
	}
	if err := w.Rename("a", "c"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Load("c"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Load("a"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := w.Rename("missing", "d"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestList(t *testing.T) {
	w, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Save("intake", testDocument()); err != nil {
		t.Fatal(err)
	}

	entries, err := w.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
	e := entries[0]
	// Field count includes section children.
	if e.Name != "intake" || e.SchemaType != "inhouse" || e.FieldCount != 3 {
		t.Fatalf("entry = %+v", e)
	}
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatalf("timestamps = %+v", e)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Save("persisted", testDocument()); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and read back.
	w2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()

	doc, err := w2.Load("persisted")
	if err != nil {
		t.Fatal(err)
	}
	if doc.SchemaType != "inhouse" {
		t.Fatalf("schemaType = %q", doc.SchemaType)
	}
}
