package store

import (
	"reflect"
	"testing"

	"github.com/vellumkit/vellum/internal/field"
)

func intPtr(i int) *int { return &i }

func TestAddFieldGeneratesUniqueIDs(t *testing.T) {
	s := New()
	s.AddField(field.TypeText, AddOptions{})
	s.AddField(field.TypeText, AddOptions{})
	s.AddField(field.TypeText, AddOptions{})

	doc := s.Snapshot()
	seen := map[string]bool{}
	for _, f := range doc.Fields {
		if seen[f.ID] {
			t.Fatalf("duplicate id %q", f.ID)
		}
		seen[f.ID] = true
	}
	if !seen["text"] || !seen["text-1"] || !seen["text-2"] {
		t.Fatalf("unexpected ids: %v", seen)
	}
}

func TestAddFieldUnknownTypeIsNoop(t *testing.T) {
	s := New()
	s.AddField(field.Type("hologram"), AddOptions{})
	if s.Len() != 0 {
		t.Fatal("unknown type must not create a field")
	}
}

func TestAddFieldIntoSection(t *testing.T) {
	s := New()
	s.AddField(field.TypeSection, AddOptions{Init: func(f *field.Field) { f.ID = "sec" }})
	s.AddField(field.TypeRadio, AddOptions{SectionID: "sec"})

	sec, ok := s.Field("sec")
	if !ok || len(sec.Fields) != 1 {
		t.Fatalf("section should hold one child, got %+v", sec)
	}

	// Sections never nest.
	s.AddField(field.TypeSection, AddOptions{SectionID: "sec"})
	sec, _ = s.Field("sec")
	if len(sec.Fields) != 1 {
		t.Fatal("nested section must be rejected")
	}

	// Ids are unique across root and section children.
	s.AddField(field.TypeRadio, AddOptions{})
	f, _ := s.Field("radio-1")
	if f == nil {
		t.Fatal("root radio should get suffixed id against section child")
	}
}

func TestAddFieldAtIndex(t *testing.T) {
	s := New()
	s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = "a" }})
	s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = "b" }})
	s.AddField(field.TypeText, AddOptions{Index: intPtr(1), Init: func(f *field.Field) { f.ID = "mid" }})

	var got []string
	for _, f := range s.Snapshot().Fields {
		got = append(got, f.ID)
	}
	if !reflect.DeepEqual(got, []string{"a", "mid", "b"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestUpdateFieldIdempotence(t *testing.T) {
	s := New()
	s.AddField(field.TypeText, AddOptions{})

	notified := 0
	s.Subscribe(func(*field.Document) { notified++ })

	s.UpdateField("text", func(f field.Field) field.Field { return f }, UpdateOptions{})
	if notified != 0 {
		t.Fatal("identical update must not notify")
	}

	s.UpdateField("text", func(f field.Field) field.Field {
		f.Question = "Changed"
		return f
	}, UpdateOptions{})
	if notified != 1 {
		t.Fatalf("changed update should notify once, got %d", notified)
	}
}

func TestRenamePropagatesAndRejectsCollision(t *testing.T) {
	s := New()
	s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = "first" }})
	s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = "second" }})

	var gotNew, gotOld string
	s.UpdateField("first", func(f field.Field) field.Field {
		f.ID = "renamed"
		return f
	}, UpdateOptions{OnIDChange: func(newID, oldID string) { gotNew, gotOld = newID, oldID }})

	if gotNew != "renamed" || gotOld != "first" {
		t.Fatalf("rename callback got (%q, %q)", gotNew, gotOld)
	}
	if _, ok := s.Field("renamed"); !ok {
		t.Fatal("renamed field not found")
	}
	if _, ok := s.Field("first"); ok {
		t.Fatal("old id still resolves")
	}

	// Collision: whole mutation dropped, including other attribute changes.
	before := s.Snapshot()
	s.UpdateField("renamed", func(f field.Field) field.Field {
		f.ID = "second"
		f.Question = "Should not stick"
		return f
	}, UpdateOptions{})
	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatal("collision on rename must leave the store unchanged")
	}
}

func TestUpdateMissingFieldIsNoop(t *testing.T) {
	s := New()
	notified := 0
	s.Subscribe(func(*field.Document) { notified++ })
	s.UpdateField("ghost", func(f field.Field) field.Field {
		f.Question = "x"
		return f
	}, UpdateOptions{})
	if notified != 0 {
		t.Fatal("updating a missing field must be silent")
	}
}

func TestDeleteField(t *testing.T) {
	s := New()
	s.AddField(field.TypeSection, AddOptions{Init: func(f *field.Field) { f.ID = "sec" }})
	s.AddField(field.TypeText, AddOptions{SectionID: "sec", Init: func(f *field.Field) { f.ID = "child" }})

	s.DeleteField("child", "sec")
	sec, _ := s.Field("sec")
	if len(sec.Fields) != 0 {
		t.Fatal("child not removed")
	}

	// Freed id is reusable.
	s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = "child" }})
	if _, ok := s.Field("child"); !ok {
		t.Fatal("freed id should be reusable")
	}

	s.DeleteField("ghost", "")
	s.DeleteField("sec", "")
	if s.Len() != 1 {
		t.Fatalf("expected only the re-added field, got %d", s.Len())
	}
}

func TestOptionCascadeSingleSelect(t *testing.T) {
	s := New()
	s.AddField(field.TypeRadio, AddOptions{Init: func(f *field.Field) { f.ID = "color" }})
	s.SelectSingle("color", "option-1", "")

	s.DeleteOption("color", "option-1", "")
	f, _ := s.Field("color")
	if f.Selected != nil {
		t.Fatalf("selection should be cleared, got %#v", f.Selected)
	}
	if len(f.Options) != 1 {
		t.Fatalf("option not removed: %+v", f.Options)
	}
}

func TestOptionCascadeMultiSelect(t *testing.T) {
	s := New()
	s.AddField(field.TypeCheckbox, AddOptions{Init: func(f *field.Field) { f.ID = "toppings" }})
	s.ToggleMulti("toppings", "option-1", "")
	s.ToggleMulti("toppings", "option-2", "")

	s.DeleteOption("toppings", "option-1", "")
	f, _ := s.Field("toppings")
	if !reflect.DeepEqual(f.Selected, []string{"option-2"}) {
		t.Fatalf("only the deleted entry should be pruned, got %#v", f.Selected)
	}
}

func TestMatrixColumnCascade(t *testing.T) {
	s := New()
	s.AddField(field.TypeMatrix, AddOptions{Init: func(f *field.Field) { f.ID = "grid" }})
	s.SelectMatrixCell("grid", "row-1", "col-1", "")
	s.SelectMatrixCell("grid", "row-2", "col-2", "")

	s.DeleteColumn("grid", "col-1", "")
	f, _ := s.Field("grid")
	sel := f.Selected.(map[string]interface{})
	if _, ok := sel["row-1"]; ok {
		t.Fatal("row-1 association should be pruned")
	}
	if sel["row-2"] != "col-2" {
		t.Fatalf("row-2 association lost: %#v", sel)
	}
}

func TestMatrixRowCascade(t *testing.T) {
	s := New()
	s.AddField(field.TypeMultiMatrix, AddOptions{Init: func(f *field.Field) { f.ID = "grid" }})
	s.ToggleMatrixCell("grid", "row-1", "col-1", "")
	s.ToggleMatrixCell("grid", "row-1", "col-2", "")

	s.DeleteRow("grid", "row-1", "")
	f, _ := s.Field("grid")
	if len(f.Selected.(map[string]interface{})) != 0 {
		t.Fatalf("row entry should be removed, got %#v", f.Selected)
	}
}

func TestAddOptionGeneratesScopedIDs(t *testing.T) {
	s := New()
	s.AddField(field.TypeRadio, AddOptions{Init: func(f *field.Field) { f.ID = "color" }})
	s.AddOption("color", "Green", "")
	s.AddOption("color", "Blue", "")

	f, _ := s.Field("color")
	gotIDs := map[string]bool{}
	for _, opt := range f.Options {
		if gotIDs[opt.ID] {
			t.Fatalf("duplicate option id %q", opt.ID)
		}
		gotIDs[opt.ID] = true
	}
	if !gotIDs["color-option"] || !gotIDs["color-option-1"] {
		t.Fatalf("unexpected option ids: %v", gotIDs)
	}
}

func TestToggleMultiIdempotentShape(t *testing.T) {
	s := New()
	s.AddField(field.TypeCheckbox, AddOptions{Init: func(f *field.Field) { f.ID = "m" }})

	s.ToggleMulti("m", "option-1", "")
	s.ToggleMulti("m", "option-1", "")
	f, _ := s.Field("m")
	if len(field.AsStringSlice(f.Selected)) != 0 {
		t.Fatalf("double toggle should clear membership, got %#v", f.Selected)
	}

	// Unknown option is a no-op.
	s.ToggleMulti("m", "ghost", "")
	f, _ = s.Field("m")
	if len(field.AsStringSlice(f.Selected)) != 0 {
		t.Fatal("unknown option must not be added")
	}
}

func TestSelectSingleIdempotent(t *testing.T) {
	s := New()
	s.AddField(field.TypeRadio, AddOptions{Init: func(f *field.Field) { f.ID = "r" }})

	notified := 0
	s.Subscribe(func(*field.Document) { notified++ })
	s.SelectSingle("r", "option-1", "")
	s.SelectSingle("r", "option-1", "")
	if notified != 1 {
		t.Fatalf("re-selecting the same option must not notify, got %d", notified)
	}
}

func TestSetAnswerSliceValues(t *testing.T) {
	s := New()
	s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = "notes" }})

	notified := 0
	s.Subscribe(func(*field.Document) { notified++ })

	// Answers arriving from decoded JSON can be slice-shaped; the unchanged
	// check must not compare them with ==.
	s.SetAnswer("notes", []interface{}{"a", "b"}, "")
	s.SetAnswer("notes", []interface{}{"a", "b"}, "")
	if notified != 1 {
		t.Fatalf("re-setting an equal slice answer must not notify, got %d", notified)
	}

	s.SetAnswer("notes", []interface{}{"a", "c"}, "")
	if notified != 2 {
		t.Fatalf("changed slice answer must notify, got %d", notified)
	}
	f, _ := s.Field("notes")
	if !reflect.DeepEqual(f.Answer, []interface{}{"a", "c"}) {
		t.Fatalf("answer = %#v", f.Answer)
	}
}

func TestReplaceAllNormalizes(t *testing.T) {
	s := New()
	s.ReplaceAll(&field.Document{
		SchemaType: "imported",
		Metadata:   map[string]interface{}{"source": "test"},
		Fields: []*field.Field{
			{Type: field.TypeText, Question: "What is your name?"},
			{ID: "sec", Type: field.TypeSection, Title: "Details"},
			{ID: "sec-2", Type: field.TypeSection, Fields: []*field.Field{
				{Type: field.TypeRadio, Question: "Pick one"},
			}},
		},
	})

	if s.SchemaType() != "imported" {
		t.Fatalf("schema type = %q", s.SchemaType())
	}

	doc := s.Snapshot()
	if doc.Fields[0].ID != "what-is-your-name" {
		t.Fatalf("missing id should be slugged from the question, got %q", doc.Fields[0].ID)
	}
	if doc.Fields[1].Fields == nil {
		t.Fatal("section child list must be normalized to non-nil")
	}
	if doc.Fields[2].Fields[0].ID == "" {
		t.Fatal("nested child should get an id")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := New()
	s.AddField(field.TypeRadio, AddOptions{Init: func(f *field.Field) { f.ID = "r" }})

	snap := s.Snapshot()
	snap.Fields[0].Options[0].Value = "mutated"

	f, _ := s.Field("r")
	if f.Options[0].Value == "mutated" {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New()
	notified := 0
	cancel := s.Subscribe(func(*field.Document) { notified++ })
	s.AddField(field.TypeText, AddOptions{})
	cancel()
	s.AddField(field.TypeText, AddOptions{})
	if notified != 1 {
		t.Fatalf("expected one notification, got %d", notified)
	}
}

func TestMoveField(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		id := id
		s.AddField(field.TypeText, AddOptions{Init: func(f *field.Field) { f.ID = id }})
	}
	s.MoveField("c", 0, "")

	var got []string
	for _, f := range s.Snapshot().Fields {
		got = append(got, f.ID)
	}
	if !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("order after move = %v", got)
	}

	before := s.Snapshot()
	s.MoveField("c", 99, "")
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatal("out-of-range move must be a no-op")
	}
}
