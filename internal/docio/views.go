package docio

import (
	"github.com/vellumkit/vellum/internal/field"
)

// Answer is one collected value inside a response entry. ID is present when
// the value names an option, row, or column; free text carries only Value.
type Answer struct {
	ID    string      `json:"id,omitempty" yaml:"id,omitempty"`
	Value interface{} `json:"value" yaml:"value"`
}

// Response is the submission shape of one answered field.
type Response struct {
	ID     string   `json:"id" yaml:"id"`
	Text   string   `json:"text" yaml:"text"`
	Answer []Answer `json:"answer" yaml:"answer"`
}

// DefinitionView returns a deep copy of the document with every
// response-carrying attribute stripped: field answers and selections, option
// flags, and per-option free text, through section children as well. The
// result serializes as a blank template.
func DefinitionView(doc *field.Document) *field.Document {
	out := field.CloneDocument(doc)
	for _, f := range field.Flatten(out.Fields) {
		f.Answer = nil
		f.Selected = nil
		stripOptions(f.Options)
		stripOptions(f.Rows)
		stripOptions(f.Columns)
	}
	return out
}

func stripOptions(opts []field.Option) {
	for i := range opts {
		opts[i].Selected = false
		opts[i].Answer = ""
	}
}

// ResponseView extracts one entry per answered non-structural field. Sections
// and unsupported placeholders never appear; neither do fields whose current
// value is empty.
func ResponseView(doc *field.Document) []Response {
	out := []Response{}
	for _, f := range field.Flatten(doc.Fields) {
		if f.Type.IsStructural() {
			continue
		}
		answers := fieldAnswers(f)
		if len(answers) == 0 {
			continue
		}
		out = append(out, Response{ID: f.ID, Text: f.Label(), Answer: answers})
	}
	return out
}

func fieldAnswers(f *field.Field) []Answer {
	switch {
	case f.Type.IsMatrix():
		cells, _ := f.Selected.(map[string]interface{})
		var out []Answer
		// Row order follows the declared rows, not map iteration.
		for _, row := range f.Rows {
			cell, ok := cells[row.ID]
			if !ok || cell == nil {
				continue
			}
			out = append(out, Answer{ID: row.ID, Value: cellValue(f, cell)})
		}
		return out

	case f.Type.IsMulti():
		var out []Answer
		for _, id := range field.AsStringSlice(field.CurrentValue(f)) {
			out = append(out, optionAnswer(f, id))
		}
		return out

	case f.Type.IsChoice() || f.Type == field.TypeBoolean:
		id, _ := f.Selected.(string)
		if id == "" {
			return nil
		}
		return []Answer{optionAnswer(f, id)}

	default:
		answer := field.CurrentValue(f)
		if answer == nil || answer == "" {
			return nil
		}
		return []Answer{{Value: answer}}
	}
}

// optionAnswer pairs an option id with its display value; unknown ids (stale
// references) fall back to the id itself.
func optionAnswer(f *field.Field, id string) Answer {
	if opt, ok := f.Option(id); ok {
		return Answer{ID: id, Value: opt.Value}
	}
	return Answer{ID: id, Value: id}
}

// cellValue maps a matrix cell (column id or column id list) to display
// values.
func cellValue(f *field.Field, cell interface{}) interface{} {
	switch cv := cell.(type) {
	case string:
		if opt, ok := f.Option(cv); ok {
			return opt.Value
		}
		return cv
	default:
		cols := field.AsStringSlice(cell)
		if cols == nil {
			return cell
		}
		out := make([]interface{}, 0, len(cols))
		for _, id := range cols {
			if opt, ok := f.Option(id); ok {
				out = append(out, opt.Value)
			} else {
				out = append(out, id)
			}
		}
		return out
	}
}
