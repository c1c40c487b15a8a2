package store

import (
	"math"
	"strconv"

	"github.com/vellumkit/vellum/internal/expr"
	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/visibility"
)

// Recalculator keeps computed (expression) fields' answers in sync with the
// fields they reference. It subscribes to the store and recomputes after
// every mutation.
//
// Write-back is guarded two ways: a value is only written when it actually
// differs (numeric comparison within visibility.Epsilon), and an in-progress
// flag stops the synchronous notification from a write-back from
// re-entering the recompute. Together these break the update loop a formula
// write would otherwise trigger.
type Recalculator struct {
	store *Store
	busy  bool
}

// NewRecalculator attaches a recalculator to the store and performs an
// initial recompute.
func NewRecalculator(s *Store) *Recalculator {
	r := &Recalculator{store: s}
	s.Subscribe(func(*field.Document) { r.Recalculate() })
	r.Recalculate()
	return r
}

// Recalculate recomputes every expression field until values settle.
// Formulas referencing other formulas converge in at most one pass per
// dependency link, so passes are bounded by the formula count.
func (r *Recalculator) Recalculate() {
	if r.busy {
		return
	}
	r.busy = true
	defer func() { r.busy = false }()

	formulas := 0
	for _, f := range field.Flatten(r.store.Snapshot().Fields) {
		if f.Type == field.TypeExpression {
			formulas++
		}
	}

	for pass := 0; pass <= formulas; pass++ {
		if !r.recomputeOnce() {
			return
		}
	}
}

// recomputeOnce evaluates every formula once, writing back changed values.
// Returns true if anything was written.
func (r *Recalculator) recomputeOnce() bool {
	snapshot := field.Flatten(r.store.Snapshot().Fields)
	values := answeredValues(snapshot)

	changed := false
	for _, f := range snapshot {
		if f.Type != field.TypeExpression || f.Expression == "" {
			continue
		}
		result := expr.Evaluate(f.Expression, values)
		next := expr.Format(result.Value, f.DisplayFormat, f.DecimalPlaces)
		cur, _ := f.Answer.(string)
		if answersEqual(cur, next) {
			continue
		}

		changed = true
		id := f.ID
		sectionID := r.sectionOf(id)
		r.store.UpdateField(id, func(f field.Field) field.Field {
			f.Answer = next
			return f
		}, UpdateOptions{SectionID: sectionID})
	}
	return changed
}

func (r *Recalculator) sectionOf(id string) string {
	if _, ok := r.store.fields[id]; ok {
		return ""
	}
	for _, rootID := range r.store.order {
		sec := r.store.fields[rootID]
		if sec.Type != field.TypeSection {
			continue
		}
		for _, child := range sec.Fields {
			if child.ID == id {
				return rootID
			}
		}
	}
	return ""
}

// answeredValues collects the current value of every answered field for
// formula substitution. Unanswered fields stay out of the map so formulas
// referencing them suppress their output.
func answeredValues(flat []*field.Field) map[string]interface{} {
	values := make(map[string]interface{}, len(flat))
	for _, f := range flat {
		v := field.CurrentValue(f)
		switch vv := v.(type) {
		case nil:
			continue
		case string:
			if vv == "" {
				continue
			}
		}
		values[f.ID] = v
	}
	return values
}

// answersEqual compares a current and recomputed answer, numerically when
// both parse as numbers.
func answersEqual(a, b string) bool {
	if a == b {
		return true
	}
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return false
	}
	return math.Abs(na-nb) <= visibility.Epsilon
}
