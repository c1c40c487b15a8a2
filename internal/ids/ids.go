// Package ids provides collision-safe identifier generation for fields and
// their sub-entities (options, rows, columns).
//
// Identifiers are generated from a base name (usually a field type or a
// slugged question text) and made unique against a caller-supplied set by
// appending numeric suffixes. The generator never mutates the set; callers
// building a batch add each returned id before generating the next one.
package ids

import (
	"fmt"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Generate returns baseName if it is not present in existing, otherwise the
// first of baseName-1, baseName-2, ... that is free. The search is bounded by
// len(existing)+1 iterations, so it always terminates.
func Generate(baseName string, existing map[string]struct{}) string {
	if baseName == "" {
		baseName = "field"
	}
	if _, taken := existing[baseName]; !taken {
		return baseName
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseName, i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// GenerateSub returns a unique id for a sub-entity of the field with the
// given scope prefix. kind is "option", "row", or "col".
func GenerateSub(scopePrefix, kind string, existing map[string]struct{}) string {
	return Generate(scopePrefix+"-"+kind, existing)
}

// Slug converts free text (typically a question) into an id-safe base name.
// Empty or unsluggable input falls back to a lowercased, dash-joined form.
func Slug(text string) string {
	slugged := goslug.Make(text)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(text), "-"))
	}
	return slugged
}

// Set builds a lookup set from a list of ids.
func Set(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, id := range list {
		set[id] = struct{}{}
	}
	return set
}
