package visibility

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, so "café" and
// "cafe" normalize identically.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

var nonWord = regexp.MustCompile(`[^a-z0-9 ]+`)
var multiSpace = regexp.MustCompile(` +`)

// normalizeText folds text for diacritic-insensitive matching: strip
// combining marks, lowercase, collapse everything but letters, digits, and
// spaces.
func normalizeText(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = nonWord.ReplaceAllString(folded, " ")
	folded = multiSpace.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// containsWord reports whether needle occurs in haystack as a whole-word
// substring after both are normalized.
func containsWord(haystack, needle string) bool {
	h := normalizeText(haystack)
	n := normalizeText(needle)
	if n == "" {
		return false
	}
	pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(n) + `\b`)
	if err != nil {
		return false
	}
	return pattern.MatchString(h)
}
