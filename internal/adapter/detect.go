package adapter

// Kind identifies a recognized schema flavor.
type Kind string

const (
	KindSurveyJS Kind = "surveyjs"
	KindNative   Kind = "native"
	KindUnknown  Kind = "unknown"
)

// Detect inspects a parsed document and decides which conversion path
// applies: documents carrying "elements" or "pages" are SurveyJS-style,
// top-level arrays and {fields: [...]} objects are native, anything else is
// unknown.
func Detect(doc interface{}) Kind {
	switch v := doc.(type) {
	case []interface{}:
		return KindNative
	case map[string]interface{}:
		if _, ok := v["elements"]; ok {
			return KindSurveyJS
		}
		if _, ok := v["pages"]; ok {
			return KindSurveyJS
		}
		if _, ok := v["fields"]; ok {
			return KindNative
		}
	}
	return KindUnknown
}
