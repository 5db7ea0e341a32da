package browser

import "encoding/json"

// jsString renders s as a JavaScript string literal. JSON string encoding is
// a valid JS string literal for everything the automation passes through here.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
