package executor

import "strings"

// failureMarkers are matched anywhere in the response text, case-insensitive.
var failureMarkers = []string{"failed", "error", "incorrect", "cannot"}

// IsFailure reports whether a 2xx executor response describes a failed
// action. Classification is purely substring based: any occurrence of a
// marker anywhere in the text counts as a failure, even inside an unrelated
// word or a proper name. That is the documented contract with the executor;
// responses describing success must avoid the marker words.
func IsFailure(response string) bool {
	lowered := strings.ToLower(response)

	for _, marker := range failureMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return false
}
