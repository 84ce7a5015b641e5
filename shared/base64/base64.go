package base64

import "strings"

// GetContentType extracts the mime type from a data URI
// ("data:image/png;base64,...."). Returns "" when the input is not a
// well-formed data URI.
func GetContentType(file string) string {
	rest, found := strings.CutPrefix(file, "data:")
	if !found {
		return ""
	}

	mime, _, found := strings.Cut(rest, ";base64,")
	if !found {
		return ""
	}

	return mime
}
