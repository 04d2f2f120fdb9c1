package schema

import (
	"regexp"
	"strings"
)

// fencePattern matches a ```json ... ``` or ``` ... ``` block. Only the first
// block of a response is ever used; later ones are discarded.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Unwrap extracts the JSON payload of a raw model response. When the trimmed
// text holds a fenced block, the body of the first block is returned,
// otherwise the trimmed text itself. Unwrap(Unwrap(s)) == Unwrap(s) for any
// text without nested fences.
func Unwrap(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}
