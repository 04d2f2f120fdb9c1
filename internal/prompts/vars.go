package prompts

import (
	"regexp"
	"strings"
)

// Placeholder is one {{VAR:...}} occurrence of a template body
type Placeholder struct {
	Raw     string
	Name    string
	Options map[string]string // join, default
}

var (
	// {{VAR:name|key=value|key2="quoted value"}}; group 1 is the name, group 2 the options
	varPattern = regexp.MustCompile(`\{\{VAR:([a-zA-Z0-9_\-]+)((?:\|[^}]+)?)}}`)
	optPattern = regexp.MustCompile(`\|([^=|]+)=([^|]+)`)
)

// ParsePlaceholders returns all placeholders in order of appearance
func ParsePlaceholders(body string) []Placeholder {
	matches := varPattern.FindAllStringSubmatch(body, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		out = append(out, Placeholder{Raw: m[0], Name: m[1], Options: parseOptions(m[2])})
	}
	return out
}

func parseOptions(raw string) map[string]string {
	opts := map[string]string{}
	for _, seg := range optPattern.FindAllStringSubmatch(raw, -1) {
		key := strings.ToLower(strings.TrimSpace(seg[1]))
		opts[key] = decodeEscapes(unquote(strings.TrimSpace(seg[2])))
	}
	return opts
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// escapes decodes \n, \t, \r and \; any other backslash sequence is kept
var escapes = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t", `\r`, "\r")

func decodeEscapes(s string) string {
	return escapes.Replace(s)
}
