// Package llm holds helpers for post-processing raw language model output.
package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// RepairStats records what RepairJSON had to do to a model response
type RepairStats struct {
	OriginalBytes int           `json:"original_bytes"`
	RepairedBytes int           `json:"repaired_bytes"`
	CommentsLost  int           `json:"comments_lost"`
	ErrorsFixed   int           `json:"errors_fixed"`
	RepairTime    time.Duration `json:"repair_time"`
	Strategies    []string      `json:"strategies"`
	WasRepaired   bool          `json:"was_repaired"`
}

var (
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)(\s*:)`)
)

// RepairJSON tries to turn a malformed model response into valid JSON.
// Strategies run in order, each only when the previous result still fails to
// parse:
//  1. cut the first balanced object out of surrounding prose
//  2. drop trailing commas
//  3. drop // and /* */ comments outside string literals
//  4. quote bare object keys
//  5. close unterminated objects and arrays
//  6. the jsonrepair library
//
// Single quotes are deliberately left alone: slide text is full of apostrophes.
func RepairJSON(raw string) (string, RepairStats, error) {
	start := time.Now()
	stats := RepairStats{OriginalBytes: len(raw)}
	finish := func(s string) RepairStats {
		stats.RepairedBytes = len(s)
		stats.RepairTime = time.Since(start)
		return stats
	}

	if valid(raw) {
		return raw, finish(raw), nil
	}
	stats.WasRepaired = true
	repaired := strings.TrimSpace(raw)

	steps := []struct {
		name  string
		apply func(string) string
	}{
		{"extract_object", extractObject},
		{"trailing_commas", func(s string) string { return trailingCommaPattern.ReplaceAllString(s, "$1") }},
		{"comments_removed", func(s string) string {
			out, n := stripComments(s)
			stats.CommentsLost += n
			return out
		}},
		{"key_quotes", func(s string) string { return bareKeyPattern.ReplaceAllString(s, `$1"$2"$3`) }},
		{"completion", closeOpenStructures},
	}

	for _, step := range steps {
		next := step.apply(repaired)
		if next == repaired {
			continue
		}
		repaired = next
		stats.Strategies = append(stats.Strategies, step.name)
		stats.ErrorsFixed++
		if valid(repaired) {
			return repaired, finish(repaired), nil
		}
	}

	if fixed, err := jsonrepair.JSONRepair(repaired); err == nil && fixed != repaired {
		repaired = fixed
		stats.Strategies = append(stats.Strategies, "jsonrepair_library")
		stats.ErrorsFixed++
	}

	if !valid(repaired) {
		return repaired, finish(repaired), fmt.Errorf("JSON repair failed after %d strategies", len(stats.Strategies))
	}
	return repaired, finish(repaired), nil
}

func valid(s string) bool {
	var v interface{}
	return json.Unmarshal([]byte(s), &v) == nil
}

// extractObject returns the first balanced {...} of s, or everything from the
// first brace when it never closes. Text that already starts with a brace or
// bracket is returned unchanged.
func extractObject(s string) string {
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	begin := strings.Index(s, "{")
	if begin < 0 {
		return s
	}

	depth := 0
	inString, escaped := false, false
	for i := begin; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[begin : i+1]
			}
		}
	}
	return s[begin:]
}

// stripComments removes JavaScript-style comments that are not inside a
// string literal, so URLs in slide content survive.
func stripComments(s string) (string, int) {
	var b strings.Builder
	removed := 0
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			removed++
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			removed++
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String(), removed
}

// closeOpenStructures appends the closers of still-open objects and arrays in
// LIFO order. An unterminated string is closed first.
func closeOpenStructures(s string) string {
	var stack []byte
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			stack = append(stack, '}')
		case c == '[':
			stack = append(stack, ']')
		case c == '}' || c == ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !inString && len(stack) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}
