package schema

import (
	"fmt"
	"strconv"
	"strings"
)

const indentUnit = "  "

// RenderPrompt renders the definition as the JSON skeleton the model is asked
// to follow. Output is deterministic and locale independent.
func RenderPrompt(root Field) string {
	var b strings.Builder
	writeValue(&b, root, 0)
	return b.String()
}

func writeValue(b *strings.Builder, f Field, depth int) {
	switch f.Type {
	case TypeObject:
		b.WriteString("{\n")
		for i, child := range f.Fields {
			b.WriteString(strings.Repeat(indentUnit, depth+1))
			b.WriteString(strconv.Quote(child.Name))
			b.WriteString(": ")
			writeValue(b, child, depth+1)
			if child.Optional {
				b.WriteString(" (optional)")
			}
			if i < len(f.Fields)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat(indentUnit, depth))
		b.WriteString("}")
	case TypeArray:
		if f.Items == nil {
			b.WriteString("[]")
			return
		}
		if f.Items.Type != TypeObject && f.Items.Type != TypeArray {
			b.WriteString("[")
			writeValue(b, *f.Items, depth)
			b.WriteString("]")
			return
		}
		b.WriteString("[\n")
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		writeValue(b, *f.Items, depth+1)
		b.WriteString("\n")
		b.WriteString(strings.Repeat(indentUnit, depth))
		b.WriteString("]")
	default:
		b.WriteString(scalar(f))
	}
}

func scalar(f Field) string {
	if len(f.Enum) > 0 {
		quoted := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			quoted[i] = strconv.Quote(v)
		}
		return strings.Join(quoted, " | ")
	}

	if f.Type == TypeString {
		if f.Description == "" {
			return `"string"`
		}
		return strconv.Quote("string - " + f.Description)
	}

	s := string(f.Type)
	if f.Min != nil {
		s += fmt.Sprintf(" >= %s", strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Description != "" {
		s += " (" + f.Description + ")"
	}
	return s
}
