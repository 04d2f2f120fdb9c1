package prompts

import "strings"

// Vars maps placeholder names to their values. A multi-valued entry is joined
// with the placeholder's join option, "\n\n" when unset.
type Vars map[string][]string

// Render substitutes every placeholder of tpl. Missing or empty variables fall
// back to the placeholder's default, or to the empty string. Substituted
// values are never rescanned, so user text containing {{VAR:...}} stays
// literal.
func Render(tpl string, vars Vars) string {
	matches := varPattern.FindAllStringSubmatchIndex(tpl, -1)
	if len(matches) == 0 {
		return tpl
	}

	var b strings.Builder
	b.Grow(len(tpl))
	last := 0
	for _, idx := range matches {
		b.WriteString(tpl[last:idx[0]])
		last = idx[1]

		name := tpl[idx[2]:idx[3]]
		opts := map[string]string{}
		if idx[4] != -1 {
			opts = parseOptions(tpl[idx[4]:idx[5]])
		}

		sep, ok := opts["join"]
		if !ok {
			sep = "\n\n"
		}
		values := nonEmpty(vars[name])
		if len(values) == 0 {
			b.WriteString(opts["default"])
			continue
		}
		b.WriteString(strings.Join(values, sep))
	}
	b.WriteString(tpl[last:])
	return b.String()
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
