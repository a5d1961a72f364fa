// Package dialect holds the dialect-neutral machinery the generation engine
// resolves everything through: placeholder templates, quoting grammars, the
// keyed vocabulary tables (lexis) and the driver profiles that bind them.
//
// The concrete vocabularies live in the per-dialect subpackages and are
// assembled into a Registry by package profiles.
package dialect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var rePlaceholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Values maps placeholder names to the values substituted for them.
type Values map[string]any

// Template is a SQL fragment with named `{placeholder}` slots. The placeholder
// set is extracted once at construction.
type Template struct {
	text         string
	placeholders []string
}

// NewTemplate parses text into a Template.
func NewTemplate(text string) Template {
	var names []string
	seen := make(map[string]bool)
	for _, m := range rePlaceholder.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return Template{text: text, placeholders: names}
}

// Text returns the raw template text.
func (t Template) Text() string { return t.text }

// Placeholders returns the distinct placeholder names in order of first use.
func (t Template) Placeholders() []string {
	return append([]string(nil), t.placeholders...)
}

// Has reports whether the template declares the placeholder.
func (t Template) Has(name string) bool {
	for _, p := range t.placeholders {
		if p == name {
			return true
		}
	}
	return false
}

// IsZero reports whether the template is empty.
func (t Template) IsZero() bool { return t.text == "" }

// Substitute replaces every placeholder that has a value; the rest are left
// intact. Substituted text is never rescanned.
func (t Template) Substitute(values Values) string {
	return Substitute(t.text, values)
}

// Substitute is the substitution primitive for text that is not a lexis
// template, such as migration skeletons.
func Substitute(text string, values Values) string {
	if len(values) == 0 {
		return text
	}
	return rePlaceholder.ReplaceAllStringFunc(text, func(token string) string {
		v, ok := values[token[1:len(token)-1]]
		if !ok {
			return token
		}
		return stringify(v)
	})
}

// Extract is the inverse of Substitute for a single template: given text
// produced by Substitute it returns the value bound to each placeholder. It
// returns false when rendered does not match the template.
func (t Template) Extract(rendered string) (map[string]string, bool) {
	var pattern strings.Builder
	var order []string
	pattern.WriteString("^")
	last := 0
	for _, loc := range rePlaceholder.FindAllStringSubmatchIndex(t.text, -1) {
		pattern.WriteString(regexp.QuoteMeta(t.text[last:loc[0]]))
		pattern.WriteString("(.*?)")
		order = append(order, t.text[loc[2]:loc[3]])
		last = loc[1]
	}
	pattern.WriteString(regexp.QuoteMeta(t.text[last:]))
	pattern.WriteString("$")

	m := regexp.MustCompile(pattern.String()).FindStringSubmatch(rendered)
	if m == nil {
		return nil, false
	}
	out := make(map[string]string, len(t.placeholders))
	for i, name := range order {
		if prev, ok := out[name]; ok && prev != m[i+1] {
			return nil, false
		}
		out[name] = m[i+1]
	}
	return out, true
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// strayBraces reports whether text contains a brace that is not part of a
// recognized placeholder token.
func strayBraces(text string) bool {
	rest := rePlaceholder.ReplaceAllString(text, "")
	return strings.ContainsAny(rest, "{}")
}
