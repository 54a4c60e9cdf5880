// Package placeholder finds and fills {{name}} placeholders in prompt
// templates. Names are taken verbatim; nothing checks that they are valid
// identifiers.
package placeholder

import (
	"regexp"
	"strings"
)

// pattern matches the shortest {{...}} run, so "{{a}}{{b}}" yields two tokens.
var pattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// braceStripper removes every brace from a matched token.
var braceStripper = strings.NewReplacer("{", "", "}", "")

// Extract returns the placeholder names in template in order of appearance.
// Repeated placeholders are reported every time they occur. The result is
// empty (not nil) when the template has no placeholders.
func Extract(template string) []string {
	matches := pattern.FindAllString(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, braceStripper.Replace(m))
	}
	return names
}

// Distinct drops repeated names, keeping the first occurrence of each.
func Distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Variables is Extract followed by Distinct: the variable list stored on a prompt.
func Variables(template string) []string {
	return Distinct(Extract(template))
}

// Value is either a single string or an ordered list of strings.
type Value struct {
	items  []string
	isList bool
}

// Scalar wraps a single string value.
func Scalar(s string) Value {
	return Value{items: []string{s}}
}

// List wraps an ordered list; only its first element is ever substituted.
func List(items ...string) Value {
	return Value{items: items, isList: true}
}

// IsList reports whether the value was built with List.
func (v Value) IsList() bool { return v.isList }

// Resolve returns the text substituted for the value. An empty list has no
// text and reports false.
func (v Value) Resolve() (string, bool) {
	if len(v.items) == 0 {
		return "", false
	}
	return v.items[0], true
}

// Values maps placeholder names to their substitution values.
type Values map[string]Value

// Substitute replaces every {{key}} for each key in values with the value's
// text. Placeholders without a value (or with an empty list) stay as they are.
func Substitute(template string, values Values) string {
	if len(values) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(values))
	for key, v := range values {
		text, ok := v.Resolve()
		if !ok {
			continue
		}
		pairs = append(pairs, "{{"+key+"}}", text)
	}
	if len(pairs) == 0 {
		return template
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
