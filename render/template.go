package render

import "regexp"

// DefaultTemplate is the standard scan summary layout expanded from a
// metadata map.
const DefaultTemplate = `{filename}
{filepath}
{start_time}
cmd = {scan_command}
axes = {axes}
signal = {signal}
shape = {shape}`

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Expand replaces {key} placeholders in the template with values from
// the metadata map. Placeholders without a value are left intact so a
// partially filled template stays readable.
func Expand(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := values[key]; ok {
			return v
		}
		return m
	})
}
