package env

import (
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// WarnFunc is called when a placeholder cannot be resolved.
type WarnFunc func(format string, args ...any)

// Resolve replaces every {{KEY}} occurrence in template with the
// environment's value for KEY. Lookup is case-sensitive and non-nested;
// values are substituted in a single pass and never re-scanned. Placeholders
// without a matching variable are left verbatim rather than erroring.
func Resolve(template string, environment *Environment) string {
	return ResolveWarn(template, environment, nil)
}

// ResolveWarn is Resolve with a callback for unresolved placeholders.
func ResolveWarn(template string, environment *Environment, warn WarnFunc) string {
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])

		if environment != nil {
			if val, ok := environment.Variables[key]; ok {
				return val
			}
		}

		if warn != nil {
			warn("unresolved variable: %s", key)
		}
		return match
	})
}

// HasUnresolved reports whether template still contains placeholders the
// environment cannot satisfy.
func HasUnresolved(template string, environment *Environment) bool {
	for _, m := range variablePattern.FindAllStringSubmatch(template, -1) {
		key := strings.TrimSpace(m[1])
		if environment == nil {
			return true
		}
		if _, ok := environment.Variables[key]; !ok {
			return true
		}
	}
	return false
}
