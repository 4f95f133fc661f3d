package descriptor

import (
	"regexp"
	"strings"
)

var queryBlockPattern = regexp.MustCompile(`type Query\s*\{([^}]*)\}`)

// parseGraphQL pulls query field names out of the schema's Query type.
// This is textual extraction, not an SDL parser: each non-comment,
// non-empty line inside `type Query { ... }` becomes a candidate field.
func parseGraphQL(d *Descriptor, sourceText string) {
	match := queryBlockPattern.FindStringSubmatch(sourceText)
	if match == nil {
		d.Error = "no Query type found in schema"
		return
	}

	var fields []string
	for _, line := range strings.Split(match[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields = append(fields, fieldName(line))
	}

	if len(fields) == 0 {
		d.Error = "Query type declares no fields"
		return
	}

	d.Operations = append(d.Operations, &GraphQLOperation{Fields: fields})
}

// fieldName strips the argument list and return type from an SDL field
// line, e.g. "users(limit: Int): [User!]" -> "users".
func fieldName(line string) string {
	if i := strings.IndexAny(line, "(:"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
