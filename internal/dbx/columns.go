package dbx

import (
	"regexp"
	"strings"
)

var selectListRe = regexp.MustCompile(`(?is)^\s*select\s+(.+?)\s+from\s`)

// InferColumns recovers column names from the text of a plain column-list
// SELECT statement. It exists as a fallback for result sets where the
// active driver reports no column metadata; driver metadata always wins
// when present. Wildcard selects and non-select statements yield nil,
// meaning "unknown - positional access only".
func InferColumns(query string) []string {
	m := selectListRe.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	list := m[1]
	if strings.Contains(list, "*") {
		return nil
	}

	parts := splitTopLevel(list)
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		c := strings.ToLower(strings.TrimSpace(p))
		if c == "" {
			continue
		}
		// "name AS n" -> "n"
		if i := strings.LastIndex(c, " as "); i >= 0 {
			c = strings.TrimSpace(c[i+4:])
		}
		// "c.name" -> "name", but not inside a call like count(c.id)
		if i := strings.LastIndex(c, "."); i >= 0 && !strings.Contains(c, "(") {
			c = c[i+1:]
		}
		cols = append(cols, c)
	}
	return cols
}

// splitTopLevel splits a select list on commas outside parentheses, so a
// multi-argument call like coalesce(a, b) stays one item.
func splitTopLevel(list string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, list[start:])
}
