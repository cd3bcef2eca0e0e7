// Package normalize cleans user input before it is validated or stored.
package normalize

import "strings"

// Email trims and lowercases an address. Emails are stored this way so the
// unique index on users.email is case-insensitive in effect.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name; case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a free-text query parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Filter normalizes an equality filter from the query string. "all" and ""
// both mean no filter and return "".
func Filter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// List trims each element and drops blanks and repeats, keeping order.
func List(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
