// Package slug derives URL path segments from titles.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases title, replaces each run of characters outside [a-z0-9]
// with a single hyphen and trims hyphens from both ends. Make(Make(s)) ==
// Make(s). The result is "" when title has no ASCII letters or digits.
func Make(title string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
