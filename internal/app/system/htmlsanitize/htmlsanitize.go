// Package htmlsanitize cleans page content before it is stored.
package htmlsanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// ExcerptLength is the rune length of a derived excerpt.
const ExcerptLength = 160

var (
	contentPolicy = newContentPolicy()
	stripPolicy   = bluemonday.StrictPolicy()
	spaceRun      = regexp.MustCompile(`\s+`)
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "mark")
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td", "pre", "code")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("th", "td")
	return p
}

// Sanitize removes scripts, event handlers, unsafe URLs and any element
// outside the user-content allow list.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return contentPolicy.Sanitize(s)
}

// StripTags returns the text of s with every tag removed and whitespace
// collapsed.
func StripTags(s string) string {
	text := stripPolicy.Sanitize(s)
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// Excerpt derives a plain-text summary of at most ExcerptLength runes.
func Excerpt(content string) string {
	text := StripTags(content)
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:ExcerptLength-1])) + "…"
}
